package econometrics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// VARResult holds a fitted VAR(p) over k series, one coefficient row
// per equation. Each row is [const, s1_lag1..s1_lagP, ..., sk_lag1..sk_lagP].
type VARResult struct {
	Lags         int         `json:"lags"`
	SeriesNames  []string    `json:"series"`
	Coefficients [][]float64 `json:"coefficients"`
	Observations int         `json:"observations"`
}

// FitVAR estimates a vector autoregression of order p by running OLS
// equation by equation. All series must share the same length.
func FitVAR(names []string, series [][]float64, p int) (*VARResult, error) {
	k := len(series)
	if k == 0 {
		return nil, errors.New("no series provided")
	}
	if len(names) != k {
		return nil, errors.Errorf("got %d names for %d series", len(names), k)
	}
	if p < 1 {
		p = 1
	}
	length := len(series[0])
	for i, s := range series {
		if len(s) != length {
			return nil, errors.Errorf("series %q has %d observations, want %d", names[i], len(s), length)
		}
	}

	n := length - p
	nVar := 1 + k*p
	if n <= nVar {
		return nil, errors.Errorf("series too short: %d usable observations for %d coefficients", n, nVar)
	}

	x := mat.NewDense(n, nVar, nil)
	for t := 0; t < n; t++ {
		x.Set(t, 0, 1)
		for i := 0; i < k; i++ {
			for l := 1; l <= p; l++ {
				x.Set(t, 1+i*p+(l-1), series[i][p+t-l])
			}
		}
	}

	coeffs := make([][]float64, k)
	for i := 0; i < k; i++ {
		fit, err := olsFit(series[i][p:], x)
		if err != nil {
			return nil, errors.Wrapf(err, "equation for %q", names[i])
		}
		coeffs[i] = fit.beta
	}

	return &VARResult{
		Lags:         p,
		SeriesNames:  names,
		Coefficients: coeffs,
		Observations: n,
	}, nil
}
