package econometrics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MacKinnon critical values for the constant-only ADF regression.
var adfCriticalValues = map[string]float64{
	"1%":  -3.43,
	"5%":  -2.86,
	"10%": -2.57,
}

type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	Lags           int                `json:"lags"`
	Observations   int                `json:"observations"`
	CriticalValues map[string]float64 `json:"critical_values"`
	// Stationary at the 5% level.
	Stationary bool `json:"stationary"`
}

// ADF runs the augmented Dickey-Fuller test with a constant term:
// regress dy_t on [1, y_{t-1}, dy_{t-1}, ..., dy_{t-lags}] and compare the
// t-statistic of the y_{t-1} coefficient against the MacKinnon table.
func ADF(series []float64, lags int) (*ADFResult, error) {
	if lags < 0 {
		lags = 0
	}
	if len(series) < 2 {
		return nil, errors.New("series too short for ADF")
	}
	dy := diff(series)
	// First usable index into dy: we need lags of dy plus one level lag.
	from := lags
	n := len(dy) - from
	k := 2 + lags
	if n <= k {
		return nil, errors.Errorf("series too short for ADF with %d lags: %d usable observations", lags, n)
	}

	y := dy[from:]
	x := mat.NewDense(n, k, nil)
	for t := 0; t < n; t++ {
		x.Set(t, 0, 1)
		// y_{t-1} in level terms; dy index from+t corresponds to level index from+t+1.
		x.Set(t, 1, series[from+t])
		for l := 1; l <= lags; l++ {
			x.Set(t, 1+l, dy[from+t-l])
		}
	}

	fit, err := olsFit(y, x)
	if err != nil {
		return nil, err
	}

	stat := fit.beta[1] / fit.se[1]
	return &ADFResult{
		Statistic:      stat,
		Lags:           lags,
		Observations:   n,
		CriticalValues: adfCriticalValues,
		Stationary:     stat < adfCriticalValues["5%"],
	}, nil
}
