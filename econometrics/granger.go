package econometrics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

type GrangerResult struct {
	Lag    int     `json:"lag"`
	FStat  float64 `json:"f_statistic"`
	PValue float64 `json:"p_value"`
	// Cause Granger-causes effect at the 5% level for this lag.
	Significant bool `json:"significant"`
}

// Granger tests whether cause helps predict effect at each lag up to
// maxLag: an F-test of the restricted model (effect on its own lags)
// against the unrestricted one (plus cause lags).
func Granger(cause, effect []float64, maxLag int) ([]GrangerResult, error) {
	if len(cause) != len(effect) {
		return nil, errors.Errorf("series must be aligned: %d vs %d observations", len(cause), len(effect))
	}
	if maxLag < 1 {
		maxLag = 1
	}

	var results []GrangerResult
	for lag := 1; lag <= maxLag; lag++ {
		res, err := grangerAtLag(cause, effect, lag)
		if err != nil {
			return nil, errors.Wrapf(err, "granger lag %d", lag)
		}
		results = append(results, *res)
	}
	return results, nil
}

func grangerAtLag(cause, effect []float64, lag int) (*GrangerResult, error) {
	n := len(effect) - lag
	kU := 1 + 2*lag
	if n <= kU {
		return nil, errors.Errorf("series too short: %d usable observations for %d coefficients", n, kU)
	}

	y := effect[lag:]

	restricted := mat.NewDense(n, 1+lag, nil)
	unrestricted := mat.NewDense(n, kU, nil)
	for t := 0; t < n; t++ {
		restricted.Set(t, 0, 1)
		unrestricted.Set(t, 0, 1)
		for l := 1; l <= lag; l++ {
			restricted.Set(t, l, effect[lag+t-l])
			unrestricted.Set(t, l, effect[lag+t-l])
			unrestricted.Set(t, lag+l, cause[lag+t-l])
		}
	}

	fitR, err := olsFit(y, restricted)
	if err != nil {
		return nil, err
	}
	fitU, err := olsFit(y, unrestricted)
	if err != nil {
		return nil, err
	}

	dfDenom := float64(n - kU)
	f := ((fitR.rss - fitU.rss) / float64(lag)) / (fitU.rss / dfDenom)
	if f < 0 {
		f = 0
	}

	dist := distuv.F{D1: float64(lag), D2: dfDenom}
	p := 1 - dist.CDF(f)

	return &GrangerResult{
		Lag:         lag,
		FStat:       f,
		PValue:      p,
		Significant: p < 0.05,
	}, nil
}
