package econometrics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

type CrossCorrelationPoint struct {
	Lag         int     `json:"lag"`
	Correlation float64 `json:"correlation"`
	// Observations left after shifting the series by Lag.
	Observations int `json:"observations"`
}

// CrossCorrelation computes the Pearson correlation between x and y at every
// lag in [-maxLag, maxLag]. A positive lag pairs x[t] with y[t+lag], so a
// peak there means x leads y. Lags that leave fewer than three overlapping
// observations are skipped.
func CrossCorrelation(x, y []float64, maxLag int) ([]CrossCorrelationPoint, error) {
	if len(x) != len(y) {
		return nil, errors.Errorf("series must be aligned: %d vs %d observations", len(x), len(y))
	}
	if maxLag < 0 {
		maxLag = 0
	}

	n := len(x)
	points := make([]CrossCorrelationPoint, 0, 2*maxLag+1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		shift := lag
		if shift < 0 {
			shift = -shift
		}
		if n-shift < 3 {
			continue
		}
		var xs, ys []float64
		if lag >= 0 {
			xs, ys = x[:n-lag], y[lag:]
		} else {
			xs, ys = x[shift:], y[:n-shift]
		}
		points = append(points, CrossCorrelationPoint{
			Lag:          lag,
			Correlation:  stat.Correlation(xs, ys, nil),
			Observations: len(xs),
		})
	}
	if len(points) == 0 {
		return nil, errors.Errorf("series too short for cross correlation: %d observations", n)
	}
	return points, nil
}
