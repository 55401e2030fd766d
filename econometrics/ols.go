// Package econometrics runs the time-series tests relating sentiment to
// price: stationarity (ADF), Granger causality, and VAR fitting. The
// regression machinery is gonum's least squares; this package only builds
// design matrices and reads off statistics.
package econometrics

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type olsResult struct {
	beta []float64
	se   []float64
	rss  float64
	nObs int
	nVar int
}

// olsFit solves y = X*beta by QR and derives the residual sum of squares
// and coefficient standard errors.
func olsFit(y []float64, x *mat.Dense) (*olsResult, error) {
	n, k := x.Dims()
	if n != len(y) {
		return nil, errors.Errorf("design matrix has %d rows for %d observations", n, len(y))
	}
	if n <= k {
		return nil, errors.Errorf("need more than %d observations to fit %d coefficients", k, k)
	}

	yVec := mat.NewVecDense(n, y)
	var qr mat.QR
	qr.Factorize(x)

	var betaVec mat.VecDense
	if err := qr.SolveVecTo(&betaVec, false, yVec); err != nil {
		return nil, errors.Wrap(err, "least squares solve failed")
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &betaVec)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}

	// Coefficient covariance: sigma^2 (X'X)^-1.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, errors.Wrap(err, "design matrix is singular")
	}
	sigma2 := rss / float64(n-k)

	res := &olsResult{rss: rss, nObs: n, nVar: k}
	res.beta = make([]float64, k)
	res.se = make([]float64, k)
	for i := 0; i < k; i++ {
		res.beta[i] = betaVec.AtVec(i)
		res.se[i] = math.Sqrt(sigma2 * inv.At(i, i))
	}
	return res, nil
}

func diff(series []float64) []float64 {
	d := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		d[i-1] = series[i] - series[i-1]
	}
	return d
}
