// Package glm fits binomial generalized linear models with a logit link and
// adapts them to row tables through FitFormula.
package glm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/logiteval/core/model"
	"github.com/YuminosukeSato/logiteval/core/parallel"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/pkg/log"
	"github.com/YuminosukeSato/logiteval/preprocessing"
)

const (
	defaultMaxIter = 25
	defaultTol     = 1e-8

	// probEps bounds fitted probabilities away from 0 and 1 inside the
	// working weights.
	probEps = 1e-10

	// maxCond is the largest acceptable condition number of X'WX.
	maxCond = 1e14

	parallelThreshold = 1000
)

// Binomial is a logistic regression fitted by iteratively reweighted least
// squares. It always fits an intercept.
type Binomial struct {
	state *model.StateManager

	maxIter     int
	tol         float64
	standardize bool
	logger      log.Logger

	coef      []float64 // intercept first
	fitted    []float64
	deviance  float64
	converged bool
}

var _ model.BinaryClassifier = (*Binomial)(nil)

// NewBinomial creates an unfitted Binomial model.
func NewBinomial(opts ...Option) *Binomial {
	b := &Binomial{
		state:   model.NewStateManager(),
		maxIter: defaultMaxIter,
		tol:     defaultTol,
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(log.ModelNameKey, "Binomial")
	return b
}

// Fit estimates the coefficients from X (n×p, no intercept column) and the
// 0/1 response y.
func (b *Binomial) Fit(X mat.Matrix, y []float64) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Binomial.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return errors.NewDimensionError("Binomial.Fit", r, len(y), 0)
	}
	for _, v := range y {
		if v != 0 && v != 1 {
			return errors.NewValueError("Binomial.Fit", "response must be 0 or 1")
		}
	}
	if b.maxIter < 1 {
		return errors.NewValidationError("maxIter", "must be at least 1", b.maxIter)
	}

	b.state.Reset()
	p := c + 1

	var scaler *preprocessing.StandardScaler
	if b.standardize {
		scaler = preprocessing.NewStandardScaler()
		Xs, err := scaler.FitTransform(X)
		if err != nil {
			return err
		}
		X = Xs
	}

	// X_with_intercept = [1, X]
	Xa := mat.NewDense(r, p, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			Xa.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				Xa.Set(i, j+1, X.At(i, j))
			}
		}
	})

	// mu の初期値は (y + 0.5) / 2
	mu := make([]float64, r)
	eta := mat.NewVecDense(r, nil)
	for i := range mu {
		mu[i] = (y[i] + 0.5) / 2
		eta.SetVec(i, math.Log(mu[i]/(1-mu[i])))
	}

	beta := mat.NewVecDense(p, nil)
	Xw := mat.NewDense(r, p, nil)
	zw := mat.NewVecDense(r, nil)
	dev := deviance(y, mu)

	iter := 0
	converged := false
	for iter < b.maxIter {
		iter++

		// 作業応答 z = eta + (y - mu) / w と重み w = mu (1 - mu)
		for i := 0; i < r; i++ {
			m := errors.ClipValue(mu[i], probEps, 1-probEps)
			w := m * (1 - m)
			sw := math.Sqrt(w)
			for j := 0; j < p; j++ {
				Xw.Set(i, j, sw*Xa.At(i, j))
			}
			zw.SetVec(i, sw*(eta.AtVec(i)+(y[i]-mu[i])/w))
		}

		// (X'WX) beta = X'Wz
		var xtwx mat.SymDense
		xtwx.SymOuterK(1, Xw.T())
		var xtwz mat.VecDense
		xtwz.MulVec(Xw.T(), zw)

		var chol mat.Cholesky
		if ok := chol.Factorize(&xtwx); !ok || chol.Cond() > maxCond {
			return errors.NewModelError("Binomial.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
		if err := chol.SolveVecTo(beta, &xtwz); err != nil {
			return errors.NewModelError("Binomial.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
		if err := errors.CheckNumericalStability("irls_update", beta.RawVector().Data, iter); err != nil {
			return err
		}

		eta.MulVec(Xa, beta)
		for i := range mu {
			mu[i] = sigmoid(eta.AtVec(i))
		}

		prev := dev
		dev = deviance(y, mu)
		b.logger.Debug("irls iteration", log.IterationKey, iter, log.DevianceKey, dev)

		if math.Abs(dev-prev)/(math.Abs(dev)+0.1) < b.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Binomial", iter,
			"fitted probabilities may be numerically 0 or 1"))
	}

	b.coef = make([]float64, p)
	copy(b.coef, beta.RawVector().Data)
	if scaler != nil {
		coef, err := scaler.BackTransform(b.coef)
		if err != nil {
			return err
		}
		b.coef = coef
	}
	b.fitted = mu
	b.deviance = dev
	b.converged = converged
	b.state.SetFitted(c, r, iter)
	return nil
}

// PredictProba returns P(y=1) for each row of X.
func (b *Binomial) PredictProba(X mat.Matrix) ([]float64, error) {
	if err := b.state.RequireFitted("Binomial", "PredictProba"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := b.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("Binomial.PredictProba", nFeatures, c, 1)
	}

	out := make([]float64, r)
	for i := 0; i < r; i++ {
		z := b.coef[0]
		for j := 0; j < c; j++ {
			z += X.At(i, j) * b.coef[j+1]
		}
		out[i] = sigmoid(z)
	}
	return out, nil
}

// Coefficients returns the intercept followed by the slopes.
func (b *Binomial) Coefficients() []float64 {
	out := make([]float64, len(b.coef))
	copy(out, b.coef)
	return out
}

// FittedProbabilities returns P(y=1) for the training rows in order.
func (b *Binomial) FittedProbabilities() []float64 {
	out := make([]float64, len(b.fitted))
	copy(out, b.fitted)
	return out
}

// Deviance returns the residual deviance of the last fit.
func (b *Binomial) Deviance() float64 { return b.deviance }

// Converged reports whether the last fit met the tolerance.
func (b *Binomial) Converged() bool { return b.converged }

// Iterations returns the number of IRLS iterations of the last fit.
func (b *Binomial) Iterations() int { return b.state.Iterations() }

// deviance は -2 Σ [y log(mu) + (1-y) log(1-mu)]
func deviance(y, mu []float64) float64 {
	var d float64
	for i := range y {
		if y[i] == 1 {
			d -= 2 * errors.StabilizeLog(mu[i])
		} else {
			d -= 2 * errors.StabilizeLog(1-mu[i])
		}
	}
	return d
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1.0 + e)
}
