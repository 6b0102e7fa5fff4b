package glm

import (
	"github.com/YuminosukeSato/logiteval/core/model"
	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/formula"
	"github.com/YuminosukeSato/logiteval/pkg/log"
	"github.com/YuminosukeSato/logiteval/preprocessing"
)

// Fit is a Binomial model fitted on a table through a formula. It is not
// modified after FitFormula returns.
type Fit struct {
	Formula    formula.Formula
	Predictors []string
	Response   preprocessing.Response

	encoder *preprocessing.TreatmentEncoder
	model   *Binomial
}

var _ model.TableModel = (*Fit)(nil)

// FitFormula fits a logistic regression of f.Response on the predictors of
// f. The response is normalized to 0/1 with the optional baseline; text
// predictors become unordered factors.
func FitFormula(frame *dataset.Frame, f formula.Formula, opts ...FitOption) (*Fit, error) {
	cfg := &fitConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	predictors, err := f.Resolve(frame)
	if err != nil {
		return nil, err
	}
	col, _ := frame.Column(f.Response)
	resp, err := preprocessing.NormalizeResponse(col, cfg.baseline)
	if err != nil {
		return nil, err
	}

	enc := preprocessing.NewTreatmentEncoder()
	X, err := enc.FitTransform(frame, predictors)
	if err != nil {
		return nil, err
	}

	m := NewBinomial(cfg.opts...)
	logger := m.logger.With(log.OperationKey, log.OperationFit, log.FormulaKey, f.String())
	if err := m.Fit(X, resp.Values); err != nil {
		return nil, err
	}
	_, features := X.Dims()
	logger.Debug("model fitted",
		log.SamplesKey, frame.NRows(),
		log.FeaturesKey, features,
		log.IterationKey, m.Iterations(),
		log.DevianceKey, m.Deviance(),
	)

	return &Fit{
		Formula:    f,
		Predictors: predictors,
		Response:   resp,
		encoder:    enc,
		model:      m,
	}, nil
}

// FittedProbabilities returns P(y=1) for the training rows in original order.
func (f *Fit) FittedProbabilities() []float64 { return f.model.FittedProbabilities() }

// PredictTable encodes frame the same way as the training table and returns
// P(y=1) for each row. Factor levels absent at fit time are an error.
func (f *Fit) PredictTable(frame *dataset.Frame) ([]float64, error) {
	X, err := f.encoder.Transform(frame)
	if err != nil {
		return nil, err
	}
	return f.model.PredictProba(X)
}

// Coefficients maps each design column, "(Intercept)" first, to its estimate.
func (f *Fit) Coefficients() map[string]float64 {
	coef := f.model.Coefficients()
	out := make(map[string]float64, len(coef))
	out["(Intercept)"] = coef[0]
	for i, name := range f.encoder.FeatureNames() {
		out[name] = coef[i+1]
	}
	return out
}

// FeatureNames returns the design column names without the intercept.
func (f *Fit) FeatureNames() []string { return f.encoder.FeatureNames() }

// NumericPredictors returns the predictors fitted as numeric columns.
func (f *Fit) NumericPredictors() []string { return f.encoder.NumericTerms() }

// Deviance returns the residual deviance.
func (f *Fit) Deviance() float64 { return f.model.Deviance() }

// Converged reports whether IRLS met its tolerance.
func (f *Fit) Converged() bool { return f.model.Converged() }

// Weights exports the fitted coefficients for serialization.
func (f *Fit) Weights() *model.ModelWeights {
	coef := f.model.Coefficients()
	return &model.ModelWeights{
		ModelType:    "Binomial",
		Version:      model.WeightsVersion,
		Formula:      f.Formula.String(),
		Levels:       f.Response.Levels,
		Intercept:    coef[0],
		Features:     f.encoder.FeatureNames(),
		Coefficients: coef[1:],
		Deviance:     f.model.Deviance(),
		Converged:    f.model.Converged(),
		Iterations:   f.model.Iterations(),
	}
}
