package evaluation

import (
	"strings"

	"github.com/YuminosukeSato/logiteval/core/model"
	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/formula"
	"github.com/YuminosukeSato/logiteval/glm"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/pkg/log"
)

// Mode selects where a model is scored.
type Mode int

const (
	// InSample fits and scores on the full table.
	InSample Mode = iota
	// CrossValidated scores each fold with a model fitted on the other folds.
	CrossValidated
)

func (m Mode) String() string {
	switch m {
	case InSample:
		return log.ModeInSample
	case CrossValidated:
		return log.ModeCrossValidated
	default:
		return "unknown"
	}
}

// ParseMode accepts "in-sample", "insample", "cross-validated", "cv" and
// "kfold", in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in-sample", "insample", "in_sample":
		return InSample, nil
	case "cross-validated", "cv", "kfold", "cross_validated":
		return CrossValidated, nil
	}
	return InSample, errors.NewValidationError("mode", "expected in-sample or cross-validated", s)
}

// Fitter fits a model on a table. FitFormula is the default.
type Fitter func(frame *dataset.Frame, f formula.Formula, opts ...glm.FitOption) (model.TableModel, error)

func fitFormula(frame *dataset.Frame, f formula.Formula, opts ...glm.FitOption) (model.TableModel, error) {
	fit, err := glm.FitFormula(frame, f, opts...)
	if err != nil {
		return nil, err
	}
	return fit, nil
}

const (
	defaultFolds  = 10
	defaultCutoff = 0.5
)

type config struct {
	mode     Mode
	folds    int
	cutoff   float64
	baseline *string
	seed     uint64
	workers  int
	logger   log.Logger
	fitOpts  []glm.Option
	fitter   Fitter
}

func newConfig(opts []Option) *config {
	cfg := &config{
		mode:    InSample,
		folds:   defaultFolds,
		cutoff:  defaultCutoff,
		seed:    DefaultSeed,
		workers: 1,
		logger:  log.GetLogger(),
		fitter:  fitFormula,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures Evaluate and RocAuc.
type Option func(*config)

// WithMode sets the evaluation mode. The default is InSample.
func WithMode(m Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithFolds sets the number of cross-validation folds (default 10).
func WithFolds(k int) Option {
	return func(c *config) {
		c.folds = k
	}
}

// WithCutoff sets the probability at or above which a row is classified
// positive (default 0.5).
func WithCutoff(cutoff float64) Option {
	return func(c *config) {
		c.cutoff = cutoff
	}
}

// WithBaseline sets the response label encoded as 0.
func WithBaseline(label string) Option {
	return func(c *config) {
		c.baseline = &label
	}
}

// WithSeed sets the fold assignment seed (default DefaultSeed).
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithWorkers fits up to n folds concurrently. Results do not depend on n.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLogger sets the logger for fold progress and results.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithFitOptions passes options to every Binomial fit.
func WithFitOptions(opts ...glm.Option) Option {
	return func(c *config) {
		c.fitOpts = append(c.fitOpts, opts...)
	}
}

// WithFitter replaces the model fitter.
func WithFitter(f Fitter) Option {
	return func(c *config) {
		c.fitter = f
	}
}

func (c *config) fitOptions() []glm.FitOption {
	var opts []glm.FitOption
	if c.baseline != nil {
		opts = append(opts, glm.WithBaseline(*c.baseline))
	}
	if len(c.fitOpts) > 0 {
		opts = append(opts, glm.WithBinomialOptions(c.fitOpts...))
	}
	return opts
}
