package glm

import (
	"github.com/YuminosukeSato/logiteval/pkg/log"
)

// Option configures a Binomial fitter.
type Option func(*Binomial)

// WithMaxIter sets the maximum number of IRLS iterations.
func WithMaxIter(maxIter int) Option {
	return func(b *Binomial) {
		b.maxIter = maxIter
	}
}

// WithTol sets the relative deviance change at which IRLS stops.
func WithTol(tol float64) Option {
	return func(b *Binomial) {
		b.tol = tol
	}
}

// WithStandardize fits on standardized design columns and reports the
// coefficients on the original scale. Fitted probabilities are unchanged.
func WithStandardize(on bool) Option {
	return func(b *Binomial) {
		b.standardize = on
	}
}

// WithLogger sets the logger used for iteration traces.
func WithLogger(l log.Logger) Option {
	return func(b *Binomial) {
		b.logger = l
	}
}

// FitOption configures FitFormula.
type FitOption func(*fitConfig)

type fitConfig struct {
	baseline *string
	opts     []Option
}

// WithBaseline sets the response label encoded as 0.
func WithBaseline(label string) FitOption {
	return func(c *fitConfig) {
		c.baseline = &label
	}
}

// WithBinomialOptions passes options through to the Binomial fitter.
func WithBinomialOptions(opts ...Option) FitOption {
	return func(c *fitConfig) {
		c.opts = append(c.opts, opts...)
	}
}
