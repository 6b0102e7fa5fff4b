// Package plots renders ROC curves and monotonicity diagnostics with
// gonum/plot. The file format follows the output path's extension (.png,
// .svg, .pdf, ...).
package plots

import (
	"gonum.org/v1/plot/vg"
)

const defaultGridPoints = 100

type config struct {
	width, height vg.Length
	title         string
	baseline      *string
	gridPoints    int
}

func newConfig(opts []Option) *config {
	cfg := &config{
		width:      6 * vg.Inch,
		height:     4 * vg.Inch,
		gridPoints: defaultGridPoints,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures plot rendering.
type Option func(*config)

// WithSize sets the image size.
func WithSize(width, height vg.Length) Option {
	return func(c *config) {
		c.width, c.height = width, height
	}
}

// WithTitle overrides the plot title.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithBaseline sets the response label encoded as 0 in monotonicity plots.
func WithBaseline(label string) Option {
	return func(c *config) {
		c.baseline = &label
	}
}

// WithGridPoints sets how many points the smoothed curve is evaluated at.
func WithGridPoints(n int) Option {
	return func(c *config) {
		c.gridPoints = n
	}
}
