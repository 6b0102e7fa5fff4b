package plots

import (
	"image/color"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/formula"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/preprocessing"
)

// MonotonicityResult describes the smoothed relationship between one
// numeric predictor and the 0/1 response.
type MonotonicityResult struct {
	Column     string
	Increasing bool
	Decreasing bool

	Bandwidth float64
	Grid      []float64
	Smooth    []float64

	x, y []float64
}

// Monotonic reports whether the smoothed curve never changes direction.
func (r MonotonicityResult) Monotonic() bool { return r.Increasing || r.Decreasing }

// Shape is "flat", "increasing", "decreasing" or "non-monotone".
func (r MonotonicityResult) Shape() string {
	switch {
	case r.Increasing && r.Decreasing:
		return "flat"
	case r.Increasing:
		return "increasing"
	case r.Decreasing:
		return "decreasing"
	default:
		return "non-monotone"
	}
}

// Monotonicity smooths the response against every numeric predictor of f
// with a Gaussian Nadaraya-Watson kernel, bandwidth by Silverman's rule, and
// reports whether each curve is monotone.
func Monotonicity(frame *dataset.Frame, f formula.Formula, opts ...Option) ([]MonotonicityResult, error) {
	cfg := newConfig(opts)
	if cfg.gridPoints < 2 {
		return nil, errors.NewValidationError("gridPoints", "must be at least 2", cfg.gridPoints)
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

	var results []MonotonicityResult
	for _, name := range predictors {
		c, _ := frame.Column(name)
		num, ok := c.(*dataset.Numeric)
		if !ok {
			continue
		}
		res, err := monotonicity(name, num.Values, resp.Values, cfg.gridPoints)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, errors.NewValidationError("formula", "no numeric predictors", f.String())
	}
	return results, nil
}

func monotonicity(name string, x, y []float64, gridPoints int) (MonotonicityResult, error) {
	h, err := silverman(x)
	if err != nil {
		return MonotonicityResult{}, errors.Wrapf(err, "column %s", name)
	}
	grid := floats.Span(make([]float64, gridPoints), floats.Min(x), floats.Max(x))
	smooth := nadarayaWatson(x, y, grid, h)

	res := MonotonicityResult{
		Column:     name,
		Increasing: true,
		Decreasing: true,
		Bandwidth:  h,
		Grid:       grid,
		Smooth:     smooth,
		x:          x,
		y:          y,
	}
	const eps = 1e-12
	for i := 1; i < len(smooth); i++ {
		d := smooth[i] - smooth[i-1]
		if d < -eps {
			res.Increasing = false
		}
		if d > eps {
			res.Decreasing = false
		}
	}
	return res, nil
}

// silverman は 0.9 min(sd, IQR/1.34) n^(-1/5)
func silverman(x []float64) (float64, error) {
	sd := stat.StdDev(x, nil)
	if len(x) < 2 || sd == 0 || math.IsNaN(sd) {
		return 0, errors.NewValidationError("predictor", "needs at least two distinct values", len(x))
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)

	spread := sd
	if iqr > 0 && iqr/1.34 < sd {
		spread = iqr / 1.34
	}
	return 0.9 * spread * math.Pow(float64(len(x)), -0.2), nil
}

// nadarayaWatson evaluates the kernel-weighted mean of y at each grid point.
// Where every weight underflows the nearest observation is used.
func nadarayaWatson(x, y, grid []float64, h float64) []float64 {
	out := make([]float64, len(grid))
	for g, at := range grid {
		var sw, swy float64
		nearest, best := 0, math.Inf(1)
		for i, xi := range x {
			u := (xi - at) / h
			w := math.Exp(-0.5 * u * u)
			sw += w
			swy += w * y[i]
			if d := math.Abs(xi - at); d < best {
				nearest, best = i, d
			}
		}
		if sw == 0 {
			out[g] = y[nearest]
			continue
		}
		out[g] = swy / sw
	}
	return out
}

// MonotonicityPlot draws the observations and the smoothed curve of r.
func MonotonicityPlot(r MonotonicityResult, opts ...Option) (*plot.Plot, error) {
	cfg := newConfig(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	if p.Title.Text == "" {
		p.Title.Text = r.Column + " (" + r.Shape() + ")"
	}
	p.X.Label.Text = r.Column
	p.Y.Label.Text = "P(response = 1)"
	p.Y.Min, p.Y.Max = -0.05, 1.05

	pts := make(plotter.XYs, len(r.x))
	for i := range r.x {
		pts[i].X = r.x[i]
		pts[i].Y = r.y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "observations")
	}
	scatter.Color = color.RGBA{R: 50, G: 50, B: 255, A: 120}
	scatter.Shape = draw.CircleGlyph{}
	scatter.Radius = vg.Points(2)
	p.Add(scatter)

	curvePts := make(plotter.XYs, len(r.Grid))
	for i := range r.Grid {
		curvePts[i].X = r.Grid[i]
		curvePts[i].Y = r.Smooth[i]
	}
	curve, err := plotter.NewLine(curvePts)
	if err != nil {
		return nil, errors.Wrap(err, "smoothed curve")
	}
	curve.Color = color.RGBA{R: 255, A: 255}
	curve.LineStyle.Width = vg.Points(2)
	p.Add(curve)

	return p, nil
}

// SaveMonotonicity computes Monotonicity and writes one image per numeric
// predictor into dir as monotone_<column>.<ext>. It returns the results and
// the written paths in the same order.
func SaveMonotonicity(frame *dataset.Frame, f formula.Formula, dir, ext string, opts ...Option) ([]MonotonicityResult, []string, error) {
	results, err := Monotonicity(frame, f, opts...)
	if err != nil {
		return nil, nil, err
	}
	if ext == "" {
		ext = "png"
	}
	cfg := newConfig(opts)

	paths := make([]string, 0, len(results))
	for _, r := range results {
		p, err := MonotonicityPlot(r, opts...)
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, "monotone_"+fileSafe(r.Column)+"."+strings.TrimPrefix(ext, "."))
		if err := p.Save(cfg.width, cfg.height, path); err != nil {
			return nil, nil, errors.Wrapf(err, "save monotonicity plot %s", path)
		}
		paths = append(paths, path)
	}
	return results, paths, nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
