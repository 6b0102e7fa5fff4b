package plots

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/logiteval/metrics"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// ROCPlot draws the curve of roc against the chance diagonal.
func ROCPlot(roc *metrics.ROC, opts ...Option) (*plot.Plot, error) {
	if roc == nil || len(roc.FPR) == 0 || len(roc.FPR) != len(roc.TPR) {
		return nil, errors.NewValueError("ROCPlot", "empty or malformed ROC curve")
	}
	cfg := newConfig(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("ROC curve (AUC = %.4f)", roc.AUC)
	}
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	diagonal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, errors.Wrap(err, "diagonal")
	}
	diagonal.Color = color.Gray{Y: 128}
	diagonal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diagonal)

	pts := make(plotter.XYs, len(roc.FPR))
	for i := range roc.FPR {
		pts[i].X = roc.FPR[i]
		pts[i].Y = roc.TPR[i]
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "roc curve")
	}
	curve.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	curve.LineStyle.Width = vg.Points(2)
	p.Add(curve)
	p.Legend.Add("model", curve)
	p.Legend.Add("chance", diagonal)
	p.Legend.Left = false
	p.Legend.Top = false

	return p, nil
}

// SaveROC renders roc to path.
func SaveROC(roc *metrics.ROC, path string, opts ...Option) error {
	p, err := ROCPlot(roc, opts...)
	if err != nil {
		return err
	}
	cfg := newConfig(opts)
	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return errors.Wrapf(err, "save roc plot %s", path)
	}
	return nil
}
