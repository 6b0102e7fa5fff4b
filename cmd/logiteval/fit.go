package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/logiteval/glm"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fit",
		Short:   "Fit the model on the full table and print its coefficients",
		Example: `  logiteval fit --data admissions.csv --formula "admit ~ gre + rank" --weights model.json`,
		Args:    cobra.NoArgs,
		RunE:    runFit,
	}
	addInputFlags(cmd)
	d := DefaultConfig()
	cmd.Flags().Int("max-iter", d.MaxIter, "maximum IRLS iterations")
	cmd.Flags().Bool("standardize", d.Standardize, "fit on standardized predictors")
	cmd.Flags().String("weights", "", "write the fitted coefficients as JSON to this path")
	return cmd
}

func runFit(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	frame, f, err := loadInput(cfg)
	if err != nil {
		return err
	}
	opts := []glm.FitOption{
		glm.WithBinomialOptions(glm.WithMaxIter(cfg.MaxIter), glm.WithStandardize(cfg.Standardize)),
	}
	if cfg.Baseline != "" {
		opts = append(opts, glm.WithBaseline(cfg.Baseline))
	}
	fit, err := glm.FitFormula(frame, f, opts...)
	if err != nil {
		return err
	}
	w := fit.Weights()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "formula:   %s\n", w.Formula)
	fmt.Fprintf(out, "response:  %s=0 %s=1\n", w.Levels[0], w.Levels[1])
	fmt.Fprintf(out, "deviance:  %g\n", w.Deviance)
	fmt.Fprintf(out, "converged: %t (%d iterations)\n", w.Converged, w.Iterations)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "(Intercept)\t%.6g\n", w.Intercept)
	for i, name := range w.Features {
		fmt.Fprintf(tw, "%s\t%.6g\n", name, w.Coefficients[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if cfg.Weights == "" {
		return nil
	}
	data, err := w.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Weights, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", cfg.Weights)
	}
	return nil
}
