package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/logiteval/evaluation"
	"github.com/YuminosukeSato/logiteval/plots"
)

func newRocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roc",
		Short:   "Compute the ROC curve and AUC and save the curve as an image",
		Example: `  logiteval roc --data admissions.csv --formula "admit ~ gre + gpa" --mode cv --out roc.png`,
		Args:    cobra.NoArgs,
		RunE:    runRoc,
	}
	addInputFlags(cmd)
	addEvaluationFlags(cmd)
	cmd.Flags().String("out", DefaultConfig().Out, `image path; the extension picks the format, "" skips the plot`)
	return cmd
}

func runRoc(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	frame, f, err := loadInput(cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.evaluationOptions()
	if err != nil {
		return err
	}
	roc, err := evaluation.RocAuc(cmd.Context(), f, frame, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "formula: %s\n", f)
	fmt.Fprintf(out, "mode:    %s\n", describeMode(cfg))
	fmt.Fprintf(out, "auc:     %g\n", roc.AUC)
	if cfg.Out == "" {
		return nil
	}
	title := fmt.Sprintf("ROC %s (%s)", f, describeMode(cfg))
	if err := plots.SaveROC(roc, cfg.Out, plots.WithTitle(title)); err != nil {
		return err
	}
	fmt.Fprintf(out, "plot:    %s\n", cfg.Out)
	return nil
}
