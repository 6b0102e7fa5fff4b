package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/logiteval/evaluation"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report accuracy, precision, recall and F1 at a cutoff",
		Example: `  logiteval evaluate --data admissions.csv --formula "admit ~ ." --mode cv --folds 10
  logiteval evaluate --config eval.yaml --cutoff 0.4`,
		Args: cobra.NoArgs,
		RunE: runEvaluate,
	}
	addInputFlags(cmd)
	addEvaluationFlags(cmd)
	cmd.Flags().Float64("cutoff", DefaultConfig().Cutoff, "probability at or above which a row is predicted positive")
	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
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
	res, err := evaluation.Evaluate(cmd.Context(), f, frame, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "formula:   %s\n", f)
	fmt.Fprintf(out, "mode:      %s\n", describeMode(cfg))
	fmt.Fprintf(out, "cutoff:    %g\n", cfg.Cutoff)
	fmt.Fprintf(out, "accuracy:  %s\n", res.Accuracy)
	fmt.Fprintf(out, "precision: %s\n", res.Precision)
	fmt.Fprintf(out, "recall:    %s\n", res.Recall)
	fmt.Fprintf(out, "f1:        %s\n", res.F1)
	return nil
}

// describeMode is only called after evaluationOptions accepted cfg.Mode.
func describeMode(cfg Config) string {
	mode, _ := evaluation.ParseMode(cfg.Mode)
	if mode == evaluation.CrossValidated {
		return fmt.Sprintf("%s (%d folds, seed %d)", mode, cfg.Folds, cfg.Seed)
	}
	return mode.String()
}
