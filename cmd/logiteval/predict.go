package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/logiteval/evaluation"
	"github.com/YuminosukeSato/logiteval/metrics"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Write per-row predicted probabilities and report Brier score and log loss",
		Long: `predict writes one CSV row per scored table row: the row index, the fold
that held it out (0 in-sample), the encoded 0/1 label and the predicted
probability. Under cross-validation every probability is out-of-fold.`,
		Example: `  logiteval predict --data admissions.csv --formula "admit ~ ." --mode cv --scores scores.csv`,
		Args:    cobra.NoArgs,
		RunE:    runPredict,
	}
	addInputFlags(cmd)
	addEvaluationFlags(cmd)
	cmd.Flags().String("scores", "", "CSV path for the scores; empty writes only the summary")
	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
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
	pooled, err := evaluation.Predictions(cmd.Context(), f, frame, opts...)
	if err != nil {
		return err
	}
	brier, err := metrics.Brier(pooled.Labels, pooled.Proba)
	if err != nil {
		return err
	}
	logLoss, err := metrics.LogLoss(pooled.Labels, pooled.Proba)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "formula:  %s\n", f)
	fmt.Fprintf(out, "mode:     %s\n", describeMode(cfg))
	fmt.Fprintf(out, "brier:    %g\n", brier)
	fmt.Fprintf(out, "log loss: %g\n", logLoss)
	if cfg.Scores == "" {
		return nil
	}
	if err := writeScores(cfg.Scores, pooled); err != nil {
		return err
	}
	fmt.Fprintf(out, "scores:   %s\n", cfg.Scores)
	return nil
}

func writeScores(path string, p *evaluation.Pooled) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"row", "fold", "label", "probability"}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i := range p.Rows {
		record := []string{
			strconv.Itoa(p.Rows[i]),
			strconv.Itoa(p.Fold[i]),
			strconv.FormatFloat(p.Labels[i], 'g', -1, 64),
			strconv.FormatFloat(p.Proba[i], 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "write row %d", p.Rows[i])
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush scores")
}
