package main

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/formula"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/pkg/log"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logiteval",
		Short: "Evaluate binary logistic regression models on CSV data",
		Long: `logiteval fits binomial GLMs from a formula such as "y ~ x + group"
and reports classification metrics, ROC curves and monotonicity diagnostics,
either in-sample or by k-fold cross-validation.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with default settings")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().String("log-format", "json", "json (slog) or console (zerolog)")

	root.AddCommand(newFitCmd(), newEvaluateCmd(), newRocCmd(), newPredictCmd(), newMonotoneCmd())
	return root
}

// addInputFlags registers the flags every subcommand shares.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "CSV file with a header row")
	cmd.Flags().String("formula", "", `model formula, e.g. "y ~ ."`)
	cmd.Flags().String("baseline", "", "response label encoded as 0")
}

func addEvaluationFlags(cmd *cobra.Command) {
	d := DefaultConfig()
	cmd.Flags().String("mode", d.Mode, "in-sample or cv")
	cmd.Flags().Int("folds", d.Folds, "number of cross-validation folds")
	cmd.Flags().Uint64("seed", d.Seed, "fold assignment seed")
	cmd.Flags().Int("workers", d.Workers, "folds fitted concurrently")
	cmd.Flags().Int("max-iter", d.MaxIter, "maximum IRLS iterations per fit")
	cmd.Flags().Bool("standardize", d.Standardize, "fit on standardized predictors")
}

// resolveConfig loads the YAML file, applies explicit flags and installs the
// logger the subcommand will use.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}
	if err := setupLogging(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLogging(w io.Writer, level, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		return log.SetupLoggerTo(w, level)
	case "console":
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return err
		}
		zl := log.NewZerologLogger(zerolog.ConsoleWriter{Out: w, NoColor: true}, lvl)
		zl.InstallWarnings()
		log.SetLogger(zl)
		return nil
	default:
		return errors.NewValidationError("log-format", "expected json or console", format)
	}
}

// loadInput reads the CSV table and parses the formula named by cfg.
func loadInput(cfg Config) (*dataset.Frame, formula.Formula, error) {
	if err := cfg.requireInput(); err != nil {
		return nil, formula.Formula{}, err
	}
	f, err := formula.Parse(cfg.Formula)
	if err != nil {
		return nil, formula.Formula{}, err
	}
	frame, err := dataset.ReadCSVFile(cfg.Data)
	if err != nil {
		return nil, formula.Formula{}, err
	}
	log.GetLogger().Debug("input loaded",
		log.SamplesKey, frame.NRows(),
		log.FormulaKey, f.String(),
	)
	return frame, f, nil
}
