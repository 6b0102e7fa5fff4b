package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/plots"
)

func newMonotoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "monotone",
		Short:   "Plot a kernel-smoothed response against each numeric predictor",
		Example: `  logiteval monotone --data admissions.csv --formula "admit ~ ." --out-dir plots/`,
		Args:    cobra.NoArgs,
		RunE:    runMonotone,
	}
	addInputFlags(cmd)
	d := DefaultConfig()
	cmd.Flags().String("out-dir", d.OutDir, "directory for monotone_<column> images")
	cmd.Flags().String("format", d.Format, "image format: png, svg, pdf, ...")
	return cmd
}

func runMonotone(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	frame, f, err := loadInput(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", cfg.OutDir)
	}
	var opts []plots.Option
	if cfg.Baseline != "" {
		opts = append(opts, plots.WithBaseline(cfg.Baseline))
	}
	results, paths, err := plots.SaveMonotonicity(frame, f, cfg.OutDir, cfg.Format, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, r := range results {
		fmt.Fprintf(out, "%s\t%s\tbandwidth=%.4g\t%s\n", r.Column, r.Shape(), r.Bandwidth, paths[i])
	}
	return nil
}
