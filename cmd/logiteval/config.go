package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/logiteval/evaluation"
	"github.com/YuminosukeSato/logiteval/glm"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// Config holds every setting a subcommand may read. Values come from
// DefaultConfig, then the YAML file named by --config, then explicit flags.
type Config struct {
	Data        string  `yaml:"data"`
	Formula     string  `yaml:"formula"`
	Mode        string  `yaml:"mode"`
	Folds       int     `yaml:"folds"`
	Cutoff      float64 `yaml:"cutoff"`
	Baseline    string  `yaml:"baseline"`
	Seed        uint64  `yaml:"seed"`
	Workers     int     `yaml:"workers"`
	MaxIter     int     `yaml:"max_iter"`
	Standardize bool    `yaml:"standardize"`
	Out         string  `yaml:"out"`
	OutDir      string  `yaml:"out_dir"`
	Scores      string  `yaml:"scores"`
	Weights     string  `yaml:"weights"`
	Format      string  `yaml:"format"`
	LogLevel    string  `yaml:"log_level"`
	LogFormat   string  `yaml:"log_format"`
}

// DefaultConfig returns the settings used when neither YAML nor flags set a value.
func DefaultConfig() Config {
	return Config{
		Mode:      "in-sample",
		Folds:     10,
		Cutoff:    0.5,
		Seed:      evaluation.DefaultSeed,
		Workers:   1,
		MaxIter:   25,
		Out:       "roc.png",
		OutDir:    ".",
		Format:    "png",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// applyFlags copies every flag the user set on cmd into cfg. Flags left at
// their default do not override YAML values.
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	fs := cmd.Flags()
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	str("data", &cfg.Data)
	str("formula", &cfg.Formula)
	str("mode", &cfg.Mode)
	str("baseline", &cfg.Baseline)
	str("out", &cfg.Out)
	str("out-dir", &cfg.OutDir)
	str("scores", &cfg.Scores)
	str("weights", &cfg.Weights)
	str("format", &cfg.Format)
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	if err == nil && fs.Changed("folds") {
		cfg.Folds, err = fs.GetInt("folds")
	}
	if err == nil && fs.Changed("workers") {
		cfg.Workers, err = fs.GetInt("workers")
	}
	if err == nil && fs.Changed("max-iter") {
		cfg.MaxIter, err = fs.GetInt("max-iter")
	}
	if err == nil && fs.Changed("standardize") {
		cfg.Standardize, err = fs.GetBool("standardize")
	}
	if err == nil && fs.Changed("cutoff") {
		cfg.Cutoff, err = fs.GetFloat64("cutoff")
	}
	if err == nil && fs.Changed("seed") {
		cfg.Seed, err = fs.GetUint64("seed")
	}
	return err
}

func (c Config) requireInput() error {
	if c.Data == "" {
		return errors.NewValidationError("data", "a CSV file is required", c.Data)
	}
	if c.Formula == "" {
		return errors.NewValidationError("formula", "a formula such as \"y ~ .\" is required", c.Formula)
	}
	return nil
}

func (c Config) evaluationOptions() ([]evaluation.Option, error) {
	mode, err := evaluation.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	opts := []evaluation.Option{
		evaluation.WithMode(mode),
		evaluation.WithFolds(c.Folds),
		evaluation.WithCutoff(c.Cutoff),
		evaluation.WithSeed(c.Seed),
		evaluation.WithWorkers(c.Workers),
		evaluation.WithFitOptions(glm.WithMaxIter(c.MaxIter), glm.WithStandardize(c.Standardize)),
	}
	if c.Baseline != "" {
		opts = append(opts, evaluation.WithBaseline(c.Baseline))
	}
	return opts, nil
}
