package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Baseline is the fixed-size chunker configuration left out of comparison charts.
const Baseline = "Fixed size chunking, chunk size: 4096"

// Global configuration structure.
type Global struct {
	// Grouped bar charts
	MeasurementsPath string   `mapstructure:"measurements_path" yaml:"measurements_path"`
	OutputDir        string   `mapstructure:"output_dir" yaml:"output_dir"`
	FirstMetric      string   `mapstructure:"first_metric" yaml:"first_metric"`
	ExcludeChunkers  []string `mapstructure:"exclude_chunkers" yaml:"exclude_chunkers"`
	ChartWidthIn     float64  `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn    float64  `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	// Size distribution
	DistributionPath      string  `mapstructure:"distribution_path" yaml:"distribution_path"`
	DistributionBarWidth  float64 `mapstructure:"distribution_bar_width" yaml:"distribution_bar_width"`
	DistributionMajorStep float64 `mapstructure:"distribution_major_step" yaml:"distribution_major_step"`
	DistributionMinorStep float64 `mapstructure:"distribution_minor_step" yaml:"distribution_minor_step"`
	DistributionMaxSize   float64 `mapstructure:"distribution_max_size" yaml:"distribution_max_size"`
	DistributionWidthIn   float64 `mapstructure:"distribution_width_in" yaml:"distribution_width_in"`
	DistributionHeightIn  float64 `mapstructure:"distribution_height_in" yaml:"distribution_height_in"`
	// Viewer is the command used to show the distribution chart; empty picks the platform default.
	Viewer string `mapstructure:"viewer" yaml:"viewer"`

	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// Defaults returns the settings used when no config file or env override exists.
func Defaults() *Global {
	return &Global{
		MeasurementsPath:      "../measurements.csv",
		OutputDir:             ".",
		FirstMetric:           "dedup_ratio",
		ExcludeChunkers:       []string{Baseline},
		ChartWidthIn:          12,
		ChartHeightIn:         6,
		DistributionPath:      "../distribution-kernel-1000.json",
		DistributionBarWidth:  1000,
		DistributionMajorStep: 7500,
		DistributionMinorStep: 1000,
		DistributionMaxSize:   0,
		DistributionWidthIn:   6.4,
		DistributionHeightIn:  4.8,
	}
}

// DefaultPath returns ~/.chunkplot/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".chunkplot", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.chunkplot/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CHUNKPLOT")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("measurements_path", d.MeasurementsPath)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("first_metric", d.FirstMetric)
	v.SetDefault("exclude_chunkers", d.ExcludeChunkers)
	v.SetDefault("chart_width_in", d.ChartWidthIn)
	v.SetDefault("chart_height_in", d.ChartHeightIn)
	v.SetDefault("distribution_path", d.DistributionPath)
	v.SetDefault("distribution_bar_width", d.DistributionBarWidth)
	v.SetDefault("distribution_major_step", d.DistributionMajorStep)
	v.SetDefault("distribution_minor_step", d.DistributionMinorStep)
	v.SetDefault("distribution_max_size", d.DistributionMaxSize)
	v.SetDefault("distribution_width_in", d.DistributionWidthIn)
	v.SetDefault("distribution_height_in", d.DistributionHeightIn)
	v.SetDefault("viewer", "")
	v.SetDefault("log_file", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".chunkplot"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config that cannot be read is an error; a missing default file is not
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no chart can be drawn with.
func (c *Global) Validate() error {
	if c.FirstMetric == "" {
		return fmt.Errorf("first_metric must not be empty")
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g in", c.ChartWidthIn, c.ChartHeightIn)
	}
	if c.DistributionWidthIn <= 0 || c.DistributionHeightIn <= 0 {
		return fmt.Errorf("distribution size must be positive, got %gx%g in", c.DistributionWidthIn, c.DistributionHeightIn)
	}
	if c.DistributionBarWidth <= 0 {
		return fmt.Errorf("distribution_bar_width must be positive, got %g", c.DistributionBarWidth)
	}
	if c.DistributionMajorStep <= 0 || c.DistributionMinorStep <= 0 {
		return fmt.Errorf("distribution tick steps must be positive, got major=%g minor=%g", c.DistributionMajorStep, c.DistributionMinorStep)
	}
	if c.DistributionMaxSize < 0 {
		return fmt.Errorf("distribution_max_size must not be negative, got %g", c.DistributionMaxSize)
	}
	return nil
}
