// Package config holds the converter settings, loaded from an optional YAML
// file and overridden by CA2TA_* environment variables and CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all ca2ta configuration.
type Config struct {
	Inputs  InputConfig   `yaml:"inputs"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// InputConfig names the three inputs relative to the shared prefix.
type InputConfig struct {
	ClearSuffix    string `yaml:"clear_suffix"`
	FragmentSuffix string `yaml:"fragment_suffix"`
	AssemblySuffix string `yaml:"assembly_suffix"`
}

// OutputConfig configures the contig report.
type OutputConfig struct {
	Suffix    string `yaml:"suffix"`
	Path      string `yaml:"path"` // overrides prefix+suffix; "-" is stdout
	LineWidth int    `yaml:"line_width"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level               string `yaml:"level"`  // debug, info, warn, error
	Format              string `yaml:"format"` // console, json
	ProgressEvery       int    `yaml:"progress_every"`        // clear-range lines, FRG records
	ContigProgressEvery int    `yaml:"contig_progress_every"` // CCO records
}

// MetricsConfig configures the optional textfile dump.
type MetricsConfig struct {
	File string `yaml:"file"`
}

var (
	ValidLevels  = []string{"debug", "info", "warn", "error"}
	ValidFormats = []string{"console", "json"}
)

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Inputs: InputConfig{
			ClearSuffix:    ".clr",
			FragmentSuffix: ".frg",
			AssemblySuffix: ".asm",
		},
		Output: OutputConfig{
			Suffix:    ".contig",
			LineWidth: 60,
		},
		Logging: LoggingConfig{
			Level:               "info",
			Format:              "console",
			ProgressEvery:       100000,
			ContigProgressEvery: 10000,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CA2TA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CA2TA_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("CA2TA_OUTPUT_SUFFIX"); v != "" {
		c.Output.Suffix = v
	}
	if v := os.Getenv("CA2TA_LINE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Output.LineWidth = n
		}
	}
	if v := os.Getenv("CA2TA_METRICS_FILE"); v != "" {
		c.Metrics.File = v
	}
}

// Paths resolves the three inputs and the report path for prefix.
func (c *Config) Paths(prefix string) (clear, frag, asm, out string) {
	out = c.Output.Path
	if out == "" {
		out = prefix + c.Output.Suffix
	}
	return prefix + c.Inputs.ClearSuffix, prefix + c.Inputs.FragmentSuffix, prefix + c.Inputs.AssemblySuffix, out
}

// Validate checks the settings after all overrides were applied.
func (c *Config) Validate() error {
	if c.Inputs.ClearSuffix == "" || c.Inputs.FragmentSuffix == "" || c.Inputs.AssemblySuffix == "" {
		return fmt.Errorf("input suffixes must not be empty")
	}
	if c.Output.Suffix == "" && c.Output.Path == "" {
		return fmt.Errorf("output suffix must not be empty")
	}
	if c.Output.LineWidth <= 0 {
		return fmt.Errorf("line width must be > 0, got %d", c.Output.LineWidth)
	}
	if c.Logging.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be >= 0, got %d", c.Logging.ProgressEvery)
	}
	if c.Logging.ContigProgressEvery < 0 {
		return fmt.Errorf("contig_progress_every must be >= 0, got %d", c.Logging.ContigProgressEvery)
	}
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
