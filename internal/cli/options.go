// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"ca2ta/internal/config"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Prefix      string
	ConfigFile  string
	WriteConfig string // save the effective config here and exit

	// Output
	Output    string // "" = prefix+suffix, "-" = stdout
	LineWidth int    // 0 = keep config value

	// Logging / metrics
	Verbose     bool
	Quiet       bool
	LogFormat   string
	MetricsFile string
}

// Register adds every flag to fs, bound to o.
func Register(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "YAML config file (missing file = defaults)")
	fs.StringVar(&o.WriteConfig, "write-config", "", "write the effective config as YAML and exit")
	fs.StringVarP(&o.Output, "output", "o", "", "report path ('-' = stdout) [PREFIX.contig]")
	fs.IntVarP(&o.LineWidth, "line-width", "w", 0, "bases per sequence line [60]")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "debug logging")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "errors only")
	fs.StringVar(&o.LogFormat, "log-format", "", "log format: console|json")
	fs.StringVar(&o.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
}

// Validate checks combinations pflag cannot express.
func (o Options) Validate() error {
	if o.Verbose && o.Quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}
	if o.LineWidth < 0 {
		return fmt.Errorf("--line-width must be > 0, got %d", o.LineWidth)
	}
	return nil
}

// Apply overrides cfg with every flag that was set.
func (o Options) Apply(cfg *config.Config) {
	if o.Output != "" {
		cfg.Output.Path = o.Output
	}
	if o.LineWidth > 0 {
		cfg.Output.LineWidth = o.LineWidth
	}
	switch {
	case o.Verbose:
		cfg.Logging.Level = "debug"
	case o.Quiet:
		cfg.Logging.Level = "error"
	}
	if o.LogFormat != "" {
		cfg.Logging.Format = o.LogFormat
	}
	if o.MetricsFile != "" {
		cfg.Metrics.File = o.MetricsFile
	}
}
