// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ca2ta/internal/cli"
	"ca2ta/internal/config"
	"ca2ta/internal/diag"
	"ca2ta/internal/logging"
	"ca2ta/internal/metrics"
	"ca2ta/internal/pipeline"
	"ca2ta/internal/version"
	"ca2ta/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitIO          = 3
	ExitInterrupted = 130
)

// exitError carries the exit code out of cobra's RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usage(err error) error { return &exitError{code: ExitUsage, err: err} }

func newRootCmd(opts *cli.Options, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ca2ta [flags] PREFIX",
		Short: "Convert an assembler's .clr/.frg/.asm outputs into a flat contig report",
		Long: `Reads PREFIX.clr (clear ranges), PREFIX.frg (fragment names and reads) and
PREFIX.asm (contigs and read placements) and writes PREFIX.contig: each
contig's consensus followed by the reads placed on it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usage(fmt.Errorf("expected one PREFIX, got %d arguments", len(args)))
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usage(err) })
	cli.Register(cmd.Flags(), opts)
	return cmd
}

// RunContext parses argv, runs one conversion and returns the process exit
// code. Logs and errors go to stderr; stdout only carries the report when
// --output is "-".
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	var opts cli.Options
	root := newRootCmd(&opts, stdout, stderr)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if opts.WriteConfig != "" {
			return writeConfig(opts)
		}
		if len(args) == 0 {
			// nothing to convert
			return nil
		}
		opts.Prefix = args[0]
		return convert(cmd.Context(), opts, stdout, stderr)
	}
	if argv == nil {
		// cobra falls back to os.Args on nil
		argv = []string{}
	}
	root.SetArgs(argv)

	err := root.ExecuteContext(parent)
	if err == nil {
		return ExitOK
	}
	code := exitCode(err)
	if code != ExitOK && code != ExitInterrupted {
		_, _ = fmt.Fprintf(stderr, "ca2ta: %v\n", err)
	}
	if code == ExitUsage {
		_, _ = fmt.Fprintln(stderr, root.UsageString())
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error) int {
	var ee *exitError
	var iof *diag.IOFailure
	switch {
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &iof):
		return ExitIO
	case errors.Is(err, pflag.ErrHelp):
		return ExitOK
	default:
		return ExitFailure
	}
}

// loadConfig layers file, environment and flags, in that order.
func loadConfig(opts cli.Options) (*config.Config, error) {
	if err := opts.Validate(); err != nil {
		return nil, usage(err)
	}
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, usage(err)
	}
	opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, usage(err)
	}
	return cfg, nil
}

// writeConfig saves the effective settings instead of converting.
func writeConfig(opts cli.Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.Save(opts.WriteConfig); err != nil {
		return &diag.IOFailure{Op: "write", Path: opts.WriteConfig, Err: err}
	}
	return nil
}

func convert(ctx context.Context, opts cli.Options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	base, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		return usage(err)
	}
	log := base.With(zap.String("run_id", uuid.NewString()), zap.String("prefix", opts.Prefix))
	defer func() { _ = log.Sync() }()

	clr, frg, asm, out := cfg.Paths(opts.Prefix)
	log.Debug("resolved paths",
		zap.String("clear", clr), zap.String("fragments", frg),
		zap.String("assembly", asm), zap.String("output", out))

	var m *metrics.Run
	if cfg.Metrics.File != "" {
		m = metrics.New()
	}

	sink := diag.NewSink(log)
	_, err = pipeline.Run(ctx, pipeline.Config{
		ClearPath:           clr,
		FragmentPath:        frg,
		AssemblyPath:        asm,
		OutputPath:          out,
		LineWidth:           cfg.Output.LineWidth,
		ProgressEvery:       cfg.Logging.ProgressEvery,
		ContigProgressEvery: cfg.Logging.ContigProgressEvery,
	}, stdout, sink, m)
	if err != nil {
		if out == "-" && writers.IsBrokenPipe(err) {
			log.Debug("report reader went away", zap.Error(err))
			return nil
		}
		if errors.Is(err, context.Canceled) {
			log.Warn("interrupted")
		}
		return err
	}

	if m != nil {
		if err := m.WriteTextfile(cfg.Metrics.File); err != nil {
			return &diag.IOFailure{Op: "write", Path: cfg.Metrics.File, Err: err}
		}
	}
	return nil
}
