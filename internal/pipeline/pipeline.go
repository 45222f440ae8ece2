package pipeline

import (
	"bufio"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"ca2ta/internal/contig"
	"ca2ta/internal/diag"
	"ca2ta/internal/fileio"
	"ca2ta/internal/fragment"
	"ca2ta/internal/metrics"
	"ca2ta/internal/report"
)

// Config controls one conversion run.
type Config struct {
	ClearPath     string
	FragmentPath  string
	AssemblyPath  string
	OutputPath    string // "-" writes to Stdout
	LineWidth     int
	ProgressEvery int // clear-range lines and FRG records
	// ContigProgressEvery is the CCO record interval; 0 falls back to
	// ProgressEvery.
	ContigProgressEvery int
}

// Summary collects what every pass did.
type Summary struct {
	Fragments   int
	Details     fragment.DetailStats
	Contigs     contig.Stats
	Report      report.Stats
	Diagnostics diag.Counts
}

// Run executes the passes. stdout is used when cfg.OutputPath is "-"; m may
// be nil.
func Run(ctx context.Context, cfg Config, stdout io.Writer, sink *diag.Sink, m *metrics.Run) (Summary, error) {
	log := sink.Logger()
	var sum Summary

	// pass 1
	var frags *fragment.Table
	err := timed(m, "clear", func() (int, error) {
		var err error
		frags, err = withInput(cfg.ClearPath, func(in io.Reader) (*fragment.Table, error) {
			return fragment.LoadClearRanges(ctx, in, cfg.ClearPath, sink, cfg.ProgressEvery)
		})
		if err != nil {
			return 0, err
		}
		return frags.Len(), nil
	})
	if err != nil {
		return sum, err
	}
	sum.Fragments = frags.Len()
	m.SetTableSize("fragments", frags.Len())

	// pass 2
	err = timed(m, "fragment", func() (int, error) {
		var err error
		sum.Details, err = withInput(cfg.FragmentPath, func(in io.Reader) (fragment.DetailStats, error) {
			return fragment.ResolveDetails(ctx, in, cfg.FragmentPath, frags, sink, cfg.ProgressEvery)
		})
		return sum.Details.Records, err
	})
	if err != nil {
		return sum, err
	}

	// pass 3: the fragment table is read-only from here on
	var lookup fragment.Lookup = frags
	var contigs *contig.Table
	err = timed(m, "assembly", func() (int, error) {
		var err error
		contigs, err = withInput(cfg.AssemblyPath, func(in io.Reader) (*contig.Table, error) {
			t, st, err := contig.Resolve(ctx, in, cfg.AssemblyPath, lookup, sink, cfg.contigProgress())
			sum.Contigs = st
			return t, err
		})
		return sum.Contigs.Contigs, err
	})
	if err != nil {
		return sum, err
	}
	m.SetTableSize("contigs", contigs.Len())

	if err := ctx.Err(); err != nil {
		return sum, err
	}

	// pass 4
	err = timed(m, "report", func() (int, error) {
		var err error
		sum.Report, err = writeReport(cfg, stdout, contigs, lookup, sink)
		return sum.Report.Contigs, err
	})
	if err != nil {
		return sum, err
	}

	sum.Diagnostics = sink.Counts()
	m.AddAnomalies(sum.Diagnostics)
	log.Info("contig report written",
		zap.String("path", cfg.OutputPath),
		zap.Int("contigs", sum.Report.Contigs),
		zap.Int("placements", sum.Report.Placements),
		zap.Int("omitted", sum.Report.Omitted),
		zap.Int("structural_errors", sum.Diagnostics.Structural),
		zap.Int("unresolved", sum.Diagnostics.Unresolved),
		zap.Int("codec_errors", sum.Diagnostics.Codec),
	)
	return sum, nil
}

func (c Config) contigProgress() int {
	if c.ContigProgressEvery > 0 {
		return c.ContigProgressEvery
	}
	return c.ProgressEvery
}

func writeReport(cfg Config, stdout io.Writer, contigs *contig.Table, frags fragment.Lookup, sink *diag.Sink) (report.Stats, error) {
	wc, err := fileio.Create(cfg.OutputPath, stdout)
	if err != nil {
		return report.Stats{}, &diag.IOFailure{Op: "create", Path: cfg.OutputPath, Err: err}
	}
	bw := bufio.NewWriterSize(wc, 256*1024)

	st, err := report.Write(bw, contigs, frags, sink, report.Options{Width: cfg.LineWidth})
	if err == nil {
		err = bw.Flush()
	}
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return st, &diag.IOFailure{Op: "write", Path: cfg.OutputPath, Err: err}
	}
	return st, nil
}

// withInput opens path, runs pass on it and closes it again.
func withInput[T any](path string, pass func(io.Reader) (T, error)) (T, error) {
	var zero T
	rc, err := fileio.Open(path)
	if err != nil {
		return zero, &diag.IOFailure{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = rc.Close() }()
	return pass(rc)
}

func timed(m *metrics.Run, pass string, fn func() (int, error)) error {
	start := time.Now()
	n, err := fn()
	m.ObservePass(pass, n, time.Since(start))
	return err
}
