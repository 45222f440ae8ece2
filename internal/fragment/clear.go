package fragment

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ca2ta/internal/diag"
	"ca2ta/internal/record"
)

// LoadClearRanges reads `mid leftClear rightClear` lines into a new Table.
// Malformed lines are reported to sink and skipped; only read failures and
// cancellation end the pass early.
func LoadClearRanges(ctx context.Context, in io.Reader, source string, sink *diag.Sink, progressEvery int) (*Table, error) {
	log := sink.Logger()
	t := NewTable()
	r := record.NewReader(in, source)
	lines := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, ok := r.Raw()
		if !ok {
			break
		}
		lines++
		if progressEvery > 0 && lines%progressEvery == 0 {
			log.Info("clear ranges", zap.Int("lines", lines))
		}

		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		if len(f) != 3 {
			sink.Structural(source, r.Line(), "", errors.Errorf("want 3 fields (mid leftClear rightClear), got %d", len(f)))
			continue
		}
		left, err := strconv.Atoi(f[1])
		if err != nil {
			sink.Structural(source, r.Line(), "leftClear", errors.Wrapf(err, "bad bound %q", f[1]))
			continue
		}
		right, err := strconv.Atoi(f[2])
		if err != nil {
			sink.Structural(source, r.Line(), "rightClear", errors.Wrapf(err, "bad bound %q", f[2]))
			continue
		}
		if t.add(f[0], left, right) {
			log.Debug("duplicate clear range, keeping last", zap.String("mid", f[0]), zap.Int("line", r.Line()))
		}
	}
	if err := r.Err(); err != nil {
		return nil, &diag.IOFailure{Op: "read", Path: source, Err: err}
	}
	log.Info("clear ranges loaded", zap.Int("lines", lines), zap.Int("fragments", t.Len()))
	return t, nil
}
