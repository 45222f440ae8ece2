package fragment

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ca2ta/internal/codec"
	"ca2ta/internal/diag"
	"ca2ta/internal/record"
)

// DetailStats summarises one ResolveDetails pass.
type DetailStats struct {
	Records    int // FRG records read
	Merged     int
	Unresolved int
	Skipped    int // other top-level records
}

type detail struct {
	id      string
	name    string
	seq     []byte
	hasName bool
	hasSeq  bool
}

// ResolveDetails reads FRG records and merges each one's name and sequence
// into the matching fragment of t. Records for ids missing from t are dropped.
func ResolveDetails(ctx context.Context, in io.Reader, source string, t *Table, sink *diag.Sink, progressEvery int) (DetailStats, error) {
	log := sink.Logger()
	r := record.NewReader(in, source)
	var st DetailStats
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		l, ok := r.Next()
		if !ok {
			break
		}
		if l.Kind != record.Open {
			continue
		}
		if l.Tag != "FRG" {
			r.Skip()
			st.Skipped++
			continue
		}

		start := l.Num
		d := parseFRG(r)
		st.Records++
		if progressEvery > 0 && st.Records%progressEvery == 0 {
			log.Info("fragment details", zap.Int("records", st.Records))
		}
		if d.id == "" {
			sink.Structural(source, start, "acc", errors.New("FRG record without accession"))
			continue
		}
		if !t.merge(d) {
			st.Unresolved++
			sink.Unresolved("fragment", d.id)
			continue
		}
		st.Merged++
	}
	if err := r.Err(); err != nil {
		return st, &diag.IOFailure{Op: "read", Path: source, Err: err}
	}
	log.Info("fragment details merged",
		zap.Int("records", st.Records),
		zap.Int("merged", st.Merged),
		zap.Int("unresolved", st.Unresolved),
		zap.Int("fragments", t.Len()),
	)
	return st, nil
}

// parseFRG reads the body of an FRG record up to and including its "}".
func parseFRG(r *record.Reader) detail {
	var d detail
	for {
		l, ok := r.Next()
		if !ok {
			return d
		}
		switch l.Kind {
		case record.Close:
			return d
		case record.Open:
			r.Skip()
		case record.Field:
			switch l.Name {
			case "acc":
				d.id = l.Value
			case "src":
				// the name is the line after "src:", not its value
				if name, ok := r.Raw(); ok {
					d.name, d.hasName = name, true
				}
			case "seq":
				d.seq, d.hasSeq = codec.Compress(r.ReadSequence()), true
			case "qlt", "com":
				r.ReadSequence()
			}
		}
	}
}
