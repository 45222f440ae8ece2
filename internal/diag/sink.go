package diag

import (
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Counts tallies reported anomalies by class.
type Counts struct {
	Structural int
	Unresolved int
	Codec      int
}

// Sink receives row-level anomalies. Structural and codec problems are logged
// and kept; unresolved references are only counted.
type Sink struct {
	log    *zap.Logger
	errs   *multierror.Error
	counts Counts
}

// NewSink returns a sink logging to log. A nil logger discards output.
func NewSink(log *zap.Logger) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sink{log: log}
}

func (s *Sink) Logger() *zap.Logger { return s.log }

// Structural reports a grammar violation at source:line.
func (s *Sink) Structural(source string, line int, field string, err error) {
	e := &StructuralParseError{Source: source, Line: line, Field: field, Err: err}
	s.counts.Structural++
	s.errs = multierror.Append(s.errs, e)
	s.log.Warn("skipping malformed input",
		zap.String("source", source),
		zap.Int("line", line),
		zap.String("field", field),
		zap.Error(err),
	)
}

// Unresolved records a dropped reference to an unknown fragment id.
func (s *Sink) Unresolved(kind, id string) {
	s.counts.Unresolved++
	s.log.Debug("dropping unresolved reference", zap.String("kind", kind), zap.String("id", id))
}

// Codec reports a sequence that could not be decompressed for rendering.
func (s *Sink) Codec(what, id string, err error) {
	s.counts.Codec++
	s.errs = multierror.Append(s.errs, err)
	s.log.Error("cannot decompress sequence",
		zap.String("what", what),
		zap.String("id", id),
		zap.Error(err),
	)
}

func (s *Sink) Counts() Counts { return s.counts }

// Err returns every kept anomaly as one error, or nil.
func (s *Sink) Err() error { return s.errs.ErrorOrNil() }
