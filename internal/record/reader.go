package record

import (
	"bufio"
	"io"
	"strings"
)

const maxLineBytes = 64 << 20

// Reader is a forward-only line cursor over one input source.
type Reader struct {
	sc     *bufio.Scanner
	source string
	num    int
}

// NewReader wraps r. source names the input in diagnostics.
func NewReader(r io.Reader, source string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{sc: sc, source: source}
}

func (r *Reader) Source() string { return r.source }

// Line is the 1-based number of the last line returned.
func (r *Reader) Line() int { return r.num }

// Err reports the first read error; io.EOF is not an error.
func (r *Reader) Err() error { return r.sc.Err() }

// Raw returns the next line verbatim.
func (r *Reader) Raw() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.num++
	return r.sc.Text(), true
}

// Next returns the next line classified.
func (r *Reader) Next() (Line, bool) {
	s, ok := r.Raw()
	if !ok {
		return Line{}, false
	}
	l := Classify(s)
	l.Num = r.num
	return l, true
}

// ReadSequence concatenates lines up to a line holding a single ".".
// The terminator is consumed and not included.
func (r *Reader) ReadSequence() string {
	var b strings.Builder
	for {
		s, ok := r.Raw()
		if !ok || s == "." {
			return b.String()
		}
		b.WriteString(s)
	}
}

// ReadUntilClose collects payload lines up to the next "}" which is consumed.
// closed is false when input ran out first.
func (r *Reader) ReadUntilClose() (lines []string, closed bool) {
	for {
		s, ok := r.Raw()
		if !ok {
			return lines, false
		}
		if s == "}" {
			return lines, true
		}
		lines = append(lines, s)
	}
}
