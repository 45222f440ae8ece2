package contig

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ca2ta/internal/codec"
	"ca2ta/internal/diag"
	"ca2ta/internal/fragment"
	"ca2ta/internal/record"
)

// Stats summarises one Resolve pass.
type Stats struct {
	Contigs    int // CCO records read, including overwritten ones
	Placements int // placements kept
	Discarded  int // non-read or gapless placements
	Unresolved int
	Skipped    int // other top-level records
}

type parser struct {
	r     *record.Reader
	frags fragment.Lookup
	sink  *diag.Sink
	st    Stats
}

// Resolve reads CCO records from in. Placements whose fragment id is not in
// frags are dropped.
func Resolve(ctx context.Context, in io.Reader, source string, frags fragment.Lookup, sink *diag.Sink, progressEvery int) (*Table, Stats, error) {
	log := sink.Logger()
	p := &parser{r: record.NewReader(in, source), frags: frags, sink: sink}
	t := NewTable()
	for {
		if err := ctx.Err(); err != nil {
			return nil, p.st, err
		}
		l, ok := p.r.Next()
		if !ok {
			break
		}
		if l.Kind != record.Open {
			continue
		}
		if l.Tag != "CCO" {
			p.r.Skip()
			p.st.Skipped++
			continue
		}

		c := p.parseContig()
		if c == nil {
			continue
		}
		p.st.Contigs++
		if t.put(c) {
			log.Debug("duplicate contig accession, keeping last", zap.String("acc", c.Accession), zap.Int("line", l.Num))
		}
		if progressEvery > 0 && p.st.Contigs%progressEvery == 0 {
			log.Info("contigs", zap.Int("records", p.st.Contigs))
		}
	}
	if err := p.r.Err(); err != nil {
		return nil, p.st, &diag.IOFailure{Op: "read", Path: source, Err: err}
	}
	log.Info("contigs loaded",
		zap.Int("records", p.st.Contigs),
		zap.Int("contigs", t.Len()),
		zap.Int("placements", p.st.Placements),
		zap.Int("discarded", p.st.Discarded),
		zap.Int("unresolved", p.st.Unresolved),
	)
	return t, p.st, nil
}

// parseContig reads the body of a CCO record. It returns nil when the record
// has no accession header.
func (p *parser) parseContig() *Contig {
	first, ok := p.r.Next()
	if !ok {
		return nil
	}
	acc, ok := accession(first)
	if !ok {
		p.sink.Structural(p.r.Source(), first.Num, "acc", errors.Errorf("expected accession header, got %q", first.Text))
		p.discard(first)
		return nil
	}

	c := newContig(acc)
	for {
		l, ok := p.r.Next()
		if !ok {
			return c
		}
		switch l.Kind {
		case record.Close:
			return c
		case record.Open:
			if l.Tag != "MPS" {
				// VAR, UPS and anything newer
				p.r.Skip()
				continue
			}
			mps, ok := p.parsePlacement()
			if !ok {
				p.st.Discarded++
				continue
			}
			if _, found := p.frags.Get(mps.Mid); !found {
				p.st.Unresolved++
				p.sink.Unresolved("placement", mps.Mid)
				continue
			}
			c.Placements = append(c.Placements, mps)
			p.st.Placements++
		case record.Field:
			switch l.Name {
			case "len":
				if n, ok := p.atoi(l, l.Value); ok {
					c.Length = n
				}
			case "npc":
				if n, ok := p.atoi(l, l.Value); ok {
					c.PlacementCount = n
				}
			case "cns":
				c.Consensus = codec.Compress(p.r.ReadSequence())
			case "qlt":
				p.r.ReadSequence()
			}
		}
	}
}

// discard skips the remainder of a record whose first body line is l.
func (p *parser) discard(l record.Line) {
	switch l.Kind {
	case record.Close:
		return
	case record.Open:
		p.r.Skip()
	}
	p.r.Skip()
}

func (p *parser) atoi(l record.Line, s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		p.sink.Structural(p.r.Source(), l.Num, l.Name, errors.Wrapf(err, "bad number %q", s))
		return 0, false
	}
	return n, true
}

// accession extracts the digits of an `acc:(NNN` header.
func accession(l record.Line) (string, bool) {
	if l.Kind != record.Field || l.Name != "acc" || !strings.HasPrefix(l.Value, "(") {
		return "", false
	}
	v := l.Value[1:]
	n := 0
	for n < len(v) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	if n == 0 {
		return "", false
	}
	return v[:n], true
}
