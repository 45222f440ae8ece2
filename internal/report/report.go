// Package report renders the contig table as the flat contig report: one
// header plus wrapped consensus per contig, followed by its placed reads.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ca2ta/internal/codec"
	"ca2ta/internal/contig"
	"ca2ta/internal/diag"
	"ca2ta/internal/fragment"
)

const (
	// DefaultWidth is the number of bases per sequence line.
	DefaultWidth = 60
	// Checksum is written in place of a real checksum.
	Checksum = "00000000"
)

// Options control rendering.
type Options struct {
	Width int
}

// Stats summarises one Write call.
type Stats struct {
	Contigs    int
	Placements int
	Omitted    int // contigs or placements left out after a codec or lookup failure
}

// Write renders every contig of contigs, in ascending accession string order,
// to w. Sequences that cannot be decompressed are reported to sink and left
// out; only write errors are returned.
func Write(w io.Writer, contigs *contig.Table, frags fragment.Lookup, sink *diag.Sink, opt Options) (Stats, error) {
	if opt.Width <= 0 {
		opt.Width = DefaultWidth
	}
	var st Stats
	var b strings.Builder
	for _, acc := range contigs.Accessions() {
		c, _ := contigs.Get(acc)
		b.Reset()
		if !renderContig(&b, c, frags, sink, opt, &st) {
			st.Omitted++
			continue
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return st, errors.Wrapf(err, "write contig %s", acc)
		}
		st.Contigs++
	}
	return st, nil
}

func renderContig(b *strings.Builder, c *contig.Contig, frags fragment.Lookup, sink *diag.Sink, opt Options, st *Stats) bool {
	cns, err := codec.Decompress(c.Consensus)
	if err != nil {
		sink.Codec("consensus", c.Accession, err)
		return false
	}
	logSizes(sink, "consensus", c.Accession, c.Consensus, cns)

	fmt.Fprintf(b, "##%s %d %d bases, %s checksum.\n", c.Accession, c.PlacementCount, len(cns), Checksum)
	writeSeq(b, cns, opt.Width)

	for _, p := range sortedPlacements(c.Placements) {
		if renderPlacement(b, p, frags, sink, opt) {
			st.Placements++
		} else {
			st.Omitted++
		}
	}
	return true
}

func renderPlacement(b *strings.Builder, p contig.Placement, frags fragment.Lookup, sink *diag.Sink, opt Options) bool {
	f, ok := frags.Get(p.Mid)
	if !ok || !f.Resolved {
		// declared in the clear-range table but no FRG record followed
		sink.Unresolved("fragment details", p.Mid)
		return false
	}
	if f.Seq == nil {
		sink.Unresolved("fragment sequence", p.Mid)
		return false
	}
	seq, err := codec.Decompress(f.Seq)
	if err != nil {
		sink.Codec("fragment", p.Mid, err)
		return false
	}
	logSizes(sink, "fragment", p.Mid, f.Seq, seq)

	fmt.Fprintf(b, "#%s(%d) [] %d bases, %s checksum. {%d,%d} <%d,%d>\n",
		f.Name, p.LeftPos, len(seq), Checksum, f.ClearLeft, f.ClearRight, p.LeftPos, p.RightPos)
	writeSeq(b, seq, opt.Width)
	return true
}

// sortedPlacements orders a copy of ps by fragment id string; equal ids keep
// their input order.
func sortedPlacements(ps []contig.Placement) []contig.Placement {
	out := make([]contig.Placement, len(ps))
	copy(out, ps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mid < out[j].Mid })
	return out
}

func writeSeq(b *strings.Builder, seq string, width int) {
	for _, line := range Wrap(seq, width) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func logSizes(sink *diag.Sink, what, id string, compressed []byte, text string) {
	if ce := sink.Logger().Check(zap.DebugLevel, "rendering sequence"); ce != nil {
		ce.Write(
			zap.String("what", what),
			zap.String("id", id),
			zap.Int("compressed", len(compressed)),
			zap.Int("bases", len(text)),
		)
	}
}
