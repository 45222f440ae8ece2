// Package contig parses CCO records and their MPS placements into a table of
// contigs keyed by accession.
package contig

import (
	"sort"

	"ca2ta/internal/codec"
)

// Placement positions one read inside a contig. LeftPos > RightPos encodes a
// reverse-oriented read.
type Placement struct {
	Type       byte
	Mid        string
	LeftPos    int
	RightPos   int
	GapCount   int
	GapLengths []int
}

// Contig is an assembled consensus with the reads placed in it.
type Contig struct {
	Accession      string
	Length         int
	PlacementCount int
	Consensus      []byte // compressed, see codec
	Placements     []Placement
}

func newContig(acc string) *Contig {
	return &Contig{Accession: acc, Consensus: codec.Empty}
}

// Table owns every Contig, keyed by accession.
type Table struct {
	byAcc map[string]*Contig
}

func NewTable() *Table {
	return &Table{byAcc: make(map[string]*Contig)}
}

func (t *Table) Len() int { return len(t.byAcc) }

func (t *Table) Get(acc string) (*Contig, bool) {
	c, ok := t.byAcc[acc]
	return c, ok
}

// Accessions returns all accessions in ascending string order, so "10" sorts
// before "2".
func (t *Table) Accessions() []string {
	accs := make([]string, 0, len(t.byAcc))
	for acc := range t.byAcc {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs
}

// put stores c, replacing any contig with the same accession.
func (t *Table) put(c *Contig) (replaced bool) {
	_, replaced = t.byAcc[c.Accession]
	t.byAcc[c.Accession] = c
	return replaced
}
