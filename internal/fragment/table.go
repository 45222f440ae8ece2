// Package fragment builds the fragment table: clear ranges first, then names
// and sequences merged in from the fragment detail records.
package fragment

import "sort"

// Fragment is one sequencing read. ClearLeft/ClearRight are fixed when the
// fragment is created; Name and Seq are filled in by ResolveDetails.
type Fragment struct {
	ID         string
	Name       string
	Seq        []byte // compressed, see codec
	ClearLeft  int
	ClearRight int
	Resolved   bool // an FRG record was merged
}

// Lookup is the read-only view later passes get.
type Lookup interface {
	Get(id string) (Fragment, bool)
}

// Table owns every Fragment, keyed by id.
type Table struct {
	byID map[string]*Fragment
}

func NewTable() *Table {
	return &Table{byID: make(map[string]*Fragment)}
}

func (t *Table) Len() int { return len(t.byID) }

// Get returns a copy of the fragment with the given id.
func (t *Table) Get(id string) (Fragment, bool) {
	f, ok := t.byID[id]
	if !ok {
		return Fragment{}, false
	}
	return *f, true
}

// IDs returns all fragment ids in ascending order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// add creates a fragment with its clear range; an existing id is replaced.
func (t *Table) add(id string, left, right int) (replaced bool) {
	_, replaced = t.byID[id]
	t.byID[id] = &Fragment{ID: id, ClearLeft: left, ClearRight: right}
	return replaced
}

// merge sets the detail fields that were present. It reports false when the
// id was never declared in the clear-range table.
func (t *Table) merge(d detail) bool {
	f, ok := t.byID[d.id]
	if !ok {
		return false
	}
	if d.hasName {
		f.Name = d.name
	}
	if d.hasSeq {
		f.Seq = d.seq
	}
	f.Resolved = true
	return true
}
