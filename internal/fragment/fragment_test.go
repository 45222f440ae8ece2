package fragment

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ca2ta/internal/codec"
	"ca2ta/internal/diag"
)

func load(t *testing.T, clr string, sink *diag.Sink) *Table {
	t.Helper()
	tbl, err := LoadClearRanges(context.Background(), strings.NewReader(clr), "t.clr", sink, 0)
	require.NoError(t, err)
	return tbl
}

func seqOf(t *testing.T, f Fragment) string {
	t.Helper()
	s, err := codec.Decompress(f.Seq)
	require.NoError(t, err)
	return s
}

func TestLoadClearRanges(t *testing.T) {
	sink := diag.NewSink(nil)
	tbl := load(t, "A 0 10\nB\t5  15\n\n", sink)

	want := []Fragment{
		{ID: "A", ClearLeft: 0, ClearRight: 10},
		{ID: "B", ClearLeft: 5, ClearRight: 15},
	}
	var got []Fragment
	for _, id := range tbl.IDs() {
		f, _ := tbl.Get(id)
		got = append(got, f)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, sink.Err())
}

func TestLoadClearRangesSkipsMalformedLines(t *testing.T) {
	sink := diag.NewSink(nil)
	tbl := load(t, "A 0 10\nB 5\nC x 3\nD 1 y\nE 1 2 3\nF 7 9\n", sink)

	assert.Equal(t, []string{"A", "F"}, tbl.IDs())
	assert.Equal(t, 4, sink.Counts().Structural)

	var spe *diag.StructuralParseError
	require.ErrorAs(t, sink.Err(), &spe)
	assert.Equal(t, 2, spe.Line)
	assert.Equal(t, "t.clr", spe.Source)
}

func TestLoadClearRangesDuplicateKeepsLast(t *testing.T) {
	tbl := load(t, "A 0 10\nA 3 4\n", diag.NewSink(nil))
	f, ok := tbl.Get("A")
	require.True(t, ok)
	assert.Equal(t, 3, f.ClearLeft)
	assert.Equal(t, 4, f.ClearRight)
}

func TestResolveDetailsOnlyTouchesDeclaredFragments(t *testing.T) {
	sink := diag.NewSink(nil)
	tbl := load(t, "A 0 10\nB 5 15\n", sink)

	frg := strings.Join([]string{
		"{BAT",
		"bna:batch",
		"}",
		"{FRG",
		"act:A",
		"acc:A",
		"src:",
		"read-A",
		".",
		"seq:",
		"ACGTACGT",
		"TTAA",
		".",
		"qlt:",
		"5555555555",
		".",
		"}",
		"{FRG",
		"acc:Z",
		"src:",
		"ghost",
		".",
		"seq:",
		"GG",
		".",
		"}",
	}, "\n")
	st, err := ResolveDetails(context.Background(), strings.NewReader(frg), "t.frg", tbl, sink, 0)
	require.NoError(t, err)
	assert.Equal(t, DetailStats{Records: 2, Merged: 1, Unresolved: 1, Skipped: 1}, st)

	a, _ := tbl.Get("A")
	assert.Equal(t, "read-A", a.Name)
	assert.Equal(t, "ACGTACGTTTAA", seqOf(t, a))
	assert.True(t, a.Resolved)
	assert.Equal(t, 0, a.ClearLeft)
	assert.Equal(t, 10, a.ClearRight)

	b, _ := tbl.Get("B")
	want := Fragment{ID: "B", ClearLeft: 5, ClearRight: 15}
	if diff := cmp.Diff(want, b, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("B changed (-want +got):\n%s", diff)
	}

	_, ok := tbl.Get("Z")
	assert.False(t, ok)
	assert.Equal(t, 1, sink.Counts().Unresolved)
	assert.NoError(t, sink.Err())
}

func TestResolveDetailsSkipsNestedRecords(t *testing.T) {
	tbl := load(t, "A 1 2\nB 3 4\n", diag.NewSink(nil))
	frg := strings.Join([]string{
		"{FRG",
		"acc:A",
		"{DST",
		"}",
		"seq:",
		"AC",
		".",
		"}",
		"{FRG",
		"acc:B",
		"seq:",
		"GT",
		".",
		"}",
	}, "\n")
	_, err := ResolveDetails(context.Background(), strings.NewReader(frg), "t.frg", tbl, diag.NewSink(nil), 0)
	require.NoError(t, err)

	a, _ := tbl.Get("A")
	b, _ := tbl.Get("B")
	assert.Equal(t, "AC", seqOf(t, a))
	assert.Equal(t, "GT", seqOf(t, b))
	assert.False(t, a.Name != "" || b.Name != "")
}

func TestResolveDetailsMissingAccession(t *testing.T) {
	sink := diag.NewSink(nil)
	tbl := load(t, "A 1 2\n", sink)
	_, err := ResolveDetails(context.Background(), strings.NewReader("{FRG\nseq:\nAC\n.\n}\n"), "t.frg", tbl, sink, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, sink.Counts().Structural)
}

func TestPassesHonourCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadClearRanges(ctx, strings.NewReader("A 1 2\n"), "t.clr", diag.NewSink(nil), 0)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = ResolveDetails(ctx, strings.NewReader("{FRG\n}\n"), "t.frg", NewTable(), diag.NewSink(nil), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadClearRangesLogsProgress(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := diag.NewSink(zap.New(core))

	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString("F")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" 0 1\n")
	}
	_, err := LoadClearRanges(context.Background(), strings.NewReader(b.String()), "t.clr", sink, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("clear ranges").Len())
	done := logs.FilterMessage("clear ranges loaded").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(5), done[0].ContextMap()["fragments"])
}
