package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ca2ta/internal/diag"
)

func TestRunCounters(t *testing.T) {
	m := New()
	m.ObservePass("clear", 10, 2*time.Second)
	m.ObservePass("clear", 5, time.Second)
	m.SetTableSize("fragments", 15)
	m.AddAnomalies(diag.Counts{Structural: 2, Codec: 1})

	assert.Equal(t, 15.0, testutil.ToFloat64(m.records.WithLabelValues("clear")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.seconds.WithLabelValues("clear")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.tables.WithLabelValues("fragments")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.anomalies.WithLabelValues("structural")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.anomalies.WithLabelValues("unresolved")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.SetTableSize("contigs", 3)
	path := filepath.Join(t.TempDir(), "ca2ta.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `ca2ta_table_entries{table="contigs"} 3`)
}

func TestNilRunIsSafe(t *testing.T) {
	var m *Run
	m.ObservePass("x", 1, time.Second)
	m.SetTableSize("x", 1)
	m.AddAnomalies(diag.Counts{})
	assert.NoError(t, m.WriteTextfile("ignored"))
}
