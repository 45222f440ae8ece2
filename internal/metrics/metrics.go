// Package metrics collects per-run counters and can dump them in the
// Prometheus text format for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"ca2ta/internal/diag"
)

// Run holds the metrics of one conversion. A nil *Run ignores all calls.
type Run struct {
	reg       *prometheus.Registry
	records   *prometheus.CounterVec
	seconds   *prometheus.GaugeVec
	tables    *prometheus.GaugeVec
	anomalies *prometheus.CounterVec
}

func New() *Run {
	m := &Run{
		reg: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ca2ta",
			Name:      "records_total",
			Help:      "Records read or written per pass.",
		}, []string{"pass"}),
		seconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ca2ta",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of each pass.",
		}, []string{"pass"}),
		tables: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ca2ta",
			Name:      "table_entries",
			Help:      "Final size of the in-memory tables.",
		}, []string{"table"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ca2ta",
			Name:      "anomalies_total",
			Help:      "Row-level anomalies by class.",
		}, []string{"class"}),
	}
	m.reg.MustRegister(m.records, m.seconds, m.tables, m.anomalies)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Run) Registry() *prometheus.Registry { return m.reg }

func (m *Run) ObservePass(pass string, records int, d time.Duration) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(pass).Add(float64(records))
	m.seconds.WithLabelValues(pass).Set(d.Seconds())
}

func (m *Run) SetTableSize(table string, n int) {
	if m == nil {
		return
	}
	m.tables.WithLabelValues(table).Set(float64(n))
}

func (m *Run) AddAnomalies(c diag.Counts) {
	if m == nil {
		return
	}
	m.anomalies.WithLabelValues("structural").Add(float64(c.Structural))
	m.anomalies.WithLabelValues("unresolved").Add(float64(c.Unresolved))
	m.anomalies.WithLabelValues("codec").Add(float64(c.Codec))
}

// WriteTextfile writes all metrics to path atomically.
func (m *Run) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.reg), "write metrics %s", path)
}
