// Package metrics exposes extraction counters as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/finflow/statement-extractor/internal/models"
)

// Metrics holds the extraction run metrics.
type Metrics struct {
	RecordsParsed   prometheus.Counter
	PagesSkipped    prometheus.Counter
	DocumentsFailed prometheus.Counter
	RunDuration     prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_records_parsed_total",
			Help: "Total transaction records parsed across all runs.",
		}),
		PagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_pages_skipped_total",
			Help: "Pages that yielded no extractable text.",
		}),
		DocumentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_documents_failed_total",
			Help: "Documents that could not be read.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_run_duration_seconds",
			Help:    "Wall-clock duration of aggregation runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.RecordsParsed, m.PagesSkipped, m.DocumentsFailed, m.RunDuration)
	return m
}

// ObserveRun records the outcome of one aggregation run. Safe on a nil
// receiver so metrics stay optional.
func (m *Metrics) ObserveRun(s *models.RunSummary) {
	if m == nil || s == nil {
		return
	}
	m.RecordsParsed.Add(float64(s.Records))
	m.PagesSkipped.Add(float64(len(s.PagesSkipped)))
	m.DocumentsFailed.Add(float64(len(s.DocumentsFailed)))
	m.RunDuration.Observe(s.Duration.Seconds())
}
