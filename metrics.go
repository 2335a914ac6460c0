package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load outcomes recorded in the status label.
const (
	statusOK    = "ok"
	statusError = "error"
)

// Metrics collects loader statistics. A nil *Metrics records nothing.
type Metrics struct {
	loadsTotal       *prometheus.CounterVec
	rowsTotal        prometheus.Counter
	unparseableDates prometheus.Counter
	transcodedTotal  prometheus.Counter
	loadDuration     prometheus.Histogram
}

// NewMetrics creates the loader metrics and registers them with reg. When
// reg is nil the metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Total number of catalog loads by source kind and outcome",
		}, []string{"kind", "status"}),
		rowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_rows_total",
			Help: "Total number of data rows parsed",
		}),
		unparseableDates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_unparseable_dates_total",
			Help: "Total number of records whose publication date could not be parsed",
		}),
		transcodedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_transcoded_sources_total",
			Help: "Total number of sources decoded from Windows-1252",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Time spent fetching and parsing a catalog",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.loadsTotal, m.rowsTotal, m.unparseableDates, m.transcodedTotal, m.loadDuration)
	}
	return m
}

func (m *Metrics) observeLoad(kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := statusOK
	if err != nil {
		status = statusError
	}
	m.loadsTotal.WithLabelValues(kind, status).Inc()
	m.loadDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeRecords(records []Record) {
	if m == nil {
		return
	}
	m.rowsTotal.Add(float64(len(records)))
	for _, r := range records {
		if !r.PublishedOn.IsValid() {
			m.unparseableDates.Inc()
		}
	}
}

func (m *Metrics) observeTranscoded() {
	if m == nil {
		return
	}
	m.transcodedTotal.Inc()
}
