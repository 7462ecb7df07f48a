package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "weather_records_"

var (
	registerOnce sync.Once

	lookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "lookups_total",
			Help: "Total provider lookups by result",
		},
		[]string{"result"},
	)
	lookupLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "lookup_latency_seconds",
			Help:    "Provider lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
	recordsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "created_total",
			Help: "Total records created by entry kind",
		},
		[]string{"kind"},
	)
	recordsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "deleted_total",
			Help: "Total records deleted",
		},
	)
	exportTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "exports_total",
			Help: "Total exports by format and result",
		},
		[]string{"format", "result"},
	)
)

// Init registers the collectors with reg (the default registerer when nil).
// Only the first call has an effect.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(lookupTotal, lookupLatency, recordsCreated, recordsDeleted, exportTotal)
	})
}

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveLookup(result string, d time.Duration) {
	lookupTotal.WithLabelValues(result).Inc()
	lookupLatency.WithLabelValues(result).Observe(d.Seconds())
}

func RecordCreated(kind string) {
	recordsCreated.WithLabelValues(kind).Inc()
}

func RecordDeleted() {
	recordsDeleted.Inc()
}

func ObserveExport(format string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	exportTotal.WithLabelValues(format, result).Inc()
}
