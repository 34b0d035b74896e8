// Package metrics exposes Prometheus counters for the demo server and the
// translation path.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttj_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ttj_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Translation metrics
	translationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttj_translations_total",
			Help: "Total number of translations requested",
		},
		[]string{"direction", "status"},
	)

	translationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ttj_translation_duration_seconds",
			Help:    "Translator round-trip latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"direction"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttj_translation_cache_lookups_total",
			Help: "Translation cache lookups by result",
		},
		[]string{"result"},
	)
)

// Translation statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusCache = "cached"
)

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTranslation records one translation with its outcome.
func RecordTranslation(direction, status string) {
	translationsTotal.WithLabelValues(direction, status).Inc()
}

// RecordTranslationDuration records translator latency.
func RecordTranslationDuration(direction string, duration time.Duration) {
	translationDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
