// Package metrics exposes request and store metrics through go-kit metric
// interfaces backed by Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/go-kit/kit/metrics"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	promc "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipebook"

// Metrics holds the service metrics.
type Metrics struct {
	// Requests is labelled by route, method and code.
	Requests metrics.Counter
	// Latency is labelled by route and method.
	Latency metrics.Histogram
	// Puts counts recipes written to the store.
	Puts metrics.Counter
	// DecodeErrors counts rejected POST bodies.
	DecodeErrors metrics.Counter

	gatherer promc.Gatherer
}

// New registers the service collectors with reg. storeSize is sampled on
// every scrape to report how many recipes are held.
func New(reg *promc.Registry, storeSize func() int) *Metrics {
	requests := promc.NewCounterVec(promc.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled.",
	}, []string{"route", "method", "code"})
	latency := promc.NewHistogramVec(promc.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Total time spent handling request.",
		Buckets:   promc.DefBuckets,
	}, []string{"route", "method"})
	puts := promc.NewCounterVec(promc.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "puts_total",
		Help:      "Recipes written to the store.",
	}, []string{})
	decodeErrors := promc.NewCounterVec(promc.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "decode_errors_total",
		Help:      "Request bodies rejected before reaching the store.",
	}, []string{})
	size := promc.NewGaugeFunc(promc.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "recipes",
		Help:      "Recipes currently stored.",
	}, func() float64 { return float64(storeSize()) })

	reg.MustRegister(requests, latency, puts, decodeErrors, size)

	return &Metrics{
		Requests:     kitprom.NewCounter(requests),
		Latency:      kitprom.NewHistogram(latency),
		Puts:         kitprom.NewCounter(puts),
		DecodeErrors: kitprom.NewCounter(decodeErrors),
		gatherer:     reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
