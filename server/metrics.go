package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// match outcomes
const (
	outcomeMatched        = "matched"
	outcomeNoMatch        = "no_match"
	outcomeInvalidGrammar = "invalid_grammar"
	outcomeRejected       = "rejected"
	outcomeFailed         = "failed"
)

type metrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	matches  *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

func newMetrics(registry *prometheus.Registry) (*metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &metrics{
		registry: registry,
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pas_http_request_duration_seconds",
				Help:    "A histogram of duration for requests.",
				Buckets: []float64{1e-4, 5e-4, 1e-3, 5e-3, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"code", "handler", "method"},
		),
		matches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pas_matches_total",
				Help: "A count of match requests by outcome.",
			},
			[]string{"outcome"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pas_grammar_cache_total",
				Help: "A count of compiled grammar lookups by result.",
			},
			[]string{"result"},
		),
	}
	for _, c := range []prometheus.Collector{m.duration, m.matches, m.cache} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// instrument records the duration of the requests served by `h`
// under the handler label `label`
func (m *metrics) instrument(label string, h http.Handler) http.Handler {
	collector := m.duration.MustCurryWith(prometheus.Labels{"handler": label})
	return promhttp.InstrumentHandlerDuration(collector, h)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) outcome(outcome string) {
	m.matches.WithLabelValues(outcome).Inc()
}
