// Package metrics exposes session lifecycle counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sessions"

// Metrics counts issuance, rotation outcomes, cache lookups and revocations.
type Metrics struct {
	issued       prometheus.Counter
	rotations    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	revoked      prometheus.Counter
}

// New registers the session counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		issued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Token pairs issued after a successful login.",
		}),
		rotations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Refresh token rotations by outcome.",
		}, []string{"outcome"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Fast cache lookups by result.",
		}, []string{"hit"}),
		revoked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_revoked_total",
			Help:      "Refresh tokens revoked explicitly or by a subject wide revocation.",
		}),
	}
}

func (m *Metrics) TokenIssued() {
	m.issued.Inc()
}

func (m *Metrics) Rotation(outcome string) {
	m.rotations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	m.cacheLookups.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

func (m *Metrics) TokenRevoked(count int) {
	m.revoked.Add(float64(count))
}

// Handler serves g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
