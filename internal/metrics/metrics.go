// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use through a nil pointer; every method becomes a no-op.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	rateLimited    *prometheus.CounterVec
	abuseSignals   prometheus.Counter
	creditsCharged prometheus.Counter
	creditsGranted *prometheus.CounterVec
	chatTurns      *prometheus.CounterVec
	payments       *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "askastro_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		rateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_rate_limited_total",
			Help: "Requests rejected by a rate limiter, by scope",
		}, []string{"scope"}),
		abuseSignals: f.NewCounter(prometheus.CounterOpts{
			Name: "askastro_abuse_signals_total",
			Help: "Identities observed from more distinct IPs than allowed",
		}),
		creditsCharged: f.NewCounter(prometheus.CounterOpts{
			Name: "askastro_credits_charged_total",
			Help: "Credits deducted for chat turns",
		}),
		creditsGranted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_credits_granted_total",
			Help: "Credits granted, by source",
		}, []string{"source"}),
		chatTurns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_chat_turns_total",
			Help: "Chat turns by outcome",
		}, []string{"outcome"}),
		payments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_payments_total",
			Help: "Payment reconciliations by entry path and outcome",
		}, []string{"path", "outcome"}),
		upstreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_upstream_errors_total",
			Help: "Failed calls to third-party providers",
		}, []string{"provider"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "askastro_cache_lookups_total",
			Help: "Query cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(scope).Inc()
}

func (m *Metrics) AbuseSignal() {
	if m == nil {
		return
	}
	m.abuseSignals.Inc()
}

func (m *Metrics) CreditsCharged(n int) {
	if m == nil {
		return
	}
	m.creditsCharged.Add(float64(n))
}

func (m *Metrics) CreditsGranted(source string, n int) {
	if m == nil {
		return
	}
	m.creditsGranted.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) ChatTurn(outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Payment(path, outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(path, outcome).Inc()
}

func (m *Metrics) UpstreamError(provider string) {
	if m == nil {
		return
	}
	m.upstreamErrors.WithLabelValues(provider).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
