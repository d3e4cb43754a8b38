package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CreditsCharged(5)
	m.CreditsCharged(5)
	m.CreditsGranted("purchase", 150)
	m.RateLimited("chat")
	m.ChatTurn("ok")
	m.Payment("webhook", "settled")
	m.ObserveRequest("POST", "/api/chat", 200, 10*time.Millisecond)

	assert.Equal(t, float64(10), testutil.ToFloat64(m.creditsCharged))
	assert.Equal(t, float64(150), testutil.ToFloat64(m.creditsGranted.WithLabelValues("purchase")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rateLimited.WithLabelValues("chat")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.payments.WithLabelValues("webhook", "settled")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CreditsCharged(5)
		m.AbuseSignal()
		m.CacheLookup(true)
		m.UpstreamError("groq")
	})
}
