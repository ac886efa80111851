package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-sessions/internal/service"
)

var _ service.Recorder = (*Metrics)(nil)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.TokenIssued()
	m.TokenIssued()
	m.Rotation(service.OutcomeSuccess)
	m.Rotation(service.OutcomeReused)
	m.Rotation(service.OutcomeReused)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.TokenRevoked(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.issued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rotations.WithLabelValues(service.OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rotations.WithLabelValues(service.OutcomeReused)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("false")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.revoked))
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Rotation(service.OutcomeExpired)

	srv := httptest.NewServer(Handler(reg))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `sessions_rotations_total{outcome="expired"} 1`)
}
