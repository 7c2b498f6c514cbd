package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_ObserveCall(t *testing.T) {
	e := New(DefaultConfig())

	e.CallStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(e.inFlight))

	e.ObserveCall("create_conversation", "success", 5*time.Millisecond)
	e.CallStarted()
	e.ObserveCall("get_conversation", "not_found", time.Millisecond)

	assert.Equal(t, float64(0), testutil.ToFloat64(e.inFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.calls.WithLabelValues("create_conversation", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.calls.WithLabelValues("get_conversation", "not_found")))
}

func TestExporter_ObserveUpstream(t *testing.T) {
	e := New(DefaultConfig())

	e.ObserveUpstream("github", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	e.ObserveUpstream("github", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	e.ObserveUpstream("fly", http.MethodPost, 0, time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(e.upstreamRequests.WithLabelValues("github", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.upstreamRequests.WithLabelValues("fly", "POST", "error")))
}

func TestExporter_Handler(t *testing.T) {
	e := New(Config{})
	e.CallStarted()
	e.ObserveCall("deploy_fly", "upstream_error", time.Millisecond)
	e.ObserveUpstream("fly", http.MethodPost, http.StatusUnauthorized, time.Millisecond)

	w := httptest.NewRecorder()
	e.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "serena_mcp_dispatch_calls_total")
	assert.Contains(t, body, `function="deploy_fly"`)
	assert.Contains(t, body, "serena_mcp_upstream_requests_total")
	assert.Contains(t, body, `code="401"`)
}
