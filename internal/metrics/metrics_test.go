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

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.RecordReply(OutcomeAI)
	c.RecordReply(OutcomeFallback)
	c.RecordReply(OutcomeFallback)
	c.RecordEmergency()
	c.RecordReport("High")
	c.RecordReportSkip(SkipCooldown)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ChatReplies.WithLabelValues(OutcomeAI)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ChatReplies.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EmergencyTriggers))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ReportsCreated.WithLabelValues("High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ReportSkips.WithLabelValues(SkipCooldown)))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordReply(OutcomeAI)
	c.RecordEmergency()
	c.RecordReport("Low")
	c.RecordReportSkip(SkipInsufficientData)
	c.RecordHTTPRequest(http.MethodGet, "/health", 200, time.Millisecond)
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.RecordHTTPRequest(http.MethodGet, "/health", 200, time.Millisecond)
	c.RecordEmergency()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healchat_emergency_triggers_total 1")
	assert.Contains(t, rec.Body.String(), `healchat_http_requests_total{method="GET",route="/health",status_code="200"} 1`)
}
