// File: internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healchat"

// Reply outcomes.
const (
	OutcomeAI       = "ai"
	OutcomeFallback = "fallback"
)

// Report skip reasons.
const (
	SkipCooldown         = "cooldown"
	SkipInsufficientData = "insufficient_data"
)

// Collector owns a private registry so tests can build as many as they like.
// All methods are safe on a nil receiver.
type Collector struct {
	registry *prometheus.Registry

	ChatReplies         *prometheus.CounterVec
	EmergencyTriggers   prometheus.Counter
	ReportsCreated      *prometheus.CounterVec
	ReportSkips         *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		ChatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Chat replies by source of the reply text",
		}, []string{"outcome"}),
		EmergencyTriggers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emergency_triggers_total",
			Help:      "Chat messages scored below the alarm threshold",
		}),
		ReportsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_created_total",
			Help:      "Analysis reports persisted, by risk level",
		}, []string{"risk"}),
		ReportSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_skips_total",
			Help:      "Report fetches that did not create a report",
		}, []string{"reason"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.ChatReplies,
		c.EmergencyTriggers,
		c.ReportsCreated,
		c.ReportSkips,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)
	return c
}

func (c *Collector) RecordReply(outcome string) {
	if c == nil {
		return
	}
	c.ChatReplies.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordEmergency() {
	if c == nil {
		return
	}
	c.EmergencyTriggers.Inc()
}

func (c *Collector) RecordReport(risk string) {
	if c == nil {
		return
	}
	c.ReportsCreated.WithLabelValues(risk).Inc()
}

func (c *Collector) RecordReportSkip(reason string) {
	if c == nil {
		return
	}
	c.ReportSkips.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
