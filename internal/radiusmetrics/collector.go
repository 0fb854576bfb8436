// Package radiusmetrics exposes Prometheus instrumentation for the RADIUS
// client: request/response counters, retry and timeout counters, Authenticator
// verification failures, and a round-trip latency histogram.
package radiusmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "radiusctl"
	subsystem = "client"
)

// Label names for RADIUS client metrics.
const (
	labelServer = "server"
	labelCode   = "code"
)

// Collector holds all RADIUS client Prometheus metrics.
type Collector struct {
	// RequestsSent counts packets transmitted per server and Code.
	RequestsSent *prometheus.CounterVec

	// ResponsesReceived counts packets received per server and Code, keyed
	// by the request Code (not the response Code) so a single series tracks
	// one request/response pair across its lifecycle.
	ResponsesReceived *prometheus.CounterVec

	// Retries counts retransmissions due to timeout, per server and Code.
	Retries *prometheus.CounterVec

	// Timeouts counts exhausted-attempts failures, per server and Code.
	Timeouts *prometheus.CounterVec

	// VerifyFailures counts Authenticator or Message-Authenticator
	// verification failures, per server.
	VerifyFailures *prometheus.CounterVec

	// RoundTrip records request-to-response latency in seconds, per server
	// and Code.
	RoundTrip *prometheus.HistogramVec
}

// NewCollector creates a Collector with all RADIUS client metrics
// registered against reg. If reg is nil, prometheus.DefaultRegisterer is
// used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.RequestsSent,
		c.ResponsesReceived,
		c.Retries,
		c.Timeouts,
		c.VerifyFailures,
		c.RoundTrip,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	serverCodeLabels := []string{labelServer, labelCode}
	serverLabels := []string{labelServer}

	return &Collector{
		RequestsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_sent_total",
			Help:      "Total RADIUS requests transmitted, including retries.",
		}, serverCodeLabels),

		ResponsesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "responses_received_total",
			Help:      "Total RADIUS responses matched to an outstanding request.",
		}, serverCodeLabels),

		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retries_total",
			Help:      "Total retransmissions due to a per-attempt timeout.",
		}, serverCodeLabels),

		Timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "timeouts_total",
			Help:      "Total requests that exhausted maxAttempts without a matching reply.",
		}, serverCodeLabels),

		VerifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "verify_failures_total",
			Help:      "Total Authenticator or Message-Authenticator verification failures.",
		}, serverLabels),

		RoundTrip: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "round_trip_seconds",
			Help:      "Request-to-matching-response latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, serverCodeLabels),
	}
}

// IncRequestsSent increments the transmitted-request counter.
func (c *Collector) IncRequestsSent(server, code string) {
	c.RequestsSent.WithLabelValues(server, code).Inc()
}

// IncResponsesReceived increments the matched-response counter.
func (c *Collector) IncResponsesReceived(server, code string) {
	c.ResponsesReceived.WithLabelValues(server, code).Inc()
}

// IncRetries increments the retransmission counter.
func (c *Collector) IncRetries(server, code string) {
	c.Retries.WithLabelValues(server, code).Inc()
}

// IncTimeouts increments the exhausted-attempts counter.
func (c *Collector) IncTimeouts(server, code string) {
	c.Timeouts.WithLabelValues(server, code).Inc()
}

// IncVerifyFailures increments the Authenticator verification failure
// counter.
func (c *Collector) IncVerifyFailures(server string) {
	c.VerifyFailures.WithLabelValues(server).Inc()
}

// ObserveRoundTrip records a request-to-response latency sample in seconds.
func (c *Collector) ObserveRoundTrip(server, code string, seconds float64) {
	c.RoundTrip.WithLabelValues(server, code).Observe(seconds)
}
