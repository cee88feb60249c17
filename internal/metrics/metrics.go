// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "birthdays"

// Metrics groups the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	RPCRequests       *prometheus.CounterVec
	RPCDuration       *prometheus.HistogramVec
	MembershipChanges *prometheus.CounterVec
	BirthdayMatches   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		MembershipChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_changes_total",
			Help:      "Group membership mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		BirthdayMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "birthday_matches_total",
			Help:      "Birthdays returned by source.",
		}, []string{"source"}),
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.MembershipChanges, m.BirthdayMatches)
	return m
}

// ObserveRPC records one finished call.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(seconds)
}

// MembershipChanged records a membership mutation. outcome is "ok" or an error kind.
func (m *Metrics) MembershipChanged(op, outcome string) {
	if m == nil {
		return
	}
	m.MembershipChanges.WithLabelValues(op, outcome).Inc()
}

// BirthdaysMatched adds n matches for source.
func (m *Metrics) BirthdaysMatched(source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.BirthdayMatches.WithLabelValues(source).Add(float64(n))
}
