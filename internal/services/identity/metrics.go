package identity

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the background loop does. The loop does not surface
// errors to callers, so counters are the only way to observe them.
type Metrics struct {
	Ingested          prometheus.Counter
	Malformed         prometheus.Counter
	Duplicates        prometheus.Counter
	Echoes            prometheus.Counter
	Replaced          prometheus.Counter
	Broadcasts        prometheus.Counter
	BroadcastFailures prometheus.Counter
}

// NewMetrics builds the counter set. A nil registerer leaves the counters
// unregistered, which keeps multiple engines in one process (tests) from
// colliding on metric names.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ingested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_ingested_total",
			Help: "Peer identity records accepted into the cache",
		}),
		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_malformed_total",
			Help: "Broadcast payloads discarded as undecodable",
		}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_duplicates_total",
			Help: "Re-delivered records discarded as exact duplicates",
		}),
		Echoes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_echoes_total",
			Help: "Broadcasts discarded as echoes of our own identity",
		}),
		Replaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_replaced_total",
			Help: "Cache entries replaced by a fresher record for the same key",
		}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_broadcasts_total",
			Help: "Periodic self-identity broadcasts published",
		}),
		BroadcastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerpass_identity_broadcast_failures_total",
			Help: "Periodic broadcasts that failed to publish",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Ingested, m.Malformed, m.Duplicates, m.Echoes,
			m.Replaced, m.Broadcasts, m.BroadcastFailures,
		)
	}
	return m
}
