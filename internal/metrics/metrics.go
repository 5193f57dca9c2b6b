// Package metrics wires the engine's output events into Prometheus
// counters. This is ambient observability infrastructure, not a new
// feature the spec's Non-goals exclude (those are persistence,
// cross-instrument atomicity, exotic order types, and replay
// determinism) — see SPEC_FULL.md's DOMAIN STACK section.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"matchcore/internal/egress"
)

// Counters holds the engine-wide Prometheus collectors. Register them
// once against a prometheus.Registerer at process startup.
type Counters struct {
	Added    prometheus.Counter
	Executed prometheus.Counter
	Deleted  prometheus.Counter
}

// NewCounters creates and registers the matching engine's counters.
func NewCounters(reg prometheus.Registerer) *Counters {
	c := &Counters{
		Added: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_added_total",
			Help: "Number of Added events emitted (an aggressor rested with residual volume).",
		}),
		Executed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_executed_total",
			Help: "Number of Executed events emitted (one per crossing).",
		}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_deleted_total",
			Help: "Number of Deleted events emitted (one per cancel command).",
		}),
	}
	reg.MustRegister(c.Added, c.Executed, c.Deleted)
	return c
}

// Sink decorates an egress.Sink, incrementing the matching counters
// alongside every event it forwards. It never changes emission order or
// timing — it is a pure side-channel tap.
type Sink struct {
	egress.Sink
	counters *Counters
}

// Wrap returns a Sink that forwards to next and increments counters.
func Wrap(next egress.Sink, counters *Counters) *Sink {
	return &Sink{Sink: next, counters: counters}
}

func (s *Sink) Added(orderID uint32, instrument string, price, count uint32, isSell bool, timestamp uint64) {
	s.counters.Added.Inc()
	s.Sink.Added(orderID, instrument, price, count, isSell, timestamp)
}

func (s *Sink) Executed(restingID, aggressorID uint32, restingExecSeq, price, count uint32, timestamp uint64) {
	s.counters.Executed.Inc()
	s.Sink.Executed(restingID, aggressorID, restingExecSeq, price, count, timestamp)
}

func (s *Sink) Deleted(orderID uint32, accepted bool, timestamp uint64) {
	s.counters.Deleted.Inc()
	s.Sink.Deleted(orderID, accepted, timestamp)
}
