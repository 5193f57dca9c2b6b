// Package matching implements the Matcher (spec.md §4.5, C6): the
// buy-side and sell-side crossing algorithm and order cancellation, and
// the only place output events originate from.
//
// Grounded on matching/engine.go's matchBuyOrder/matchSellOrder/
// executeTrade in the teacher repo for the general "sweep the opposite
// book, fill while there's a cross, rest the remainder" shape, and on
// original_source/engine.cpp's match_buy/match_sell/cancel_order for the
// exact field semantics spec.md §4.5 pins down (price and exec-seq always
// come from the resting order, Added is emitted before the Executed
// events captured alongside it, cancel never touches the SideGate).
package matching

import (
	"matchcore/internal/clock"
	"matchcore/internal/domain"
	"matchcore/internal/egress"
	"matchcore/internal/instrument"
	"matchcore/internal/orderbook"
)

// Matcher is the stateless entry point Session calls into. All mutable
// state it touches — books, gates, per-order locks — lives in the
// Registry and the orders themselves.
type Matcher struct {
	registry *instrument.Registry
	clock    clock.Clock
	sink     egress.Sink
}

// New builds a Matcher over the given instrument registry, clock, and
// output sink.
func New(registry *instrument.Registry, clk clock.Clock, sink egress.Sink) *Matcher {
	return &Matcher{registry: registry, clock: clk, sink: sink}
}

// SubmitBuy runs spec.md §4.5.1 against a freshly created, not-yet-resting
// buy order. aggressor's Count is read and written here without taking
// its Lock, so no other goroutine may touch it until it is inserted into
// the book; the calling session may already hold it in its own order
// table.
func (m *Matcher) SubmitBuy(aggressor *domain.Order) {
	books := m.registry.Get(aggressor.Instrument)

	books.Gate.EnterBuy()
	executions := sweep(aggressor, books.Sell, m.clock, func(restingPrice uint32) bool {
		return restingPrice > aggressor.Price
	})
	rested, restTimestamp, restCount := rest(aggressor, books.Buy, m.clock)
	books.Gate.LeaveBuy()

	m.emit(aggressor, rested, restTimestamp, restCount, false, executions)
}

// SubmitSell runs spec.md §4.5.2, the mirror image of SubmitBuy.
func (m *Matcher) SubmitSell(aggressor *domain.Order) {
	books := m.registry.Get(aggressor.Instrument)

	books.Gate.EnterSell()
	executions := sweep(aggressor, books.Buy, m.clock, func(restingPrice uint32) bool {
		return restingPrice < aggressor.Price
	})
	rested, restTimestamp, restCount := rest(aggressor, books.Sell, m.clock)
	books.Gate.LeaveSell()

	m.emit(aggressor, rested, restTimestamp, restCount, true, executions)
}

// Cancel runs spec.md §4.5.3. order must be the same *domain.Order the
// session originally created for this order ID — the side-gate is
// deliberately not taken (see spec.md §4.5.3's rationale).
func (m *Matcher) Cancel(order *domain.Order) {
	order.Lock.Lock()
	accepted := order.Count > 0
	order.Count = 0
	order.Lock.Unlock()

	m.sink.Deleted(order.ID, accepted, m.clock.Now())
}

// CancelUnknown reports a cancel for an order ID the session has no
// record of. spec.md §7 leaves this case undefined; this Matcher treats
// it as a rejected cancel rather than silently dropping the command.
func (m *Matcher) CancelUnknown(orderID uint32) {
	m.sink.Deleted(orderID, false, m.clock.Now())
}

// sweep walks the opposite book from its best price, filling aggressor
// against resting orders while pastCrossingPrice says there's still a
// cross available. It returns the executions captured, in the order they
// happened; callers emit them only after releasing the SideGate.
func sweep(aggressor *domain.Order, opposite *orderbook.PriceTimeBook, clk clock.Clock, pastCrossingPrice func(restingPrice uint32) bool) []domain.Execution {
	var executions []domain.Execution

	opposite.IterateFromBest(func(resting *domain.Order) bool {
		resting.Lock.Lock()
		defer resting.Lock.Unlock()

		if aggressor.Count == 0 || pastCrossingPrice(resting.Price) {
			return false
		}
		if resting.Count == 0 {
			return true // lazily skip a cancelled/filled resting order
		}

		delta := resting.Count
		if aggressor.Count < delta {
			delta = aggressor.Count
		}
		resting.Count -= delta
		aggressor.Count -= delta

		execSeq := resting.ExecSeq
		resting.ExecSeq++

		executions = append(executions, domain.Execution{
			AggressorID:    aggressor.ID,
			RestingID:      resting.ID,
			RestingExecSeq: execSeq,
			Price:          resting.Price,
			Count:          delta,
			Timestamp:      clk.Now(),
		})
		return true
	})

	return executions
}

// rest inserts aggressor into own, its own side's book, if it has
// residual volume after sweeping. It reports whether it rested, and if
// so, the resting timestamp and residual count to report in Added.
func rest(aggressor *domain.Order, own *orderbook.PriceTimeBook, clk clock.Clock) (rested bool, timestamp uint64, count uint32) {
	if aggressor.Count == 0 {
		return false, 0, 0
	}
	timestamp = clk.Now()
	aggressor.Timestamp = timestamp
	own.Insert(aggressor)
	return true, timestamp, aggressor.Count
}

// emit writes the Added (if any) and Executed events for one command, in
// the order spec.md §4.5.1/§9 require: Added first, then each captured
// Executed in capture order. Both happen after the SideGate has already
// been released.
func (m *Matcher) emit(aggressor *domain.Order, rested bool, restTimestamp uint64, restCount uint32, isSell bool, executions []domain.Execution) {
	if rested {
		m.sink.Added(aggressor.ID, aggressor.Instrument, aggressor.Price, restCount, isSell, restTimestamp)
	}
	for _, ex := range executions {
		m.sink.Executed(ex.RestingID, ex.AggressorID, ex.RestingExecSeq, ex.Price, ex.Count, ex.Timestamp)
	}
}
