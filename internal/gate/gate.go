// Package gate implements the per-instrument SideGate: the primitive that
// lets same-side aggressors run in parallel while keeping buy and sell
// aggressors strictly mutually exclusive (spec.md §4.4).
//
// This has no analogue in the teacher repo — ccyyhlg-lightning-exchange
// sidesteps the whole problem by giving each instrument a single matching
// goroutine, so buy and sell orders for one symbol are already serialized
// by construction and same-side parallelism never arises. The design here
// is lifted directly from original_source/engine.hpp's CounterMutex /
// BuySellMutex: a per-side counter guarded by its own mutex, plus one
// shared binary mutex that the first entrant on a side locks and the last
// exit on that side unlocks.
package gate

import "sync"

// SideGate is the per-instrument buy/sell exclusion primitive described in
// spec.md §4.4. Zero value is not usable; use New.
type SideGate struct {
	shared sync.Mutex // the single binary mutex M

	buyMu    sync.Mutex
	buyCount int

	sellMu    sync.Mutex
	sellCount int
}

// New returns a ready-to-use SideGate.
func New() *SideGate {
	return &SideGate{}
}

// EnterBuy blocks until it is safe for a buy aggressor to proceed: either
// no sell aggressor is currently active, or this goroutine is joining
// other buy aggressors that are already active. Must be paired with
// LeaveBuy.
func (g *SideGate) EnterBuy() {
	g.buyMu.Lock()
	g.buyCount++
	if g.buyCount == 1 {
		g.shared.Lock()
	}
	g.buyMu.Unlock()
}

// LeaveBuy releases this goroutine's buy-side participation. The last buy
// aggressor to leave releases the shared mutex, letting sell aggressors
// in.
func (g *SideGate) LeaveBuy() {
	g.buyMu.Lock()
	g.buyCount--
	if g.buyCount == 0 {
		g.shared.Unlock()
	}
	g.buyMu.Unlock()
}

// EnterSell is EnterBuy's mirror image for the sell side.
func (g *SideGate) EnterSell() {
	g.sellMu.Lock()
	g.sellCount++
	if g.sellCount == 1 {
		g.shared.Lock()
	}
	g.sellMu.Unlock()
}

// LeaveSell is LeaveBuy's mirror image for the sell side.
func (g *SideGate) LeaveSell() {
	g.sellMu.Lock()
	g.sellCount--
	if g.sellCount == 0 {
		g.shared.Unlock()
	}
	g.sellMu.Unlock()
}
