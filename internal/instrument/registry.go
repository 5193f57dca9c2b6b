// Package instrument implements the InstrumentRegistry (spec.md §4.2,
// C4): the lazy, concurrent symbol -> (books, gate) mapping every
// matching operation starts by consulting.
//
// Grounded on matching/engine.go's ExchangeEngine in the teacher repo: an
// atomic.Value holding an immutable map gives a lock-free read path for
// the overwhelmingly common "symbol already exists" case, with a mutex
// guarding the rare copy-on-write insert of a brand new symbol.
package instrument

import (
	"sync"
	"sync/atomic"

	"matchcore/internal/domain"
	"matchcore/internal/gate"
	"matchcore/internal/orderbook"
)

// Books is the stable, permanent-for-the-process-lifetime tuple a
// symbol resolves to.
type Books struct {
	Buy  *orderbook.PriceTimeBook
	Sell *orderbook.PriceTimeBook
	Gate *gate.SideGate
}

// Registry is a concurrent, lazily-populated, never-shrinking map from
// instrument symbol to its Books.
type Registry struct {
	table atomic.Value // map[string]*Books
	mu    sync.Mutex   // serializes the rare insert-new-symbol path
}

// New returns an empty, ready-to-use Registry.
func New() *Registry {
	r := &Registry{}
	r.table.Store(make(map[string]*Books))
	return r
}

// Get returns the Books for symbol, creating them on first use. Every
// subsequent call for the same symbol, from any goroutine, returns the
// identical *Books.
func (r *Registry) Get(symbol string) *Books {
	if books, ok := r.table.Load().(map[string]*Books)[symbol]; ok {
		return books
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	table := r.table.Load().(map[string]*Books)
	if books, ok := table[symbol]; ok {
		return books
	}

	books := &Books{
		Buy:  orderbook.New(domain.Buy),
		Sell: orderbook.New(domain.Sell),
		Gate: gate.New(),
	}

	grown := make(map[string]*Books, len(table)+1)
	for k, v := range table {
		grown[k] = v
	}
	grown[symbol] = books
	r.table.Store(grown)

	return books
}
