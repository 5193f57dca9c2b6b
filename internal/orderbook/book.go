// Package orderbook implements the per-instrument, per-side price-time
// priority structure: C3 in spec.md. It keeps the teacher's "ordered index
// over price levels, time-ordered list within a level" shape (see
// orderbook/price_tree.go and orderbook/price_tree_sharded.go in the
// teacher repo) but swaps the teacher's hand-walked linked list of levels
// for a red-black tree, and adds the read/write locking the teacher never
// needed because its books were only ever touched by one goroutine.
package orderbook

import (
	"container/list"
	"sync"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"matchcore/internal/domain"
)

// prunePerInsert bounds how many dead orders Insert will opportunistically
// evict from the front of the best price level. Kept small so a single
// Insert call never turns into an unbounded sweep; see spec.md §4.3, "a
// background sweep is not required, but implementations may remove such
// orders opportunistically".
const prunePerInsert = 8

// PriceLevel is one price's worth of resting liquidity, oldest order
// first.
type PriceLevel struct {
	Price  uint32
	Orders *list.List // of *domain.Order
}

type bookEntry struct {
	level *PriceLevel
	elem  *list.Element
}

// PriceTimeBook is one side (bids or asks) of one instrument's book.
// Insert takes the write lock; IterateFromBest takes the read lock, which
// lets any number of opposite-side aggressors iterate this book at once,
// while an Insert excludes them for its duration — it is the SideGate,
// not this lock, that keeps crossing sides from interleaving at the
// wrong granularity (spec.md §4.4). This lock alone only protects the
// book's own internal structure against the narrower race of a same-side
// Insert mutating the tree while another same-side Insert walks it, and
// against Insert/IterateFromBest racing on the same side's own iteration
// paths (e.g. BestPrice/Depth queries used outside the gate for reporting).
type PriceTimeBook struct {
	mu     sync.RWMutex
	side   domain.Side
	levels *rbt.Tree[uint32, *PriceLevel]
	index  map[uint32]*bookEntry // order ID -> location
}

// New creates an empty book for one side of one instrument.
func New(side domain.Side) *PriceTimeBook {
	var cmp func(a, b uint32) int
	if side == domain.Buy {
		cmp = func(a, b uint32) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}
	} else {
		cmp = func(a, b uint32) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}
	return &PriceTimeBook{
		side:   side,
		levels: rbt.NewWith[uint32, *PriceLevel](cmp),
		index:  make(map[uint32]*bookEntry),
	}
}

// Insert places order in its price level's queue after every order with
// an earlier timestamp, creating the level if it doesn't already exist.
// The caller must have already set order.Timestamp — the book never
// mutates it.
func (b *PriceTimeBook) Insert(order *domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	level, found := b.levels.Get(order.Price)
	if !found {
		level = &PriceLevel{Price: order.Price, Orders: list.New()}
		b.levels.Put(order.Price, level)
	}
	var elem *list.Element
	for e := level.Orders.Back(); e != nil; e = e.Prev() {
		if e.Value.(*domain.Order).Timestamp < order.Timestamp {
			elem = level.Orders.InsertAfter(order, e)
			break
		}
	}
	if elem == nil {
		elem = level.Orders.PushFront(order)
	}
	b.index[order.ID] = &bookEntry{level: level, elem: elem}

	b.pruneBestLocked()
}

// Remove takes a resting order off the book entirely. Matching never calls
// this while iterating the opposite book (that would require upgrading a
// read lock to a write lock); it is used opportunistically from Insert,
// and is available for a future out-of-band sweep.
func (b *PriceTimeBook) Remove(orderID uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(orderID)
}

func (b *PriceTimeBook) removeLocked(orderID uint32) {
	entry, ok := b.index[orderID]
	if !ok {
		return
	}
	entry.level.Orders.Remove(entry.elem)
	delete(b.index, orderID)
	if entry.level.Orders.Len() == 0 {
		b.levels.Remove(entry.level.Price)
	}
}

// pruneBestLocked opportunistically evicts dead (Count == 0) orders from
// the front of the best price level. Must be called with mu held for
// writing. Bounded by prunePerInsert so a hot best level with a long dead
// prefix can't turn a single Insert into an unbounded scan.
func (b *PriceTimeBook) pruneBestLocked() {
	node := b.levels.Left()
	for i := 0; i < prunePerInsert && node != nil; i++ {
		level := node.Value
		front := level.Orders.Front()
		if front == nil {
			break
		}
		order := front.Value.(*domain.Order)
		order.Lock.Lock()
		dead := order.Count == 0
		order.Lock.Unlock()
		if !dead {
			break
		}
		b.removeLocked(order.ID)
		node = b.levels.Left()
	}
}

// IterateFromBest walks resting orders best-price-first, oldest-first,
// calling fn once per order. fn returns false to stop iteration early.
// IterateFromBest does NOT itself inspect or lock an order's Count —
// per spec.md §4.5, the caller (Matcher) acquires each order's own Lock,
// decides whether it's already dead (lazy-deletion skip) or past the
// crossing price (break), and releases it before IterateFromBest moves
// on. Locking here too would both double-acquire a non-reentrant mutex
// and push a decision that belongs to the matching algorithm down into
// the book.
//
// The caller is expected to already hold the SideGate for the side
// opposite this book's own side, per spec.md §4.3/§4.5; IterateFromBest
// itself only takes this book's read lock.
func (b *PriceTimeBook) IterateFromBest(fn func(order *domain.Order) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	it := b.levels.Iterator()
	for it.Next() {
		level := it.Value()
		for e := level.Orders.Front(); e != nil; e = e.Next() {
			order := e.Value.(*domain.Order)
			if !fn(order) {
				return
			}
		}
	}
}

// BestPrice returns the best resting price, or 0 if the book is empty.
func (b *PriceTimeBook) BestPrice() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	node := b.levels.Left()
	if node == nil {
		return 0
	}
	return node.Value.Price
}

// DepthLevel is a read-only snapshot of one price level, for reporting.
type DepthLevel struct {
	Price  uint32
	Volume uint64
	Orders int
}

// Depth returns up to `levels` price levels, best first, with their
// aggregate remaining volume. It's a reporting query, not part of the
// matching hot path.
func (b *PriceTimeBook) Depth(levels int) []DepthLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if levels <= 0 {
		return nil
	}
	out := make([]DepthLevel, 0, levels)
	it := b.levels.Iterator()
	for it.Next() && len(out) < levels {
		level := it.Value()
		var volume uint64
		count := 0
		for e := level.Orders.Front(); e != nil; e = e.Next() {
			order := e.Value.(*domain.Order)
			volume += uint64(order.RemainingCount())
			count++
		}
		out = append(out, DepthLevel{Price: level.Price, Volume: volume, Orders: count})
	}
	return out
}

// Size returns the number of distinct price levels currently resting.
func (b *PriceTimeBook) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.levels.Size()
}
