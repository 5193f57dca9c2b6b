package orderbook

import (
	"sync"
	"testing"

	"matchcore/internal/domain"
)

func restingOrder(id uint32, side domain.Side, price, count uint32, ts uint64) *domain.Order {
	o := domain.NewOrder(id, "AAPL", side, price, count)
	o.Timestamp = ts
	return o
}

func TestBestPriceBidsDescending(t *testing.T) {
	book := New(domain.Buy)
	book.Insert(restingOrder(1, domain.Buy, 49000, 10, 1))
	book.Insert(restingOrder(2, domain.Buy, 50000, 10, 2))
	book.Insert(restingOrder(3, domain.Buy, 48000, 10, 3))

	if got := book.BestPrice(); got != 50000 {
		t.Fatalf("expected best bid 50000, got %d", got)
	}
}

func TestBestPriceAsksAscending(t *testing.T) {
	book := New(domain.Sell)
	book.Insert(restingOrder(1, domain.Sell, 51000, 10, 1))
	book.Insert(restingOrder(2, domain.Sell, 50000, 10, 2))
	book.Insert(restingOrder(3, domain.Sell, 52000, 10, 3))

	if got := book.BestPrice(); got != 50000 {
		t.Fatalf("expected best ask 50000, got %d", got)
	}
}

func TestIterateFromBestOrdersByPriceThenTime(t *testing.T) {
	book := New(domain.Sell)
	book.Insert(restingOrder(1, domain.Sell, 50000, 10, 100))
	book.Insert(restingOrder(2, domain.Sell, 50000, 10, 50)) // earlier timestamp, same price
	book.Insert(restingOrder(3, domain.Sell, 49000, 10, 200))

	var seen []uint32
	book.IterateFromBest(func(o *domain.Order) bool {
		seen = append(seen, o.ID)
		return true
	})

	want := []uint32{3, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestIterateFromBestStopsEarly(t *testing.T) {
	book := New(domain.Sell)
	book.Insert(restingOrder(1, domain.Sell, 50000, 10, 1))
	book.Insert(restingOrder(2, domain.Sell, 51000, 10, 2))
	book.Insert(restingOrder(3, domain.Sell, 52000, 10, 3))

	var seen []uint32
	book.IterateFromBest(func(o *domain.Order) bool {
		seen = append(seen, o.ID)
		return o.ID != 1
	})

	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("expected iteration to stop after first order, got %v", seen)
	}
}

func TestRemoveEmptiesLevel(t *testing.T) {
	book := New(domain.Sell)
	order := restingOrder(1, domain.Sell, 50000, 10, 1)
	book.Insert(order)
	book.Remove(order.ID)

	if book.BestPrice() != 0 {
		t.Fatalf("expected empty book after remove, best price %d", book.BestPrice())
	}
	if book.Size() != 0 {
		t.Fatalf("expected 0 price levels, got %d", book.Size())
	}
}

func TestDepthAggregatesVolumePerLevel(t *testing.T) {
	book := New(domain.Sell)
	book.Insert(restingOrder(1, domain.Sell, 50000, 10, 1))
	book.Insert(restingOrder(2, domain.Sell, 50000, 15, 2))
	book.Insert(restingOrder(3, domain.Sell, 51000, 5, 3))

	depth := book.Depth(5)
	if len(depth) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(depth))
	}
	if depth[0].Price != 50000 || depth[0].Volume != 25 || depth[0].Orders != 2 {
		t.Fatalf("unexpected first level: %+v", depth[0])
	}
	if depth[1].Price != 51000 || depth[1].Volume != 5 || depth[1].Orders != 1 {
		t.Fatalf("unexpected second level: %+v", depth[1])
	}
}

// TestConcurrentSameSideInsertsDontRace exercises Insert under -race from
// many goroutines at once, the same concurrency pattern a SideGate
// permits for same-side aggressors (spec.md §4.3: "insertion into the
// own book takes a write lock").
func TestConcurrentSameSideInsertsDontRace(t *testing.T) {
	book := New(domain.Buy)
	var wg sync.WaitGroup
	const n = 200
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			book.Insert(restingOrder(uint32(i+1), domain.Buy, uint32(40000+i%50), 10, uint64(i+1)))
		}(i)
	}
	wg.Wait()

	if book.Size() == 0 {
		t.Fatal("expected non-empty book after concurrent inserts")
	}
}
