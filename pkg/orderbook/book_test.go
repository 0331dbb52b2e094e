package orderbook

import (
	"container/heap"
	"testing"
)

func restingOrder(id uint64, side Side, qty, price int64) *Order {
	return newOrder(id, LimitRequest(side, qty, price))
}

func TestBookBestPriceOrdering(t *testing.T) {
	bids := NewPriceTimeBook(BUY)
	bids.Insert(restingOrder(1, BUY, 1, 99))
	bids.Insert(restingOrder(2, BUY, 1, 101))
	bids.Insert(restingOrder(3, BUY, 1, 100))

	if best := bids.PeekBest(); best == nil || best.ID != 2 {
		t.Fatalf("expected bid 2 at 101 on top, got %v", best)
	}

	asks := NewPriceTimeBook(SELL)
	asks.Insert(restingOrder(4, SELL, 1, 99))
	asks.Insert(restingOrder(5, SELL, 1, 101))
	asks.Insert(restingOrder(6, SELL, 1, 98))

	if best := asks.PeekBest(); best == nil || best.ID != 6 {
		t.Fatalf("expected ask 6 at 98 on top, got %v", best)
	}
}

func TestBookFIFOWithinLevel(t *testing.T) {
	b := NewPriceTimeBook(SELL)
	for id := uint64(1); id <= 3; id++ {
		b.Insert(restingOrder(id, SELL, 1, 100))
	}

	for want := uint64(1); want <= 3; want++ {
		got := b.PopBest()
		if got == nil || got.ID != want {
			t.Fatalf("expected order %d, got %v", want, got)
		}
	}
	if !b.IsEmpty() {
		t.Fatalf("book should be empty")
	}
}

func TestBookSkipsInactiveEntries(t *testing.T) {
	b := NewPriceTimeBook(BUY)
	stale := restingOrder(1, BUY, 5, 105)
	b.Insert(stale)
	b.Insert(restingOrder(2, BUY, 5, 100))
	stale.deactivate()

	if b.Len() != 2 {
		t.Fatalf("expected 2 physical entries, got %d", b.Len())
	}

	best := b.PeekBest()
	if best == nil || best.ID != 2 {
		t.Fatalf("expected order 2, got %v", best)
	}
	if b.Len() != 1 {
		t.Errorf("stale entry should have been discarded, len=%d", b.Len())
	}
	if b.prices.Contains(105) {
		t.Errorf("empty level 105 should have been dropped")
	}
}

func TestBookEmptyAfterAllInactive(t *testing.T) {
	b := NewPriceTimeBook(SELL)
	o1 := restingOrder(1, SELL, 1, 100)
	o2 := restingOrder(2, SELL, 1, 101)
	b.Insert(o1)
	b.Insert(o2)
	o1.deactivate()
	o2.deactivate()

	if !b.IsEmpty() {
		t.Fatalf("book with only inactive orders must report empty")
	}
	if b.PopBest() != nil {
		t.Fatalf("PopBest on empty book must return nil")
	}
	if b.Len() != 0 {
		t.Errorf("expected no entries left, got %d", b.Len())
	}
}

func TestBookWalkIsReadOnly(t *testing.T) {
	b := NewPriceTimeBook(BUY)
	dead := restingOrder(1, BUY, 2, 102)
	b.Insert(dead)
	b.Insert(restingOrder(2, BUY, 3, 100))
	b.Insert(restingOrder(3, BUY, 4, 101))
	b.Insert(restingOrder(4, BUY, 1, 100))
	dead.deactivate()

	var ids []uint64
	b.Walk(func(o *Order) bool {
		ids = append(ids, o.ID)
		return true
	})

	want := []uint64{3, 2, 4}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
	if b.Len() != 4 {
		t.Errorf("Walk must not remove entries, len=%d", b.Len())
	}

	var first []uint64
	b.Walk(func(o *Order) bool {
		first = append(first, o.ID)
		return false
	})
	if len(first) != 1 || first[0] != 3 {
		t.Errorf("Walk should stop when fn returns false, got %v", first)
	}
}

func TestPriceHeapDeduplicates(t *testing.T) {
	h := NewPriceHeap(func(i, j int64) bool { return i < j })
	for _, p := range []int64{5, 3, 5, 9, 3} {
		heap.Push(h, p)
	}

	if h.Len() != 3 {
		t.Fatalf("expected 3 distinct prices, got %d", h.Len())
	}
	sorted := h.Sorted()
	if sorted[0] != 3 || sorted[1] != 5 || sorted[2] != 9 {
		t.Fatalf("unexpected order %v", sorted)
	}
	if top, _ := h.Peek(); top != 3 {
		t.Fatalf("expected 3 on top, got %d", top)
	}

	heap.Pop(h)
	if h.Contains(3) {
		t.Errorf("popped price still indexed")
	}
	heap.Push(h, int64(3))
	if top, _ := h.Peek(); top != 3 {
		t.Errorf("re-pushed price should be on top, got %d", top)
	}
}
