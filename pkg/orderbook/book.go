package orderbook

import (
	"container/heap"

	"github.com/gammazero/deque"
)

// PriceTimeBook holds the resting orders of one side, best price first and
// FIFO within a price. Entries are removed lazily: a canceled or filled order
// stays queued until it reaches the front of the book.
type PriceTimeBook struct {
	levels map[int64]*deque.Deque[*Order]
	prices *PriceHeap
	size   int
}

func NewPriceTimeBook(side Side) *PriceTimeBook {
	less := func(i, j int64) bool { return i < j } // Min-heap
	if side == BUY {
		less = func(i, j int64) bool { return i > j } // Max-heap
	}

	return &PriceTimeBook{
		levels: make(map[int64]*deque.Deque[*Order]),
		prices: NewPriceHeap(less),
	}
}

// Insert queues o behind every order already resting at its price. Callers
// insert in submission order, so FIFO within a level is ascending id.
func (b *PriceTimeBook) Insert(o *Order) {
	q := b.levels[o.Price]
	if q == nil {
		q = &deque.Deque[*Order]{}
		b.levels[o.Price] = q
		heap.Push(b.prices, o.Price)
	}
	q.PushBack(o)
	b.size++
}

// PeekBest returns the best active order, discarding stale entries ahead of
// it. It returns nil when no active order rests on this side.
func (b *PriceTimeBook) PeekBest() *Order {
	for {
		price, ok := b.prices.Peek()
		if !ok {
			return nil
		}

		q := b.levels[price]
		for q.Len() > 0 && !q.Front().Active() {
			q.PopFront()
			b.size--
		}

		if q.Len() == 0 {
			heap.Pop(b.prices)
			delete(b.levels, price)
			continue
		}

		return q.Front()
	}
}

func (b *PriceTimeBook) PopBest() *Order {
	best := b.PeekBest()
	if best == nil {
		return nil
	}

	q := b.levels[best.Price]
	q.PopFront()
	b.size--
	if q.Len() == 0 {
		heap.Pop(b.prices)
		delete(b.levels, best.Price)
	}
	return best
}

func (b *PriceTimeBook) IsEmpty() bool {
	return b.PeekBest() == nil
}

// Len counts physical entries, stale ones included.
func (b *PriceTimeBook) Len() int {
	return b.size
}

// Walk visits active entries best-first until fn returns false. It does not
// modify the book.
func (b *PriceTimeBook) Walk(fn func(o *Order) bool) {
	for _, price := range b.prices.Sorted() {
		q := b.levels[price]
		for i := 0; i < q.Len(); i++ {
			o := q.At(i)
			if !o.Active() || o.Qty == 0 {
				continue
			}
			if !fn(o) {
				return
			}
		}
	}
}
