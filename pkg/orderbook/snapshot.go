package orderbook

type BookEntry struct {
	Price   int64
	Qty     int64
	OrderID uint64
}

// BookSnapshot lists active resting orders, best first on each side.
type BookSnapshot struct {
	Bids []BookEntry
	Asks []BookEntry
}

type PriceLevel struct {
	Price  int64
	Qty    int64
	Orders int
}

// Depth aggregates resting quantity per price, best first.
type Depth struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

func entries(b *PriceTimeBook) []BookEntry {
	out := []BookEntry{}
	b.Walk(func(o *Order) bool {
		out = append(out, BookEntry{Price: o.Price, Qty: o.Qty, OrderID: o.ID})
		return true
	})
	return out
}

// levels folds best-first entries into at most n price levels; n <= 0 means all.
func levels(b *PriceTimeBook, n int) []PriceLevel {
	out := []PriceLevel{}
	b.Walk(func(o *Order) bool {
		last := len(out) - 1
		if last >= 0 && out[last].Price == o.Price {
			out[last].Qty += o.Qty
			out[last].Orders++
			return true
		}
		if n > 0 && len(out) == n {
			return false
		}
		out = append(out, PriceLevel{Price: o.Price, Qty: o.Qty, Orders: 1})
		return true
	})
	return out
}
