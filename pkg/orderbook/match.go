package orderbook

// Trade is one fill between an incoming order and a resting order, priced at
// the resting order's price.
type Trade struct {
	Seq         uint64
	Price       int64
	Qty         int64
	BuyOrderID  uint64
	SellOrderID uint64
	Aggressor   Side // side of the incoming order
}

func newTrade(incoming, resting *Order, qty int64) Trade {
	t := Trade{
		Price:     resting.Price,
		Qty:       qty,
		Aggressor: incoming.Side,
	}
	if incoming.Side == BUY {
		t.BuyOrderID, t.SellOrderID = incoming.ID, resting.ID
	} else {
		t.BuyOrderID, t.SellOrderID = resting.ID, incoming.ID
	}
	return t
}
