package orderbook

import "testing"

func TestTradeLedger(t *testing.T) {
	l := NewTradeLedger()

	first := l.Record(Trade{Price: 100, Qty: 1, BuyOrderID: 2, SellOrderID: 1})
	second := l.Record(Trade{Price: 101, Qty: 2, BuyOrderID: 3, SellOrderID: 1})

	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("unexpected sequence numbers %d, %d", first.Seq, second.Seq)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 trades, got %d", l.Len())
	}

	all := l.All()
	all[0].Qty = 999
	if l.All()[0].Qty != 1 {
		t.Errorf("All must return a copy")
	}

	since := l.Since(1)
	if len(since) != 1 || since[0].Seq != 2 {
		t.Errorf("unexpected Since(1): %+v", since)
	}
	if l.Since(2) != nil || l.Since(10) != nil {
		t.Errorf("Since past the end should be empty")
	}
	if len(l.Since(0)) != 2 {
		t.Errorf("Since(0) should return everything")
	}
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator(41)
	if g.Current() != 41 {
		t.Fatalf("expected current 41, got %d", g.Current())
	}
	if id := g.Next(); id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}
	if id := g.Next(); id != 43 {
		t.Fatalf("expected 43, got %d", id)
	}

	e1 := NewEngine()
	e2 := NewEngine()
	r1 := mustSubmit(t, e1, LimitRequest(BUY, 1, 10))
	r2 := mustSubmit(t, e2, LimitRequest(BUY, 1, 10))
	if r1.OrderID != 1 || r2.OrderID != 1 {
		t.Errorf("engines must not share an id counter: %d, %d", r1.OrderID, r2.OrderID)
	}
}
