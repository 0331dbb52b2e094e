package marketdata

import (
	"time"

	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/price"
)

type TradeMessage struct {
	Symbol      string    `json:"symbol"`
	Seq         uint64    `json:"seq"`
	Price       string    `json:"price"`
	Qty         int64     `json:"qty"`
	BuyOrderID  uint64    `json:"buy_order_id"`
	SellOrderID uint64    `json:"sell_order_id"`
	Aggressor   string    `json:"aggressor"`
	Time        time.Time `json:"time"`
}

type EntryMessage struct {
	Price   string `json:"price"`
	Qty     int64  `json:"qty"`
	OrderID uint64 `json:"order_id"`
}

type BookMessage struct {
	Symbol string         `json:"symbol"`
	Bids   []EntryMessage `json:"bids"`
	Asks   []EntryMessage `json:"asks"`
	Time   time.Time      `json:"time"`
}

// Encoder turns engine events into wire messages with decimal prices.
type Encoder struct {
	tick price.TickSize
	now  func() time.Time
}

func NewEncoder(tick price.TickSize) *Encoder {
	return &Encoder{tick: tick, now: time.Now}
}

func (e *Encoder) Trades(ev orderbook.Event) []TradeMessage {
	if ev.Result == nil || len(ev.Result.Trades) == 0 {
		return nil
	}

	ts := e.now()
	out := make([]TradeMessage, 0, len(ev.Result.Trades))
	for _, t := range ev.Result.Trades {
		out = append(out, TradeMessage{
			Symbol:      ev.Symbol,
			Seq:         t.Seq,
			Price:       e.tick.Format(t.Price),
			Qty:         t.Qty,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Aggressor:   string(t.Aggressor),
			Time:        ts,
		})
	}
	return out
}

func (e *Encoder) Book(ev orderbook.Event) BookMessage {
	return BookMessage{
		Symbol: ev.Symbol,
		Bids:   e.entries(ev.Snapshot.Bids),
		Asks:   e.entries(ev.Snapshot.Asks),
		Time:   e.now(),
	}
}

func (e *Encoder) entries(in []orderbook.BookEntry) []EntryMessage {
	out := make([]EntryMessage, 0, len(in))
	for _, en := range in {
		out = append(out, EntryMessage{Price: e.tick.Format(en.Price), Qty: en.Qty, OrderID: en.OrderID})
	}
	return out
}
