// file: pkg/orderbook/orderbook.go

package orderbook

import (
	"fmt"

	"go.uber.org/zap"
)

// Engine matches orders for one instrument under price-time priority.
//
// Engine is single-writer: it must not be used from more than one goroutine
// at a time. Processor wraps it with a command loop for concurrent callers.
type Engine struct {
	bids *PriceTimeBook
	asks *PriceTimeBook

	orders map[uint64]*Order
	ledger *TradeLedger
	ids    *IDGenerator

	logger *zap.Logger
}

type EngineOption func(*Engine)

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator injects the id source, e.g. to resume numbering.
func WithIDGenerator(ids *IDGenerator) EngineOption {
	return func(e *Engine) {
		if ids != nil {
			e.ids = ids
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		bids:   NewPriceTimeBook(BUY),
		asks:   NewPriceTimeBook(SELL),
		orders: make(map[uint64]*Order),
		ledger: NewTradeLedger(),
		ids:    NewIDGenerator(0),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type SubmitResult struct {
	OrderID   uint64
	Trades    []Trade
	Resting   bool
	Remaining int64
}

// SubmitOrder registers and matches a new order. An invalid request returns
// ErrInvalidOrder and leaves the engine untouched.
func (e *Engine) SubmitOrder(req OrderRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		e.logger.Debug("reject order", zap.Error(err))
		return nil, err
	}

	order := newOrder(e.ids.Next(), req)
	e.orders[order.ID] = order

	var trades []Trade
	switch order.Type {
	case MARKET:
		trades = e.executeMarket(order)
	case LIMIT:
		trades = e.executeLimit(order)
	}

	res := &SubmitResult{
		OrderID:   order.ID,
		Trades:    trades,
		Resting:   order.Active(),
		Remaining: order.Qty,
	}

	e.logger.Debug("order processed",
		zap.Uint64("order_id", order.ID),
		zap.String("side", string(order.Side)),
		zap.String("type", string(order.Type)),
		zap.Int("trades", len(trades)),
		zap.Bool("resting", res.Resting),
	)

	return res, nil
}

// executeMarket never rests: residual left after the opposite side runs dry
// is dropped.
func (e *Engine) executeMarket(order *Order) []Trade {
	trades := e.matchOrder(order, e.counterBook(order.Side))
	order.deactivate()
	return trades
}

func (e *Engine) executeLimit(order *Order) []Trade {
	trades := e.matchOrder(order, e.counterBook(order.Side))

	if order.Qty == 0 {
		order.deactivate()
		return trades
	}

	if order.Active() {
		e.sideBook(order.Side).Insert(order)
	}
	return trades
}

func (e *Engine) matchOrder(order *Order, counterBook *PriceTimeBook) []Trade {
	var trades []Trade

	for order.Qty > 0 {
		best := counterBook.PeekBest()
		if best == nil || !order.crosses(best.Price) {
			break
		}

		matchQty := min(order.Qty, best.Qty)
		order.fill(matchQty)
		best.fill(matchQty)

		trades = append(trades, e.ledger.Record(newTrade(order, best, matchQty)))

		if best.Qty == 0 {
			best.deactivate()
			counterBook.PopBest()
		}
	}

	return trades
}

// CancelOrder deactivates a resting limit order. The entry leaves its book
// the next time matching reaches it.
func (e *Engine) CancelOrder(id uint64) error {
	order, ok := e.orders[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrOrderNotFound, id)
	}
	if !order.Active() || order.Type == MARKET {
		e.logger.Debug("reject cancel", zap.Uint64("order_id", id), zap.String("status", string(order.Status())))
		return fmt.Errorf("%w: id=%d type=%s status=%s", ErrOrderNotCancelable, id, order.Type, order.Status())
	}

	order.canceled = true
	order.deactivate()
	return nil
}

// Order returns a copy of the registered order with the given id.
func (e *Engine) Order(id uint64) (Order, bool) {
	order, ok := e.orders[id]
	if !ok {
		return Order{}, false
	}
	return *order, true
}

func (e *Engine) Snapshot() BookSnapshot {
	return BookSnapshot{
		Bids: entries(e.bids),
		Asks: entries(e.asks),
	}
}

func (e *Engine) Depth(n int) Depth {
	return Depth{
		Bids: levels(e.bids, n),
		Asks: levels(e.asks, n),
	}
}

func (e *Engine) BestBid() (BookEntry, bool) {
	return best(e.bids)
}

func (e *Engine) BestAsk() (BookEntry, bool) {
	return best(e.asks)
}

func (e *Engine) TradeHistory() []Trade {
	return e.ledger.All()
}

func (e *Engine) TradesSince(seq uint64) []Trade {
	return e.ledger.Since(seq)
}

func (e *Engine) sideBook(side Side) *PriceTimeBook {
	if side == BUY {
		return e.bids
	}
	return e.asks
}

func (e *Engine) counterBook(side Side) *PriceTimeBook {
	return e.sideBook(side.Opposite())
}

func best(b *PriceTimeBook) (BookEntry, bool) {
	o := b.PeekBest()
	if o == nil {
		return BookEntry{}, false
	}
	return BookEntry{Price: o.Price, Qty: o.Qty, OrderID: o.ID}, true
}
