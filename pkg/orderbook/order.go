package orderbook

import "fmt"

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

func (s Side) Valid() bool {
	return s == BUY || s == SELL
}

// Opposite returns the side an order of s matches against.
func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, s)
	}
	return side, nil
}

type OrderType string

const (
	LIMIT  OrderType = "LIMIT"
	MARKET OrderType = "MARKET"
)

func (t OrderType) Valid() bool {
	return t == LIMIT || t == MARKET
}

func ParseOrderType(s string) (OrderType, error) {
	typ := OrderType(s)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, s)
	}
	return typ, nil
}

type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusExpired         OrderStatus = "EXPIRED" // market residual discarded
)

// OrderRequest is what a caller submits. Price is nil for market orders.
type OrderRequest struct {
	Type  OrderType
	Side  Side
	Qty   int64
	Price *int64
}

// LimitRequest is a shorthand for a priced request.
func LimitRequest(side Side, qty, price int64) OrderRequest {
	return OrderRequest{Type: LIMIT, Side: side, Qty: qty, Price: &price}
}

func MarketRequest(side Side, qty int64) OrderRequest {
	return OrderRequest{Type: MARKET, Side: side, Qty: qty}
}

func (r OrderRequest) Validate() error {
	if !r.Side.Valid() {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, r.Side)
	}
	if r.Qty <= 0 {
		return fmt.Errorf("%w: quantity must be > 0, got %d", ErrInvalidOrder, r.Qty)
	}

	switch r.Type {
	case LIMIT:
		if r.Price == nil {
			return fmt.Errorf("%w: limit order requires a price", ErrInvalidOrder)
		}
		if *r.Price <= 0 {
			return fmt.Errorf("%w: limit price must be > 0, got %d", ErrInvalidOrder, *r.Price)
		}
	case MARKET:
		if r.Price != nil {
			return fmt.Errorf("%w: market order must not carry a price", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, r.Type)
	}

	return nil
}

type Order struct {
	ID        uint64
	Side      Side
	Type      OrderType
	Price     int64 // zero for MARKET
	Qty       int64 // remaining, decremented by fills
	OrigQty   int64
	FilledQty int64

	active   bool
	canceled bool
}

// newOrder builds an active order from a request that already passed Validate.
func newOrder(id uint64, r OrderRequest) *Order {
	o := &Order{
		ID:      id,
		Side:    r.Side,
		Type:    r.Type,
		Qty:     r.Qty,
		OrigQty: r.Qty,
		active:  true,
	}
	if r.Type == LIMIT {
		o.Price = *r.Price
	}
	return o
}

func (o *Order) Active() bool {
	return o.active
}

// Remaining is the quantity still able to trade.
func (o *Order) Remaining() int64 {
	if !o.active {
		return 0
	}
	return o.Qty
}

// CanceledQty is the quantity taken out of the market without trading: a
// canceled residual or a discarded market residual.
func (o *Order) CanceledQty() int64 {
	if o.active {
		return 0
	}
	return o.Qty
}

func (o *Order) Status() OrderStatus {
	switch {
	case o.active && o.FilledQty == 0:
		return StatusNew
	case o.active:
		return StatusPartiallyFilled
	case o.Qty == 0:
		return StatusFilled
	case o.canceled:
		return StatusCanceled
	default:
		return StatusExpired
	}
}

func (o *Order) fill(qty int64) {
	o.Qty -= qty
	o.FilledQty += qty
}

func (o *Order) deactivate() {
	o.active = false
}

// crosses reports whether o may trade against a resting order at price.
func (o *Order) crosses(price int64) bool {
	if o.Type == MARKET {
		return true
	}
	if o.Side == BUY {
		return price <= o.Price
	}
	return price >= o.Price
}

func (o *Order) String() string {
	if o.Type == MARKET {
		return fmt.Sprintf("Order(id=%d, %s %s, qty=%d, status=%s)", o.ID, o.Type, o.Side, o.Qty, o.Status())
	}
	return fmt.Sprintf("Order(id=%d, %s %s, qty=%d @ %d, status=%s)", o.ID, o.Type, o.Side, o.Qty, o.Price, o.Status())
}
