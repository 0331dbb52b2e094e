package orderbook

// TradeLedger is the append-only history of trades in execution order.
type TradeLedger struct {
	trades []Trade
}

func NewTradeLedger() *TradeLedger {
	return &TradeLedger{}
}

// Record appends t, stamping it with the next ledger sequence.
func (l *TradeLedger) Record(t Trade) Trade {
	t.Seq = uint64(len(l.trades)) + 1
	l.trades = append(l.trades, t)
	return t
}

func (l *TradeLedger) Len() int {
	return len(l.trades)
}

// All returns a copy of every recorded trade.
func (l *TradeLedger) All() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Since returns the trades recorded after seq.
func (l *TradeLedger) Since(seq uint64) []Trade {
	if seq >= uint64(len(l.trades)) {
		return nil
	}
	out := make([]Trade, len(l.trades)-int(seq))
	copy(out, l.trades[seq:])
	return out
}
