package marketdata

import (
	"context"
	"encoding/json"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

const defaultSubjectPrefix = "TRADES"

// natsConn is the subset of *nats.Conn used here.
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NatsPublisher publishes trades on <prefix>.<symbol>.
type NatsPublisher struct {
	conn   natsConn
	enc    *Encoder
	prefix string
}

var _ Publisher = (*NatsPublisher)(nil)

func NewNatsPublisher(conn natsConn, enc *Encoder, prefix string) *NatsPublisher {
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	return &NatsPublisher{conn: conn, enc: enc, prefix: prefix}
}

func (p *NatsPublisher) Subject(symbol string) string {
	return p.prefix + "." + symbol
}

func (p *NatsPublisher) Publish(_ context.Context, ev orderbook.Event) error {
	for _, t := range p.enc.Trades(ev) {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if err := p.conn.Publish(p.Subject(ev.Symbol), b); err != nil {
			return err
		}
	}
	return nil
}

func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}
