package marketdata

import (
	"context"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

type jsonProducer interface {
	PublishJSON(ctx context.Context, key string, v any, headers map[string]string) error
	Close() error
}

// KafkaPublisher writes one message per trade, keyed by symbol.
type KafkaPublisher struct {
	producer jsonProducer
	enc      *Encoder
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer jsonProducer, enc *Encoder) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, enc: enc}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev orderbook.Event) error {
	for _, t := range p.enc.Trades(ev) {
		if err := p.producer.PublishJSON(ctx, ev.Symbol, t, map[string]string{"type": "trade"}); err != nil {
			return err
		}
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
