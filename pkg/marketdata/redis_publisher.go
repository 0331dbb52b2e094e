package marketdata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client used here.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher keeps the latest book under ob:<symbol> and publishes each
// trade on trades:<symbol>.
type RedisPublisher struct {
	client redisClient
	enc    *Encoder
	ttl    time.Duration
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client redisClient, enc *Encoder, ttl time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, enc: enc, ttl: ttl}
}

func BookKey(symbol string) string { return "ob:" + symbol }

func TradeChannel(symbol string) string { return "trades:" + symbol }

func (p *RedisPublisher) Publish(ctx context.Context, ev orderbook.Event) error {
	for _, t := range p.enc.Trades(ev) {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if err := p.client.Publish(ctx, TradeChannel(ev.Symbol), b).Err(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(p.enc.Book(ev))
	if err != nil {
		return err
	}
	return p.client.Set(ctx, BookKey(ev.Symbol), b, p.ttl).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
