package marketdata

import (
	"context"
	"errors"
	"sync"

	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"go.uber.org/zap"
)

var errDispatcherClosed = errors.New("dispatcher closed")

// Publisher pushes engine events to an external market data channel.
type Publisher interface {
	Publish(ctx context.Context, ev orderbook.Event) error
	Close() error
}

// Fanout publishes every event to all publishers, joining their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev orderbook.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispatcher moves publishing off the matching goroutine. Events are
// published one at a time in the order they were accepted.
type Dispatcher struct {
	pub    Publisher
	logger *logging.Logger
	events chan orderbook.Event
	done   chan struct{}

	runOnce sync.Once
}

func NewDispatcher(pub Publisher, queueSize int, logger *logging.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		pub:    pub,
		logger: logger,
		events: make(chan orderbook.Event, queueSize),
		done:   make(chan struct{}),
	}
}

// Listener is meant for Processor.OnResult. It must not be called after Close.
func (d *Dispatcher) Listener() func(orderbook.Event) {
	return func(ev orderbook.Event) {
		d.events <- ev
	}
}

// Run publishes until Close is called, then flushes what is queued. Only the
// first call runs; Run after Close returns at once.
func (d *Dispatcher) Run(ctx context.Context) {
	d.runOnce.Do(func() { d.loop(ctx) })
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer close(d.done)

	for ev := range d.events {
		reqCtx := logging.EnsureRequestID(ctx)
		if err := d.pub.Publish(reqCtx, ev); err != nil {
			d.logger.Error(reqCtx, "publish market data failed",
				zap.String("symbol", ev.Symbol),
				zap.Uint64("order_id", ev.OrderID),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting events, waits for Run to flush and closes the publisher.
func (d *Dispatcher) Close() error {
	select {
	case <-d.done:
		return errDispatcherClosed
	default:
	}
	close(d.events)
	// Run never started: flush here
	d.runOnce.Do(func() { d.loop(context.Background()) })
	<-d.done
	return d.pub.Close()
}
