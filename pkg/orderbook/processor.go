package orderbook

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/joripage/matching-engine/pkg/logging"
	"go.uber.org/zap"
)

const defaultQueueSize = 1024

type ProcessorConfig struct {
	Symbol    string
	QueueSize int
}

type EventKind string

const (
	EventSubmit EventKind = "SUBMIT"
	EventCancel EventKind = "CANCEL"
)

// Event is handed to listeners after every accepted submit or cancel.
type Event struct {
	Symbol   string
	Kind     EventKind
	OrderID  uint64
	Result   *SubmitResult // nil for cancels
	Snapshot BookSnapshot
}

type commandType int

const (
	cmdSubmit commandType = iota
	cmdCancel
	cmdSnapshot
	cmdHistory
	cmdOrder
	cmdDepth
	cmdQuote
	cmdTradesSince
)

// command states; whoever moves a command out of pending owns its outcome
const (
	statePending int32 = iota
	stateRunning
	stateAbandoned
)

type command struct {
	typ   commandType
	req   OrderRequest
	id    uint64
	n     int
	ctx   context.Context
	resp  chan response
	state atomic.Int32
}

// Quote is the top of both books.
type Quote struct {
	Bid    BookEntry
	Ask    BookEntry
	HasBid bool
	HasAsk bool
}

type response struct {
	result   *SubmitResult
	snapshot BookSnapshot
	trades   []Trade
	order    Order
	found    bool
	depth    Depth
	quote    Quote
	err      error
}

// Processor is the single matching authority for one instrument. One
// goroutine owns the Engine and applies commands in arrival order, so a
// cancel queued before a submit is always visible to that submit.
type Processor struct {
	cfg    ProcessorConfig
	engine *Engine
	logger *logging.Logger

	cmds chan *command
	quit chan struct{}
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	mu        sync.RWMutex
	listeners []func(Event)
}

func NewProcessor(cfg ProcessorConfig, engine *Engine, logger *logging.Logger) *Processor {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if engine == nil {
		engine = NewEngine()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Processor{
		cfg:    cfg,
		engine: engine,
		logger: logger.With(zap.String("symbol", cfg.Symbol)),
		cmds:   make(chan *command, cfg.QueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (p *Processor) Symbol() string {
	return p.cfg.Symbol
}

// OnResult registers fn to run on the processor goroutine after each accepted
// command. fn must not call back into the processor.
func (p *Processor) OnResult(fn func(Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Processor) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

// Stop answers every queued command, then stops the loop.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.startOnce.Do(func() { close(p.done) })
	<-p.done
}

func (p *Processor) Submit(ctx context.Context, req OrderRequest) (*SubmitResult, error) {
	resp, err := p.do(ctx, &command{typ: cmdSubmit, req: req})
	if err != nil {
		return nil, err
	}
	return resp.result, resp.err
}

func (p *Processor) Cancel(ctx context.Context, id uint64) error {
	resp, err := p.do(ctx, &command{typ: cmdCancel, id: id})
	if err != nil {
		return err
	}
	return resp.err
}

func (p *Processor) Snapshot(ctx context.Context) (BookSnapshot, error) {
	resp, err := p.do(ctx, &command{typ: cmdSnapshot})
	return resp.snapshot, err
}

func (p *Processor) TradeHistory(ctx context.Context) ([]Trade, error) {
	resp, err := p.do(ctx, &command{typ: cmdHistory})
	return resp.trades, err
}

func (p *Processor) Order(ctx context.Context, id uint64) (Order, bool, error) {
	resp, err := p.do(ctx, &command{typ: cmdOrder, id: id})
	return resp.order, resp.found, err
}

func (p *Processor) Depth(ctx context.Context, levels int) (Depth, error) {
	resp, err := p.do(ctx, &command{typ: cmdDepth, n: levels})
	return resp.depth, err
}

func (p *Processor) Quote(ctx context.Context) (Quote, error) {
	resp, err := p.do(ctx, &command{typ: cmdQuote})
	return resp.quote, err
}

// TradesSince returns the trades recorded after ledger sequence seq.
func (p *Processor) TradesSince(ctx context.Context, seq uint64) ([]Trade, error) {
	resp, err := p.do(ctx, &command{typ: cmdTradesSince, id: seq})
	return resp.trades, err
}

// do queues cmd and waits for its answer. A caller whose ctx ends first gets
// ctx.Err() only if the command had not started; otherwise it waits, so the
// reply always matches what the engine did.
func (p *Processor) do(ctx context.Context, cmd *command) (response, error) {
	cmd.ctx = logging.EnsureRequestID(ctx)
	cmd.resp = make(chan response, 1)

	select {
	case <-p.quit:
		return response{}, ErrProcessorStopped
	default:
	}

	select {
	case p.cmds <- cmd:
	case <-p.done:
		return response{}, ErrProcessorStopped
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case resp := <-cmd.resp:
		return resp, nil
	case <-p.done:
		return p.await(cmd)
	case <-ctx.Done():
		if cmd.state.CompareAndSwap(statePending, stateAbandoned) {
			return response{}, ctx.Err()
		}
		return p.await(cmd)
	}
}

// await collects the answer of a command the loop has already claimed.
func (p *Processor) await(cmd *command) (response, error) {
	select {
	case resp := <-cmd.resp:
		return resp, nil
	case <-p.done:
		select {
		case resp := <-cmd.resp:
			return resp, nil
		default:
			return response{}, ErrProcessorStopped
		}
	}
}

func (p *Processor) run(ctx context.Context) {
	defer close(p.done)

	p.logger.Info(ctx, "processor started")
	for {
		select {
		case cmd := <-p.cmds:
			p.handle(cmd)
		case <-p.quit:
			p.drain()
			p.logger.Info(ctx, "processor stopped")
			return
		case <-ctx.Done():
			p.drain()
			p.logger.Info(ctx, "processor stopped", zap.Error(ctx.Err()))
			return
		}
	}
}

func (p *Processor) drain() {
	for {
		select {
		case cmd := <-p.cmds:
			p.handle(cmd)
		default:
			return
		}
	}
}

func (p *Processor) handle(cmd *command) {
	if !cmd.state.CompareAndSwap(statePending, stateRunning) {
		return
	}

	var resp response
	if err := cmd.ctx.Err(); err != nil {
		resp.err = err
		cmd.resp <- resp
		return
	}

	switch cmd.typ {
	case cmdSubmit:
		resp.result, resp.err = p.engine.SubmitOrder(cmd.req)
		if resp.err != nil {
			p.logger.Warn(cmd.ctx, "submit rejected", zap.Error(resp.err))
			break
		}
		p.logger.Debug(cmd.ctx, "submit accepted",
			zap.Uint64("order_id", resp.result.OrderID),
			zap.Int("trades", len(resp.result.Trades)),
			zap.Bool("resting", resp.result.Resting),
		)
		p.notify(Event{Kind: EventSubmit, OrderID: resp.result.OrderID, Result: resp.result})
	case cmdCancel:
		resp.err = p.engine.CancelOrder(cmd.id)
		if resp.err != nil {
			p.logger.Warn(cmd.ctx, "cancel rejected", zap.Uint64("order_id", cmd.id), zap.Error(resp.err))
			break
		}
		p.logger.Debug(cmd.ctx, "cancel accepted", zap.Uint64("order_id", cmd.id))
		p.notify(Event{Kind: EventCancel, OrderID: cmd.id})
	case cmdSnapshot:
		resp.snapshot = p.engine.Snapshot()
	case cmdHistory:
		resp.trades = p.engine.TradeHistory()
	case cmdOrder:
		resp.order, resp.found = p.engine.Order(cmd.id)
	case cmdDepth:
		resp.depth = p.engine.Depth(cmd.n)
	case cmdQuote:
		resp.quote.Bid, resp.quote.HasBid = p.engine.BestBid()
		resp.quote.Ask, resp.quote.HasAsk = p.engine.BestAsk()
	case cmdTradesSince:
		resp.trades = p.engine.TradesSince(cmd.id)
	}

	cmd.resp <- resp
}

func (p *Processor) notify(ev Event) {
	p.mu.RLock()
	listeners := p.listeners
	p.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}

	ev.Symbol = p.cfg.Symbol
	ev.Snapshot = p.engine.Snapshot()
	for _, fn := range listeners {
		fn(ev)
	}
}
