package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/joripage/matching-engine/config"
	nats_wrapper "github.com/joripage/matching-engine/pkg/infra/nats"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	kafkawrapper "github.com/joripage/matching-engine/pkg/kafka_wrapper"
	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/marketdata"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/price"
	"github.com/joripage/matching-engine/pkg/render"
	"github.com/joripage/matching-engine/pkg/script"
	"go.uber.org/zap"
)

const depthLevels = 5

func main() {
	var configFile, scriptFile, envFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the config")
	flag.StringVar(&scriptFile, "script", "", "YAML script of submit/cancel steps; the built-in demo runs when empty")
	flag.Parse()

	// a missing env file is fine, variables may come from the shell
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	logger := logging.NewLogger(level).Named(cfg.ServiceName)
	defer logger.Sync()
	zap.ReplaceGlobals(logger.Zap())

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	tick, err := price.NewTickSize(cfg.Price.TickSize)
	if err != nil {
		zap.S().Errorf("invalid tick size: %v", err)
		panic(err)
	}

	steps := script.Demo()
	if scriptFile != "" {
		steps, err = script.Load(scriptFile)
		if err != nil {
			zap.S().Errorf("load script fail with err: %v", err)
			panic(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	engine := orderbook.NewEngine(
		orderbook.WithLogger(logger.Zap().Named("engine")),
		orderbook.WithIDGenerator(orderbook.NewIDGenerator(cfg.Engine.StartID)),
	)
	proc := orderbook.NewProcessor(orderbook.ProcessorConfig{
		Symbol:    cfg.Symbol,
		QueueSize: cfg.Engine.QueueSize,
	}, engine, logger.Named("processor"))

	publishers, err := initPublishers(cfg, tick)
	if err != nil {
		zap.S().Errorf("init market data fail with err: %v", err)
		panic(err)
	}

	var dispatcher *marketdata.Dispatcher
	if len(publishers) > 0 {
		dispatcher = marketdata.NewDispatcher(publishers, cfg.Engine.QueueSize, logger.Named("marketdata"))
		proc.OnResult(dispatcher.Listener())
		go dispatcher.Run(ctx)
	}

	proc.Start(ctx)
	logger.Info(ctx, "matching engine started", zap.String("symbol", cfg.Symbol), zap.Int("steps", len(steps.Steps)))

	var lastSeq uint64
	_, err = script.Run(ctx, proc, steps, tick, func(out script.Outcome) {
		lastSeq = printOutcome(ctx, proc, out, tick, lastSeq)
	})
	if err != nil {
		logger.Warn(ctx, "script aborted", zap.Error(err))
	}

	if trades, err := proc.TradeHistory(ctx); err == nil {
		_ = render.Trades(os.Stdout, trades, tick)
	}

	// processor first so no event reaches a closed dispatcher
	proc.Stop()
	if dispatcher != nil {
		if err := dispatcher.Close(); err != nil {
			logger.Error(ctx, "close market data publishers", zap.Error(err))
		}
	}

	logger.Info(ctx, "matching engine stopped")
}

// printOutcome prints one step, the trades it produced and the resulting
// book. It returns the last ledger sequence printed.
func printOutcome(ctx context.Context, proc *orderbook.Processor, out script.Outcome, tick price.TickSize, lastSeq uint64) uint64 {
	fmt.Printf("Step %d: %s\n", out.Index, out.Step)
	switch {
	case out.Err != nil:
		fmt.Printf("  rejected: %v\n", out.Err)
	case out.Result != nil:
		fmt.Printf("  order %d, %d trade(s), resting=%t\n", out.Result.OrderID, len(out.Result.Trades), out.Result.Resting)
	default:
		fmt.Println("  canceled")
	}

	trades, err := proc.TradesSince(ctx, lastSeq)
	if err != nil {
		return lastSeq
	}
	for _, t := range trades {
		fmt.Printf("  TRADE %d @ %s (Buy ID: %d | Sell ID: %d)\n", t.Qty, tick.Format(t.Price), t.BuyOrderID, t.SellOrderID)
		lastSeq = t.Seq
	}

	if snap, err := proc.Snapshot(ctx); err == nil {
		_ = render.Book(os.Stdout, snap, tick)
	}
	if q, err := proc.Quote(ctx); err == nil {
		_ = render.Quote(os.Stdout, q, tick)
	}
	if d, err := proc.Depth(ctx, depthLevels); err == nil {
		_ = render.Depth(os.Stdout, d, tick)
	}
	return lastSeq
}

func initPublishers(cfg *config.AppConfig, tick price.TickSize) (marketdata.Fanout, error) {
	enc := marketdata.NewEncoder(tick)
	var out marketdata.Fanout

	if cfg.Redis != nil {
		client, err := redis_wrapper.InitRedisWithBackoff(cfg.Redis)
		if err != nil {
			return nil, err
		}
		out = append(out, marketdata.NewRedisPublisher(client, enc, cfg.Redis.SnapshotTTL()))
	}

	if cfg.Kafka != nil {
		out = append(out, marketdata.NewKafkaPublisher(kafkawrapper.NewProducer(*cfg.Kafka), enc))
	}

	if cfg.Nats != nil {
		nc, err := nats_wrapper.ConnectWithBackoff(cfg.Nats)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out = append(out, marketdata.NewNatsPublisher(nc, enc, cfg.Nats.SubjectPrefix))
	}

	return out, nil
}
