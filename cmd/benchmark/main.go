package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"go.uber.org/zap"
)

const (
	minPrice = 100
	maxPrice = 200
	minQty   = 1
	maxQty   = 100
)

func randomRequest(r *rand.Rand) orderbook.OrderRequest {
	side := orderbook.BUY
	if r.Intn(2) == 0 {
		side = orderbook.SELL
	}
	qty := int64(r.Intn(maxQty-minQty+1) + minQty)

	if r.Intn(10) == 0 {
		return orderbook.MarketRequest(side, qty)
	}
	return orderbook.LimitRequest(side, qty, int64(r.Intn(maxPrice-minPrice+1)+minPrice))
}

func main() {
	var (
		numOrders  int
		workers    int
		cancelRate int
	)
	flag.IntVar(&numOrders, "orders", 1_000_000, "number of submits")
	flag.IntVar(&workers, "workers", 4, "concurrent submitters")
	flag.IntVar(&cancelRate, "cancel-every", 5, "cancel the previous order every n submits, 0 disables")
	flag.Parse()

	logger := logging.NewLogger(logging.WARN)
	defer logger.Sync()

	ctx := context.Background()
	proc := orderbook.NewProcessor(orderbook.ProcessorConfig{Symbol: "ABC", QueueSize: 65536}, nil, logger)

	var (
		mu           sync.Mutex
		totalMatched int
		totalQty     int64
	)
	proc.OnResult(func(ev orderbook.Event) {
		if ev.Result == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		for _, t := range ev.Result.Trades {
			totalMatched++
			totalQty += t.Qty
			if totalMatched <= 5 {
				fmt.Printf("Match: BUY[%d] <=> SELL[%d] @ %d Qty %d\n", t.BuyOrderID, t.SellOrderID, t.Price, t.Qty)
			}
		}
	})
	proc.Start(ctx)

	var (
		wg       sync.WaitGroup
		rejected int64
		rejMu    sync.Mutex
	)
	perWorker := numOrders / workers

	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))

			var last uint64
			for i := 0; i < perWorker; i++ {
				res, err := proc.Submit(ctx, randomRequest(r))
				if err != nil {
					logger.Error(ctx, "submit failed", zap.Error(err))
					continue
				}
				if cancelRate > 0 && i%cancelRate == 0 && last != 0 {
					if err := proc.Cancel(ctx, last); err != nil {
						rejMu.Lock()
						rejected++
						rejMu.Unlock()
					}
				}
				last = res.OrderID
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()
	elapsed := time.Since(start)
	proc.Stop()

	fmt.Println("--------")
	fmt.Printf("Total Orders      : %d\n", perWorker*workers)
	fmt.Printf("Total Matches     : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty : %d\n", totalQty)
	fmt.Printf("Rejected Cancels  : %d\n", rejected)
	fmt.Printf("Time Taken        : %s\n", elapsed)
	fmt.Printf("Throughput        : %.0f orders/s\n", float64(perWorker*workers)/elapsed.Seconds())
}
