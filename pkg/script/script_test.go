package script

import (
	"context"
	"errors"
	"testing"

	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/price"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startProcessor(t *testing.T) *orderbook.Processor {
	t.Helper()
	proc := orderbook.NewProcessor(orderbook.ProcessorConfig{Symbol: "ABC"}, orderbook.NewEngine(), nil)
	proc.Start(context.Background())
	t.Cleanup(proc.Stop)
	return proc
}

func TestDemoScript(t *testing.T) {
	proc := startProcessor(t)
	ctx := context.Background()

	var seen int
	outcomes, err := Run(ctx, proc, Demo(), price.Default, func(Outcome) { seen++ })
	require.NoError(t, err)
	require.Len(t, outcomes, 6)
	assert.Equal(t, 6, seen)

	for _, out := range outcomes {
		assert.NoError(t, out.Err, out.Step.String())
	}
	assert.Nil(t, outcomes[3].Result)
	assert.Equal(t, "cancel 2", outcomes[3].Step.String())
	assert.Equal(t, "submit MARKET SELL 7", outcomes[5].Step.String())
	assert.Len(t, outcomes[5].Result.Trades, 2)

	snap, err := proc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []orderbook.BookEntry{{Price: 100, Qty: 4, OrderID: 1}}, snap.Bids)
	assert.Empty(t, snap.Asks)

	trades, err := proc.TradeHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, trades, 3)
}

func TestRunRecordsRejections(t *testing.T) {
	proc := startProcessor(t)

	s, err := Parse([]byte(`
steps:
  - submit: {type: LIMIT, side: BUY, qty: 1}
  - submit: {type: STOP, side: BUY, qty: 1, price: "10"}
  - cancel: 42
  - submit: {type: LIMIT, side: BUY, qty: 1, price: "10"}
`))
	require.NoError(t, err)

	outcomes, err := Run(context.Background(), proc, s, price.Default, nil)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.ErrorIs(t, outcomes[0].Err, orderbook.ErrInvalidOrder)
	assert.ErrorIs(t, outcomes[1].Err, orderbook.ErrInvalidOrder)
	assert.ErrorIs(t, outcomes[2].Err, orderbook.ErrOrderNotFound)
	require.NoError(t, outcomes[3].Err)
	// rejected submits consume no id
	assert.Equal(t, uint64(1), outcomes[3].Result.OrderID)
}

func TestSubmitStepOffTickPrice(t *testing.T) {
	tick, err := price.NewTickSize("0.5")
	require.NoError(t, err)

	step := SubmitStep{Type: "LIMIT", Side: "SELL", Qty: 3, Price: "100.25"}
	_, err = step.Request(tick)
	assert.ErrorIs(t, err, orderbook.ErrInvalidOrder)

	step.Price = "100.5"
	req, err := step.Request(tick)
	require.NoError(t, err)
	require.NotNil(t, req.Price)
	assert.Equal(t, int64(201), *req.Price)
}

func TestParseRejectsAmbiguousStep(t *testing.T) {
	_, err := Parse([]byte("steps:\n  - {}\n"))
	assert.True(t, errors.Is(err, errInvalidStep))

	_, err = Parse([]byte("steps:\n  - submit: {type: MARKET, side: BUY, qty: 1}\n    cancel: 1\n"))
	assert.ErrorIs(t, err, errInvalidStep)
}

func TestRunStopsOnStoppedProcessor(t *testing.T) {
	proc := orderbook.NewProcessor(orderbook.ProcessorConfig{Symbol: "ABC"}, nil, nil)
	proc.Stop()

	outcomes, err := Run(context.Background(), proc, Demo(), price.Default, nil)
	assert.ErrorIs(t, err, orderbook.ErrProcessorStopped)
	assert.Empty(t, outcomes)
}

func TestSubmitStepValidation(t *testing.T) {
	cases := []SubmitStep{
		{Type: "", Side: "BUY", Qty: 1, Price: "1"},
		{Type: "LIMIT", Side: "buy", Qty: 1, Price: "1"},
		{Type: "LIMIT", Side: "BUY", Qty: 0, Price: "1"},
		{Type: "LIMIT", Side: "BUY", Qty: 1, Price: "ten"},
	}
	for _, c := range cases {
		_, err := c.Request(price.Default)
		assert.ErrorIs(t, err, orderbook.ErrInvalidOrder, "%+v", c)
	}

	req, err := (&SubmitStep{Type: "MARKET", Side: "SELL", Qty: 4}).Request(price.Default)
	require.NoError(t, err)
	assert.Nil(t, req.Price)
	assert.Equal(t, orderbook.MARKET, req.Type)
}

func TestSubmitStepOversizedPrice(t *testing.T) {
	step := SubmitStep{Type: "LIMIT", Side: "BUY", Qty: 1, Price: "18446744073709551617"}
	_, err := step.Request(price.Default)
	assert.ErrorIs(t, err, orderbook.ErrInvalidOrder)
	assert.True(t, price.IsOutOfRange(err))
}
