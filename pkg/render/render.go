// Package render prints book snapshots and trade history for humans.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/price"
)

const separator = "------------------------------"

// Book writes asks then bids, each best first.
func Book(w io.Writer, snap orderbook.BookSnapshot, tick price.TickSize) error {
	var sb strings.Builder
	sb.WriteString("Order Book:\n")
	sb.WriteString("Sell Orders:\n")
	for _, e := range snap.Asks {
		fmt.Fprintf(&sb, "  %d @ %s (ID: %d)\n", e.Qty, tick.Format(e.Price), e.OrderID)
	}
	sb.WriteString("Buy Orders:\n")
	for _, e := range snap.Bids {
		fmt.Fprintf(&sb, "  %d @ %s (ID: %d)\n", e.Qty, tick.Format(e.Price), e.OrderID)
	}
	sb.WriteString(separator + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func Trades(w io.Writer, trades []orderbook.Trade, tick price.TickSize) error {
	var sb strings.Builder
	sb.WriteString("Trade History:\n")
	for _, t := range trades {
		fmt.Fprintf(&sb, "  %d @ %s (Buy ID: %d | Sell ID: %d)\n", t.Qty, tick.Format(t.Price), t.BuyOrderID, t.SellOrderID)
	}
	sb.WriteString(separator + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Depth writes aggregated levels, asks then bids, best first.
func Depth(w io.Writer, d orderbook.Depth, tick price.TickSize) error {
	var sb strings.Builder
	sb.WriteString("Depth:\n")
	for _, l := range d.Asks {
		fmt.Fprintf(&sb, "  ASK %s x %d (%d orders)\n", tick.Format(l.Price), l.Qty, l.Orders)
	}
	for _, l := range d.Bids {
		fmt.Fprintf(&sb, "  BID %s x %d (%d orders)\n", tick.Format(l.Price), l.Qty, l.Orders)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func Quote(w io.Writer, q orderbook.Quote, tick price.TickSize) error {
	bid, ask := "-", "-"
	if q.HasBid {
		bid = fmt.Sprintf("%d @ %s", q.Bid.Qty, tick.Format(q.Bid.Price))
	}
	if q.HasAsk {
		ask = fmt.Sprintf("%d @ %s", q.Ask.Qty, tick.Format(q.Ask.Price))
	}

	_, err := fmt.Fprintf(w, "Best Bid: %s | Best Ask: %s\n", bid, ask)
	return err
}
