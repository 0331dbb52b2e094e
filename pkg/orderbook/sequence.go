package orderbook

import "sync/atomic"

// IDGenerator hands out strictly increasing order ids. Each engine owns one,
// so independent instruments never share a counter.
type IDGenerator struct {
	next atomic.Uint64
}

// NewIDGenerator starts issuing at start+1.
func NewIDGenerator(start uint64) *IDGenerator {
	g := &IDGenerator{}
	g.next.Store(start)
	return g
}

func (g *IDGenerator) Next() uint64 {
	return g.next.Add(1)
}

// Current returns the last issued id.
func (g *IDGenerator) Current() uint64 {
	return g.next.Load()
}
