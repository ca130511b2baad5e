// Package bench drives a synthetic order flow directly against
// engine.ProcessEvent — no persistence, no network, no transport in the
// loop — for throughput measurement. Grounded on lightsgoout-go-quantcup's
// GenerateRandomOrder (types.go) and its fixed cancelChance/randomSeed
// knobs (db.go), with the Postgres COPY ingestion it feeds dropped
// entirely (out of scope per spec.md §1).
package bench

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"lobcore/internal/common"
)

const maxPrice = 10000

// Generator produces a reproducible stream of synthetic New/Cancel
// events for one symbol, remembering ids it has emitted so it can
// generate plausible cancels of its own prior orders.
type Generator struct {
	symbol       string
	rng          *rand.Rand
	cancelChance float64
	resting      []string
	nextID       uint64
}

// NewGenerator returns a Generator seeded for reproducible runs.
func NewGenerator(symbol string, seed int64, cancelChance float64) *Generator {
	return &Generator{
		symbol:       symbol,
		rng:          rand.New(rand.NewSource(seed)),
		cancelChance: cancelChance,
	}
}

// Next returns the next synthetic event: a cancel of a previously
// generated resting order with probability cancelChance (isCancel
// true), otherwise a fresh New limit order at a random price and side.
func (g *Generator) Next() (order common.Order, isCancel bool) {
	if len(g.resting) > 0 && g.rng.Float64() < g.cancelChance {
		idx := g.rng.Intn(len(g.resting))
		id := g.resting[idx]
		g.resting = append(g.resting[:idx], g.resting[idx+1:]...)
		return common.Order{ID: id, Symbol: g.symbol}, true
	}

	g.nextID++
	side := common.Buy
	if g.rng.Intn(2) == 1 {
		side = common.Sell
	}

	order := common.Order{
		ID:     newSyntheticID(g.nextID),
		Symbol: g.symbol,
		Side:   side,
		Kind:   common.Limit,
		Price:  decimal.New(int64(g.rng.Intn(maxPrice-1)+1), -2),
		Qty:    uint64(g.rng.Intn(1000) + 1),
	}
	common.Stamp(&order)
	g.resting = append(g.resting, order.ID)
	return order, false
}

func newSyntheticID(n uint64) string {
	const alphabet = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = alphabet[n%16]
		n /= 16
	}
	return "bench-" + string(buf)
}
