// Package engine implements the matching engine's per-symbol order book
// (§4.2/C3), the symbol→book registry and event dispatch (§4.3-4.4/C4,
// C5).
package engine

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"lobcore/internal/book"
	"lobcore/internal/common"
)

// Re-exported so callers of this package never need to import
// lobcore/internal/book or lobcore/internal/common directly for the
// common case.
type (
	Side        = common.Side
	OrderKind   = common.OrderKind
	Order       = common.Order
	MatchResult = common.MatchResult
	PriceLevel  = book.PriceLevel
)

const (
	Buy  = common.Buy
	Sell = common.Sell

	Limit  = common.Limit
	Market = common.Market
)

type location struct {
	side  common.Side
	price decimal.Decimal
}

// OrderBook holds the two side-indexed level collections for a single
// symbol, plus an id→location index giving O(1) Replace/Cancel lookup —
// the optimization §4.2 notes over a plain linear scan (§3/C3).
type OrderBook struct {
	Symbol string
	Bids   *book.Levels
	Asks   *book.Levels

	locations map[string]location
}

// NewOrderBook returns an empty book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		Symbol:    symbol,
		Bids:      book.NewBidLevels(),
		Asks:      book.NewAskLevels(),
		locations: make(map[string]location),
	}
}

func (b *OrderBook) sideLevels(side common.Side) *book.Levels {
	if side == common.Buy {
		return b.Bids
	}
	return b.Asks
}

func (b *OrderBook) oppositeLevels(side common.Side) *book.Levels {
	if side == common.Buy {
		return b.Asks
	}
	return b.Bids
}

// marketable reports whether best (the top of the opposite side) can
// cross with an incoming order of the given side, limit price, and kind
// (§4.2). Market orders are marketable against any non-empty opposite
// side; limit orders require the opposite price to cross.
func marketable(side common.Side, limit decimal.Decimal, kind common.OrderKind, best *book.PriceLevel) bool {
	if best == nil {
		return false
	}
	if kind == common.Market {
		return true
	}
	if side == common.Buy {
		return best.Price.LessThanOrEqual(limit)
	}
	return best.Price.GreaterThanOrEqual(limit)
}

// Match walks the opposite side in best-price-first order, consuming
// resting orders in time priority, continuing into subsequent levels
// while incoming still has quantity and the next best price remains
// marketable (§4.2 steps 1-4). This is the corrected multi-level sweep
// §9 calls for, in place of the source's known single-level-only bug.
func (b *OrderBook) Match(incoming *common.Order) (common.MatchResult, error) {
	opp := b.oppositeLevels(incoming.Side)
	acc := common.TradeAccumulator{}

	for incoming.Qty > 0 {
		best := opp.Best()
		if !marketable(incoming.Side, incoming.Price, incoming.Kind, best) {
			break
		}

		levelAcc, err := best.MatchAgainst(incoming)
		if err != nil {
			return common.MatchResult{}, err
		}
		for _, id := range levelAcc.MatchedOrderIDs {
			delete(b.locations, id)
		}
		acc.Merge(levelAcc)

		if best.Empty() {
			opp.Delete(best)
		}
	}

	return acc.Result(), nil
}

// AddResting finds the level with the matching side and price (creating
// it if absent) and appends order to it; the level's position in its
// side collection is determined solely by price (§4.2).
func (b *OrderBook) AddResting(order *common.Order) error {
	if order.Kind == common.Market {
		return common.NewError(common.InvariantViolation, "market orders cannot rest in the book")
	}
	level := b.sideLevels(order.Side).GetOrCreate(order.Price)
	if err := level.Add(order); err != nil {
		return err
	}
	b.locations[order.ID] = location{side: order.Side, price: order.Price}
	return nil
}

// RemoveByID locates the unique level containing id, removes the order,
// and removes the level if it became empty. Returns whether an order was
// actually removed (§4.2).
func (b *OrderBook) RemoveByID(id string) bool {
	loc, ok := b.locations[id]
	if !ok {
		return false
	}
	levels := b.sideLevels(loc.side)
	level := levels.Get(loc.price)
	if level == nil {
		log.Error().Str("order_id", id).Msg("id index pointed at a missing price level")
		delete(b.locations, id)
		return false
	}
	removed := level.Remove(id)
	if !removed {
		log.Error().Str("order_id", id).Msg("id index pointed at a level that did not contain it")
		delete(b.locations, id)
		return false
	}
	delete(b.locations, id)
	if level.Empty() {
		levels.Delete(level)
	}
	return true
}

// BestBid returns the best (highest-price) resting bid level, or nil.
func (b *OrderBook) BestBid() *book.PriceLevel { return b.Bids.Best() }

// BestAsk returns the best (lowest-price) resting ask level, or nil.
func (b *OrderBook) BestAsk() *book.PriceLevel { return b.Asks.Best() }

// Depth returns the number of resident price levels on side. Read-only
// introspection used by the metrics gauge and tests.
func (b *OrderBook) Depth(side common.Side) int { return b.sideLevels(side).Len() }
