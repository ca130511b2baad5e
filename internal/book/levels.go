package book

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"lobcore/internal/common"
)

// Levels is the price-ordered collection of PriceLevels for one side of
// one symbol's book. Iteration order is best-first: for bids, highest
// price first; for asks, lowest price first (§4.1). Two levels are
// equal iff their prices are equal, making each side a set keyed by
// price — the teacher's own btree.BTreeG[*PriceLevel] shape
// (saiputravu-Exchange/internal/engine/orderbook.go), generalized to an
// arbitrary symbol rather than one preregistered asset.
type Levels struct {
	side common.Side
	tree *btree.BTreeG[*PriceLevel]
}

// NewBidLevels returns a Levels collection ordered highest-price-first.
func NewBidLevels() *Levels {
	return &Levels{
		side: common.Buy,
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.GreaterThan(b.Price)
		}),
	}
}

// NewAskLevels returns a Levels collection ordered lowest-price-first.
func NewAskLevels() *Levels {
	return &Levels{
		side: common.Sell,
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
	}
}

// Best returns the best (first-iterated) level, or nil if the side holds
// no levels.
func (l *Levels) Best() *PriceLevel {
	lvl, ok := l.tree.Min()
	if !ok {
		return nil
	}
	return lvl
}

// Get returns the level at price, or nil if absent.
func (l *Levels) Get(price decimal.Decimal) *PriceLevel {
	lvl, ok := l.tree.Get(&PriceLevel{Side: l.side, Price: price})
	if !ok {
		return nil
	}
	return lvl
}

// GetOrCreate returns the existing level at price, creating and
// inserting an empty one if absent.
func (l *Levels) GetOrCreate(price decimal.Decimal) *PriceLevel {
	if lvl := l.Get(price); lvl != nil {
		return lvl
	}
	lvl := NewPriceLevel(l.side, price)
	l.tree.Set(lvl)
	return lvl
}

// Delete removes lvl from the collection entirely. Callers must only do
// this once a level has been drained to empty.
func (l *Levels) Delete(lvl *PriceLevel) {
	l.tree.Delete(lvl)
}

// Len returns the number of price levels resident on this side,
// including a level GetOrCreate has inserted that holds no orders yet.
func (l *Levels) Len() int { return l.tree.Len() }

// Items returns every level in best-first order. Introspection/test use
// only — not on the matching hot path.
func (l *Levels) Items() []*PriceLevel {
	items := make([]*PriceLevel, 0, l.tree.Len())
	l.tree.Scan(func(lvl *PriceLevel) bool {
		items = append(items, lvl)
		return true
	})
	return items
}
