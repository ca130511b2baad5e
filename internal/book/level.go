// Package book implements the per-price-level order aggregation (§4.1/C2)
// and the price-ordered side collections (§4.1 comparator contract/C3)
// that sit underneath a symbol's order book.
package book

import (
	"container/list"

	"github.com/shopspring/decimal"

	"lobcore/internal/common"
)

// PriceLevel aggregates all resting orders of one side at one price,
// preserving arrival order. Orders are held in a doubly-linked list so
// the front (oldest) order can be peeked/popped in O(1) and an order can
// be removed by id in O(1) given the level's own index — the structure
// §9 calls canonical, in place of the source's copy-mutate-replace
// workaround for comparator-keyed containers.
type PriceLevel struct {
	Side  common.Side
	Price decimal.Decimal

	orders *list.List
	index  map[string]*list.Element
}

// NewPriceLevel returns an empty level for side at price.
func NewPriceLevel(side common.Side, price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		Side:   side,
		Price:  price,
		orders: list.New(),
		index:  make(map[string]*list.Element),
	}
}

// Empty reports whether the level holds no resting orders. Empty levels
// are ephemeral and must be removed from their book (§3).
func (l *PriceLevel) Empty() bool { return l.orders.Len() == 0 }

// Len returns the number of resting orders at this level.
func (l *PriceLevel) Len() int { return l.orders.Len() }

// Add inserts order at the tail of arrival order. Precondition:
// order.Side == l.Side && order.Price == l.Price (§4.1).
func (l *PriceLevel) Add(order *common.Order) error {
	if order.Side != l.Side || !order.Price.Equal(l.Price) {
		return common.NewError(common.InvariantViolation,
			"order side/price does not match the target price level")
	}
	if order.Qty == 0 {
		return common.NewError(common.InvariantViolation,
			"cannot add a resting order with non-positive quantity")
	}
	if _, exists := l.index[order.ID]; exists {
		return common.NewError(common.InvariantViolation,
			"order id already resting in this price level")
	}
	l.index[order.ID] = l.orders.PushBack(order)
	return nil
}

// Remove removes the order with the given id. Returns whether removal
// occurred.
func (l *PriceLevel) Remove(id string) bool {
	elem, ok := l.index[id]
	if !ok {
		return false
	}
	l.orders.Remove(elem)
	delete(l.index, id)
	return true
}

// Front returns the oldest resting order, or nil if the level is empty.
func (l *PriceLevel) Front() *common.Order {
	elem := l.orders.Front()
	if elem == nil {
		return nil
	}
	return elem.Value.(*common.Order)
}

// Orders returns a snapshot slice of resting orders, oldest first. Used
// by introspection and tests; not on the matching hot path.
func (l *PriceLevel) Orders() []*common.Order {
	out := make([]*common.Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*common.Order))
	}
	return out
}

func (l *PriceLevel) popFront() *common.Order {
	e := l.orders.Front()
	order := e.Value.(*common.Order)
	l.orders.Remove(e)
	delete(l.index, order.ID)
	return order
}

// MatchAgainst consumes resting orders from the front while
// incoming.Qty > 0 and orders remain, per the three-way comparison of
// §4.1. It mutates incoming.Qty down to its residual and, for a partial
// fill of a resting order, reduces that order's Qty in place without
// touching its EntryTime — time priority must not be reset.
func (l *PriceLevel) MatchAgainst(incoming *common.Order) (common.TradeAccumulator, error) {
	acc := common.TradeAccumulator{}

	for incoming.Qty > 0 {
		resting := l.Front()
		if resting == nil {
			break
		}
		if resting.Qty == 0 {
			return common.TradeAccumulator{}, common.NewError(common.InvariantViolation,
				"resting order "+resting.ID+" has non-positive quantity")
		}

		switch {
		case incoming.Qty == resting.Qty:
			acc.Credit(resting.ID, l.Price, resting.Qty)
			incoming.Qty = 0
			l.popFront()
		case incoming.Qty < resting.Qty:
			acc.Credit(resting.ID, l.Price, incoming.Qty)
			resting.Qty -= incoming.Qty
			incoming.Qty = 0
		default: // incoming.Qty > resting.Qty
			acc.Credit(resting.ID, l.Price, resting.Qty)
			incoming.Qty -= resting.Qty
			l.popFront()
		}
	}

	return acc, nil
}
