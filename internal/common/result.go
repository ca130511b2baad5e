package common

import "github.com/shopspring/decimal"

// MatchResult aggregates the outcome of a single New/Replace event
// (§3/C6): the resting order ids touched, in the order they were
// touched, total executed quantity, and the volume-weighted average
// execution price. The zero value is the "empty result" of §6 — no
// match occurred.
type MatchResult struct {
	MatchedOrderIDs []string
	ExecutedQty     uint64
	ExecutedPrice   decimal.Decimal
}

// TradeAccumulator collects trade credits while walking one or more
// price levels during a single event, deferring the VWAP division until
// the whole event's matching is complete so the executed price is
// computed once over the entire sweep rather than re-derived per level
// (§4.2 step 5, §8 property 6).
type TradeAccumulator struct {
	MatchedOrderIDs []string
	ExecutedQty     uint64
	notional        decimal.Decimal
}

// Credit records one trade: orderID filled filledQty shares at
// restingPrice.
func (a *TradeAccumulator) Credit(orderID string, restingPrice decimal.Decimal, filledQty uint64) {
	a.MatchedOrderIDs = append(a.MatchedOrderIDs, orderID)
	a.ExecutedQty += filledQty
	a.notional = a.notional.Add(restingPrice.Mul(decimal.NewFromInt(int64(filledQty))))
}

// Merge folds another accumulator's credits into this one, preserving
// the order in which they were touched.
func (a *TradeAccumulator) Merge(other TradeAccumulator) {
	a.MatchedOrderIDs = append(a.MatchedOrderIDs, other.MatchedOrderIDs...)
	a.ExecutedQty += other.ExecutedQty
	a.notional = a.notional.Add(other.notional)
}

// Result finalizes the accumulator into a MatchResult. ExecutedPrice is
// left at its zero value when ExecutedQty is zero, per §3/C6.
func (a TradeAccumulator) Result() MatchResult {
	if a.ExecutedQty == 0 {
		return MatchResult{}
	}
	return MatchResult{
		MatchedOrderIDs: a.MatchedOrderIDs,
		ExecutedQty:     a.ExecutedQty,
		ExecutedPrice:   a.notional.Div(decimal.NewFromInt(int64(a.ExecutedQty))),
	}
}
