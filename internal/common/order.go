// Package common holds the identity-carrying types shared across the
// matching core: orders, sides, prices, trade results, and the typed
// error taxonomy.
package common

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// Side is one of Buy or Sell.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// OrderKind is one of Limit or Market. Market orders carry an ignored
// price (convention: zero).
type OrderKind int

const (
	Limit OrderKind = iota
	Market
)

func (k OrderKind) String() string {
	switch k {
	case Limit:
		return "Limit"
	case Market:
		return "Market"
	default:
		return fmt.Sprintf("OrderKind(%d)", int(k))
	}
}

// Order is the identity-carrier of one customer order (§3/C1). Qty is
// mutated in place by the engine to reflect the unfilled remainder
// before a residual insertion; callers must not alias or mutate an Order
// they have submitted until the call returns.
type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Kind      OrderKind
	Price     decimal.Decimal
	Qty       uint64
	EntryTime time.Time
	Sequence  uint64
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%s symbol=%s side=%v kind=%v price=%s qty=%d entryTime=%s seq=%d}",
		o.ID, o.Symbol, o.Side, o.Kind, o.Price, o.Qty, o.EntryTime.Format(time.RFC3339Nano), o.Sequence,
	)
}

var ingressSequence atomic.Uint64

// NextSequence returns a process-lifetime strictly-increasing counter,
// used as the tie-breaker of last resort when two orders would otherwise
// share an EntryTime (§3: "the timestamp source must guarantee monotonic
// strictly-increasing values per ingress; if it cannot, the system must
// add a tie-breaker such as ingress sequence number").
func NextSequence() uint64 {
	return ingressSequence.Add(1)
}

// Stamp assigns EntryTime and Sequence to an order at ingress. Callers
// outside the core (transport, the synthetic load generator) call this
// once per inbound order; the core itself never stamps — time priority
// is an ingress concern, not a matching one.
func Stamp(order *Order) {
	order.EntryTime = time.Now()
	order.Sequence = NextSequence()
}

// Before reports whether a precedes b in time priority: EntryTime
// ascending, Sequence as the tie-breaker.
func Before(a, b Order) bool {
	if a.EntryTime.Equal(b.EntryTime) {
		return a.Sequence < b.Sequence
	}
	return a.EntryTime.Before(b.EntryTime)
}
