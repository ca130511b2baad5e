package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"lobcore/internal/common"
	"lobcore/internal/metrics"
)

// EventKind enumerates the three event kinds processEvent accepts
// (§4.4/§6).
type EventKind int

const (
	NewEvent EventKind = iota
	ReplaceEvent
	CancelEvent
)

func (k EventKind) String() string {
	switch k {
	case NewEvent:
		return "New"
	case ReplaceEvent:
		return "Replace"
	case CancelEvent:
		return "Cancel"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// reentering guards against processEvent being invoked from within
// itself (§5: "No reentrancy"). The core is single-threaded cooperative
// by design — this is a correctness assertion, not a concurrency
// control, so a plain atomic flag (rather than a mutex) is the right
// weight for it.
var reentering atomic.Bool

// ProcessEvent routes an (eventKind, order) pair to the appropriate
// engine operation and returns its MatchResult or a typed error
// (§4.4/C5). It is the sole externally callable surface of the core.
func ProcessEvent(kind EventKind, order *common.Order, eng *Engine) (common.MatchResult, error) {
	if !reentering.CompareAndSwap(false, true) {
		return common.MatchResult{}, common.NewError(
			common.InvariantViolation, "processEvent invoked reentrantly")
	}
	defer reentering.Store(false)

	start := time.Now()
	var (
		result common.MatchResult
		err    error
	)

	switch kind {
	case NewEvent:
		result, err = eng.processNew(order)
	case ReplaceEvent:
		result, err = eng.processReplace(order)
	case CancelEvent:
		result, err = eng.processCancel(order)
	default:
		err = common.NewError(common.InvariantViolation, fmt.Sprintf("unknown event kind %d", int(kind)))
	}

	metrics.ObserveEvent(order.Symbol, kind.String(), time.Since(start), result, err)
	if book, ok := eng.Book(order.Symbol); ok {
		metrics.ObserveDepth(order.Symbol, book.Depth(common.Buy), book.Depth(common.Sell))
	}

	return result, err
}
