package engine

import (
	"github.com/rs/zerolog/log"

	"lobcore/internal/common"
)

// Engine maps symbol to OrderBook and implements the three event
// operations of §4.3. Books are created lazily on first event for a
// symbol and are never destroyed by the core (§3/C4).
type Engine struct {
	books map[string]*OrderBook
}

// New returns an empty Engine with no books.
func New() *Engine {
	return &Engine{books: make(map[string]*OrderBook)}
}

// Book returns the book for symbol, if one has been created yet.
func (e *Engine) Book(symbol string) (*OrderBook, bool) {
	b, ok := e.books[symbol]
	return b, ok
}

// Symbols returns every symbol with a live book, for introspection.
func (e *Engine) Symbols() []string {
	out := make([]string, 0, len(e.books))
	for symbol := range e.books {
		out = append(out, symbol)
	}
	return out
}

// processNew implements the New event (§4.3): if the symbol's book does
// not exist, it is created and order rests as its first order (an empty
// result). Otherwise order is matched against the book and any residual
// rests. Market orders never rest — a residual market order is dropped
// silently, inheriting the source's documented behavior for the case
// where the opposite side is empty (§9 Open Questions).
func (e *Engine) processNew(order *common.Order) (common.MatchResult, error) {
	b, ok := e.books[order.Symbol]
	if !ok {
		b = NewOrderBook(order.Symbol)
		e.books[order.Symbol] = b
		log.Debug().Str("symbol", order.Symbol).Msg("order book created")

		if order.Kind == common.Limit {
			if err := b.AddResting(order); err != nil {
				return common.MatchResult{}, common.WrapError(
					common.BookCreationFailed, "failed to rest the first order in a new book", err)
			}
		}
		return common.MatchResult{}, nil
	}

	result, err := b.Match(order)
	if err != nil {
		return common.MatchResult{}, err
	}
	if order.Qty > 0 && order.Kind == common.Limit {
		if err := b.AddResting(order); err != nil {
			return common.MatchResult{}, err
		}
	}
	return result, nil
}

// processReplace implements the Replace event (§4.3): the original order
// is located and removed by id, then the New path is re-run against the
// submitted (new) order fields. The replacement loses original time
// priority — its EntryTime/Sequence are the replacement's ingress
// values — and may execute immediately if its new price is marketable.
func (e *Engine) processReplace(order *common.Order) (common.MatchResult, error) {
	b, ok := e.books[order.Symbol]
	if !ok {
		return common.MatchResult{}, common.NewError(common.UnknownSymbol, order.Symbol)
	}
	if !b.RemoveByID(order.ID) {
		return common.MatchResult{}, common.NewError(common.OrderNotFound, order.ID)
	}

	result, err := b.Match(order)
	if err != nil {
		return common.MatchResult{}, err
	}
	if order.Qty > 0 && order.Kind == common.Limit {
		if err := b.AddResting(order); err != nil {
			return common.MatchResult{}, err
		}
	}
	return result, nil
}

// processCancel implements the Cancel event (§4.3): the original order
// is located and removed by id. Cancellation never retriggers matching —
// under §3's invariants a pre-existing cross is impossible, so a cancel
// cannot unlock one (§9).
func (e *Engine) processCancel(order *common.Order) (common.MatchResult, error) {
	b, ok := e.books[order.Symbol]
	if !ok {
		return common.MatchResult{}, common.NewError(common.UnknownSymbol, order.Symbol)
	}
	if !b.RemoveByID(order.ID) {
		return common.MatchResult{}, common.NewError(common.OrderNotFound, order.ID)
	}
	return common.MatchResult{}, nil
}
