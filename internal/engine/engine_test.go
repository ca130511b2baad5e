package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobcore/internal/common"
)

func TestProcessNewCreatesBookLazily(t *testing.T) {
	eng := New()
	_, ok := eng.Book("REL")
	require.False(t, ok)

	result, err := eng.processNew(limitOrder("a", common.Buy, 100, 10, 1))
	require.NoError(t, err)
	assert.Equal(t, common.MatchResult{}, result)

	b, ok := eng.Book("REL")
	require.True(t, ok)
	assert.Equal(t, 1, b.Depth(common.Buy))
}

func TestProcessNewMatchesAgainstExistingBook(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("a", common.Sell, 100, 10, 1))
	require.NoError(t, err)

	result, err := eng.processNew(limitOrder("b", common.Buy, 100, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), result.ExecutedQty)
}

func TestProcessNewRestsResidualAfterPartialMatch(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("a", common.Sell, 100, 4, 1))
	require.NoError(t, err)

	result, err := eng.processNew(limitOrder("b", common.Buy, 100, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), result.ExecutedQty)

	b, _ := eng.Book("REL")
	assert.Equal(t, 1, b.Depth(common.Buy))
	assert.Equal(t, uint64(6), b.BestBid().Front().Qty)
}

func TestProcessNewDropsUnfilledMarketResidual(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("a", common.Sell, 100, 4, 1))
	require.NoError(t, err)

	result, err := eng.processNew(marketOrder("b", common.Buy, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), result.ExecutedQty)

	b, _ := eng.Book("REL")
	assert.Equal(t, 0, b.Depth(common.Buy))
}

func TestProcessReplaceUnknownSymbol(t *testing.T) {
	eng := New()
	_, err := eng.processReplace(limitOrder("a", common.Buy, 100, 10, 1))
	require.Error(t, err)

	var engErr *common.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, common.UnknownSymbol, engErr.Kind)
}

func TestProcessReplaceOrderNotFound(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("a", common.Buy, 100, 10, 1))
	require.NoError(t, err)

	_, err = eng.processReplace(limitOrder("missing", common.Buy, 100, 5, 2))
	require.Error(t, err)

	var engErr *common.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, common.OrderNotFound, engErr.Kind)
}

func TestProcessReplaceLosesTimePriority(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("first", common.Buy, 100, 10, 1))
	require.NoError(t, err)
	_, err = eng.processNew(limitOrder("second", common.Buy, 100, 10, 2))
	require.NoError(t, err)

	// replace "first" at the same price: it must go to the back of the
	// queue, not keep its original position
	_, err = eng.processReplace(limitOrder("first", common.Buy, 100, 10, 3))
	require.NoError(t, err)

	_, err = eng.processNew(limitOrder("seller", common.Sell, 100, 10, 4))
	require.NoError(t, err)

	b, _ := eng.Book("REL")
	result, err := b.Match(limitOrder("seller2", common.Sell, 100, 10, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, result.MatchedOrderIDs)
}

func TestProcessCancelRemovesOrderWithoutMatching(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("a", common.Buy, 100, 10, 1))
	require.NoError(t, err)

	result, err := eng.processCancel(limitOrder("a", common.Buy, 100, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, common.MatchResult{}, result)

	b, _ := eng.Book("REL")
	assert.Equal(t, 0, b.Depth(common.Buy))
}

func TestProcessCancelUnknownSymbol(t *testing.T) {
	eng := New()
	_, err := eng.processCancel(limitOrder("a", common.Buy, 100, 10, 1))
	require.Error(t, err)

	var engErr *common.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, common.UnknownSymbol, engErr.Kind)
}

func TestSymbolsListsOnlyCreatedBooks(t *testing.T) {
	eng := New()
	_, err := eng.processNew(limitOrder("a", common.Buy, 100, 10, 1))
	require.NoError(t, err)

	symbols := eng.Symbols()
	assert.Equal(t, []string{"REL"}, symbols)
}
