package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidLevelsBestIsHighestPrice(t *testing.T) {
	levels := NewBidLevels()
	levels.GetOrCreate(decimal.NewFromInt(100))
	levels.GetOrCreate(decimal.NewFromInt(105))
	levels.GetOrCreate(decimal.NewFromInt(99))

	best := levels.Best()
	require.NotNil(t, best)
	assert.True(t, best.Price.Equal(decimal.NewFromInt(105)))
}

func TestAskLevelsBestIsLowestPrice(t *testing.T) {
	levels := NewAskLevels()
	levels.GetOrCreate(decimal.NewFromInt(100))
	levels.GetOrCreate(decimal.NewFromInt(105))
	levels.GetOrCreate(decimal.NewFromInt(99))

	best := levels.Best()
	require.NotNil(t, best)
	assert.True(t, best.Price.Equal(decimal.NewFromInt(99)))
}

func TestLevelsGetOrCreateReusesExistingLevel(t *testing.T) {
	levels := NewBidLevels()
	first := levels.GetOrCreate(decimal.NewFromInt(100))
	second := levels.GetOrCreate(decimal.NewFromInt(100))
	assert.Same(t, first, second)
	assert.Equal(t, 1, levels.Len())
}

func TestLevelsDeleteRemovesFromCollection(t *testing.T) {
	levels := NewBidLevels()
	lvl := levels.GetOrCreate(decimal.NewFromInt(100))
	levels.Delete(lvl)
	assert.Equal(t, 0, levels.Len())
	assert.Nil(t, levels.Get(decimal.NewFromInt(100)))
}

func TestLevelsItemsBestFirstOrder(t *testing.T) {
	levels := NewBidLevels()
	levels.GetOrCreate(decimal.NewFromInt(100))
	levels.GetOrCreate(decimal.NewFromInt(105))
	levels.GetOrCreate(decimal.NewFromInt(99))

	items := levels.Items()
	require.Len(t, items, 3)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(105)))
	assert.True(t, items[1].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, items[2].Price.Equal(decimal.NewFromInt(99)))
}
