package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStampAssignsMonotonicSequence(t *testing.T) {
	var a, b Order
	Stamp(&a)
	Stamp(&b)
	assert.Greater(t, b.Sequence, a.Sequence)
}

func TestBeforeOrdersByEntryTimeThenSequence(t *testing.T) {
	now := time.Now()
	a := Order{EntryTime: now, Sequence: 1}
	b := Order{EntryTime: now, Sequence: 2}
	assert.True(t, Before(a, b))
	assert.False(t, Before(b, a))

	c := Order{EntryTime: now.Add(time.Second), Sequence: 1}
	assert.True(t, Before(a, c))
}

func TestSideAndOrderKindString(t *testing.T) {
	assert.Equal(t, "Buy", Buy.String())
	assert.Equal(t, "Sell", Sell.String())
	assert.Equal(t, "Limit", Limit.String())
	assert.Equal(t, "Market", Market.String())
}
