package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"

	"lobcore/internal/common"
)

func counterValue(t *testing.T, c *Collector, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.EventsTotal.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveEventRecordsSuccessAndExecutedQuantity(t *testing.T) {
	c := New()
	result := common.MatchResult{ExecutedQty: 10, ExecutedPrice: decimal.NewFromInt(100)}

	c.ObserveEvent("REL", "New", time.Millisecond, result, nil)

	assert.Equal(t, float64(1), counterValue(t, c, "REL", "New"))

	var m dto.Metric
	require.NoError(t, c.ExecutedQuantity.WithLabelValues("REL").Write(&m))
	assert.Equal(t, float64(10), m.GetCounter().GetValue())
}

func TestObserveEventRecordsTypedErrorKind(t *testing.T) {
	c := New()
	err := common.NewError(common.OrderNotFound, "missing")

	c.ObserveEvent("REL", "Cancel", time.Millisecond, common.MatchResult{}, err)

	var m dto.Metric
	require.NoError(t, c.EventErrorsTotal.WithLabelValues("REL", "Cancel", "OrderNotFound").Write(&m))
	assert.Equal(t, float64(1), m.GetCounter().GetValue())
}

func TestObserveDepthSetsGauges(t *testing.T) {
	c := New()
	c.ObserveDepth("REL", 3, 5)

	var bid, ask dto.Metric
	require.NoError(t, c.OrderbookDepth.WithLabelValues("REL", "bid").Write(&bid))
	require.NoError(t, c.OrderbookDepth.WithLabelValues("REL", "ask").Write(&ask))
	assert.Equal(t, float64(3), bid.GetGauge().GetValue())
	assert.Equal(t, float64(5), ask.GetGauge().GetValue())
}
