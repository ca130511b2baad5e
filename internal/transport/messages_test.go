package transport

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobcore/internal/common"
)

func encodeNewOrder(kind common.OrderKind, ticker string, price float64, qty uint64, side common.Side, username string) []byte {
	usernameLen := len(username)
	buf := make([]byte, 2+newOrderFixedLen+usernameLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(kind))
	copy(buf[4:8], ticker)
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(price))
	binary.BigEndian.PutUint64(buf[16:24], qty)
	buf[24] = byte(side)
	buf[25] = uint8(usernameLen)
	copy(buf[26:], username)
	return buf
}

func TestParseMessageNewOrder(t *testing.T) {
	raw := encodeNewOrder(common.Limit, "REL", 101.5, 42, common.Sell, "alice")

	msg, err := ParseMessage(raw)
	require.NoError(t, err)

	newOrder, ok := msg.(NewOrderMessage)
	require.True(t, ok)
	assert.Equal(t, "REL", newOrder.Ticker)
	assert.Equal(t, 101.5, newOrder.LimitPrice)
	assert.Equal(t, uint64(42), newOrder.Quantity)
	assert.Equal(t, common.Sell, newOrder.Side)
	assert.Equal(t, "alice", newOrder.Username)

	order := newOrder.Order()
	assert.Equal(t, "REL", order.Symbol)
	assert.Equal(t, uint64(42), order.Qty)
	assert.NotEmpty(t, order.ID)
}

func TestParseMessageTooShortNewOrder(t *testing.T) {
	_, err := ParseMessage([]byte{0, 1, 1, 2, 3})
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestParseMessageUnknownType(t *testing.T) {
	_, err := ParseMessage([]byte{0xFF, 0xFF})
	assert.ErrorIs(t, err, ErrInvalidMessageType)
}

func TestParseMessageLogBook(t *testing.T) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(LogBook))

	msg, err := ParseMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, LogBook, msg.GetType())
}

func TestParseMessageCancelOrder(t *testing.T) {
	buf := make([]byte, 2+cancelOrderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	copy(buf[2:6], "REL")
	copy(buf[6:22], "order-uuid-here")

	msg, err := ParseMessage(buf)
	require.NoError(t, err)
	cancel, ok := msg.(CancelOrderMessage)
	require.True(t, ok)
	assert.Equal(t, "REL", cancel.Ticker)
	assert.Contains(t, cancel.OrderUUID, "order-uuid-here")
}

func TestReportSerializeRoundTripsFixedFields(t *testing.T) {
	report := Report{
		MessageType:  ExecutionReport,
		Side:         common.Buy,
		Quantity:     7,
		Price:        123.45,
		Ticker:       "REL",
		UUID:         "0123456789abcdef",
		Counterparty: "bob",
		Err:          "",
	}
	buf := report.Serialize()
	require.Len(t, buf, reportFixedLen+len(report.Counterparty))

	assert.Equal(t, byte(ExecutionReport), buf[0])
	assert.Equal(t, byte(common.Buy), buf[1])
	assert.Equal(t, uint64(7), binary.BigEndian.Uint64(buf[2:10]))
	assert.Equal(t, 123.45, math.Float64frombits(binary.BigEndian.Uint64(buf[10:18])))
	assert.Equal(t, "REL\x00", string(buf[24:28]))
	assert.Equal(t, "0123456789abcdef", string(buf[28:44]))
	assert.Equal(t, "bob", string(buf[reportFixedLen:]))
}

func TestErrorReportCarriesMessage(t *testing.T) {
	buf := errorReport("REL", assertError{"boom"})
	assert.Equal(t, byte(ErrorReport), buf[0])
	assert.Equal(t, "boom", string(buf[reportFixedLen:]))
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
