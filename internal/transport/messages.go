// Package transport is a thin TCP ingestion layer that decodes a small
// binary wire protocol into (EventKind, Order) pairs and calls
// engine.ProcessEvent, the matching core's one entry point. The wire
// protocol, connection handling, and worker pool are all external to
// the matching core per spec.md §1 ("Transport / wire protocol for
// delivering events to the engine" is explicitly out of scope for the
// core) — adapted from the teacher's internal/net (messages.go,
// server.go), generalized from a fixed AssetType enum to arbitrary
// string symbols.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lobcore/internal/common"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified username length")
)

type MessageType uint16

const (
	Heartbeat MessageType = iota
	NewOrder
	ReplaceOrder
	CancelOrder
	LogBook
)

type ReportMessageType uint8

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

// Message is anything parseMessage can hand back to the session
// handler.
type Message interface {
	GetType() MessageType
}

const (
	BaseMessageHeaderLen = 2
	tickerLen            = 4
	uuidLen              = 16

	// OrderKind(2) + Ticker(4) + LimitPrice(8) + Quantity(8) + Side(1) + UsernameLen(1)
	newOrderFixedLen = 2 + tickerLen + 8 + 8 + 1 + 1
	// OrderKind(2) + Ticker(4) + LimitPrice(8) + Quantity(8) + Side(1) + UUID(16) + UsernameLen(1)
	replaceOrderFixedLen = 2 + tickerLen + 8 + 8 + 1 + uuidLen + 1
	// Ticker(4) + UUID(16)
	cancelOrderLen = tickerLen + uuidLen
)

type BaseMessage struct {
	TypeOf MessageType
}

func (m BaseMessage) GetType() MessageType { return m.TypeOf }

// ParseMessage decodes one wire message, dispatching on its 2-byte type
// header.
func ParseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return BaseMessage{}, fmt.Errorf("%w: message too short to contain header", ErrInvalidMessageType)
	}

	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(body)
	case ReplaceOrder:
		return parseReplaceOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	case LogBook:
		return BaseMessage{TypeOf: LogBook}, nil
	default:
		return BaseMessage{}, ErrInvalidMessageType
	}
}

// NewOrderMessage is a New event: a fresh id is minted at ingress (the
// core itself never generates ids, §3).
type NewOrderMessage struct {
	BaseMessage
	Kind        common.OrderKind
	Ticker      string
	LimitPrice  float64
	Quantity    uint64
	Side        common.Side
	UsernameLen uint8
	Username    string
}

func (m NewOrderMessage) Order() common.Order {
	order := common.Order{
		ID:     uuid.New().String(),
		Symbol: m.Ticker,
		Side:   m.Side,
		Kind:   m.Kind,
		Price:  decimal.NewFromFloat(m.LimitPrice),
		Qty:    m.Quantity,
	}
	common.Stamp(&order)
	return order
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < newOrderFixedLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}
	m.Kind = common.OrderKind(binary.BigEndian.Uint16(msg[0:2]))
	m.Ticker = strings.TrimRight(string(msg[2:6]), "\x00")
	m.LimitPrice = math.Float64frombits(binary.BigEndian.Uint64(msg[6:14]))
	m.Quantity = binary.BigEndian.Uint64(msg[14:22])
	m.Side = common.Side(msg[22])
	m.UsernameLen = msg[23]

	expected := newOrderFixedLen + int(m.UsernameLen)
	if len(msg) < expected {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m.Username = string(msg[newOrderFixedLen:expected])
	return m, nil
}

// ReplaceOrderMessage is a Replace event: OrderUUID names the order
// being replaced; its new fields come from the rest of the message.
type ReplaceOrderMessage struct {
	BaseMessage
	Kind        common.OrderKind
	Ticker      string
	LimitPrice  float64
	Quantity    uint64
	Side        common.Side
	OrderUUID   string
	UsernameLen uint8
	Username    string
}

func (m ReplaceOrderMessage) Order() common.Order {
	order := common.Order{
		ID:     m.OrderUUID,
		Symbol: m.Ticker,
		Side:   m.Side,
		Kind:   m.Kind,
		Price:  decimal.NewFromFloat(m.LimitPrice),
		Qty:    m.Quantity,
	}
	common.Stamp(&order)
	return order
}

func parseReplaceOrder(msg []byte) (ReplaceOrderMessage, error) {
	if len(msg) < replaceOrderFixedLen {
		return ReplaceOrderMessage{}, ErrMessageTooShort
	}
	m := ReplaceOrderMessage{BaseMessage: BaseMessage{TypeOf: ReplaceOrder}}
	m.Kind = common.OrderKind(binary.BigEndian.Uint16(msg[0:2]))
	m.Ticker = strings.TrimRight(string(msg[2:6]), "\x00")
	m.LimitPrice = math.Float64frombits(binary.BigEndian.Uint64(msg[6:14]))
	m.Quantity = binary.BigEndian.Uint64(msg[14:22])
	m.Side = common.Side(msg[22])
	m.OrderUUID = string(msg[23 : 23+uuidLen])
	m.UsernameLen = msg[23+uuidLen]

	expected := replaceOrderFixedLen + int(m.UsernameLen)
	if len(msg) < expected {
		return ReplaceOrderMessage{}, ErrMessageTooShort
	}
	m.Username = string(msg[replaceOrderFixedLen:expected])
	return m, nil
}

// CancelOrderMessage is a Cancel event.
type CancelOrderMessage struct {
	BaseMessage
	Ticker    string
	OrderUUID string
}

func (m CancelOrderMessage) Order() common.Order {
	return common.Order{ID: m.OrderUUID, Symbol: m.Ticker}
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < cancelOrderLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	m := CancelOrderMessage{BaseMessage: BaseMessage{TypeOf: CancelOrder}}
	m.Ticker = strings.TrimRight(string(msg[0:tickerLen]), "\x00")
	m.OrderUUID = string(msg[tickerLen : tickerLen+uuidLen])
	return m, nil
}

// Report is the wire representation of a single execution or error
// report sent back to a connected client.
type Report struct {
	MessageType  ReportMessageType
	Side         common.Side
	Quantity     uint64
	Price        float64
	Ticker       string
	UUID         string
	Counterparty string
	Err          string
}

const reportFixedLen = 1 + 1 + 8 + 8 + 2 + 4 + tickerLen + uuidLen

// Serialize converts the report to its wire form.
func (r Report) Serialize() []byte {
	total := reportFixedLen + len(r.Err) + len(r.Counterparty)
	buf := make([]byte, total)

	buf[0] = byte(r.MessageType)
	buf[1] = byte(r.Side)
	binary.BigEndian.PutUint64(buf[2:10], r.Quantity)
	binary.BigEndian.PutUint64(buf[10:18], math.Float64bits(r.Price))
	binary.BigEndian.PutUint16(buf[18:20], uint16(len(r.Counterparty)))
	binary.BigEndian.PutUint32(buf[20:24], uint32(len(r.Err)))

	ticker := make([]byte, tickerLen)
	copy(ticker, r.Ticker)
	copy(buf[24:24+tickerLen], ticker)

	uid := make([]byte, uuidLen)
	copy(uid, r.UUID)
	copy(buf[24+tickerLen:reportFixedLen], uid)

	offset := reportFixedLen
	copy(buf[offset:], r.Err)
	offset += len(r.Err)
	copy(buf[offset:], r.Counterparty)

	return buf
}

func errorReport(ticker string, err error) []byte {
	return Report{MessageType: ErrorReport, Ticker: ticker, Err: err.Error()}.Serialize()
}
