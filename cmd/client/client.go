package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"lobcore/internal/common"
	"lobcore/internal/transport"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the matching server")
	owner := flag.String("owner", "", "Owner username (compulsory)")
	action := flag.String("action", "place", "Action to perform: ['place', 'replace', 'cancel', 'log']")

	ticker := flag.String("ticker", "REL", "Ticker symbol (max 4 chars)")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "Order type: 'limit' or 'market'")
	price := flag.Float64("price", 100.0, "Limit price")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")

	orderUUID := flag.String("uuid", "", "UUID of the order to cancel or replace")

	flag.Parse()

	if *owner == "" {
		fmt.Println("Error: -owner is compulsory.")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("Failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s as '%s'\n", *serverAddr, *owner)

	go readReports(conn)

	side := common.Buy
	if strings.ToLower(*sideStr) == "sell" {
		side = common.Sell
	}

	kind := common.Limit
	if strings.ToLower(*typeStr) == "market" {
		kind = common.Market
	}

	switch strings.ToLower(*action) {
	case "place":
		for _, q := range parseQuantities(*qtyStr) {
			if err := sendNewOrder(conn, *owner, *ticker, *price, q, side, kind); err != nil {
				log.Printf("Failed to place order (Qty: %d): %v", q, err)
			} else {
				fmt.Printf("-> Sent %s Order: %s %d @ %.2f\n", strings.ToUpper(*sideStr), *ticker, q, *price)
			}
			time.Sleep(5 * time.Millisecond)
		}

	case "replace":
		if *orderUUID == "" {
			log.Fatal("Error: -uuid is required for replace")
		}
		quantities := parseQuantities(*qtyStr)
		if len(quantities) != 1 {
			log.Fatal("Error: -qty must name exactly one quantity for replace")
		}
		if err := sendReplaceOrder(conn, *owner, *ticker, *price, quantities[0], side, kind, *orderUUID); err != nil {
			log.Printf("Failed to send replace request: %v", err)
		} else {
			fmt.Printf("-> Sent Replace Request for UUID: %s\n", *orderUUID)
		}

	case "cancel":
		if *orderUUID == "" {
			log.Fatal("Error: -uuid is required for cancellation")
		}
		if err := sendCancelOrder(conn, *ticker, *orderUUID); err != nil {
			log.Printf("Failed to send cancel request: %v", err)
		} else {
			fmt.Printf("-> Sent Cancel Request for UUID: %s\n", *orderUUID)
		}

	case "log":
		if err := sendLog(conn); err != nil {
			log.Printf("Failed to send log request: %v", err)
		} else {
			fmt.Println("-> Sent Log Request")
		}

	default:
		log.Fatalf("Unknown action: %s", *action)
	}

	fmt.Println("\nListening for reports... (Press Ctrl+C to exit)")
	select {}
}

func parseQuantities(input string) []uint64 {
	parts := strings.Split(input, ",")
	var result []uint64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseUint(p, 10, 64); err == nil {
			result = append(result, val)
		} else {
			log.Printf("Warning: Invalid quantity '%s', skipping.", p)
		}
	}
	return result
}

func putTicker(buf []byte, ticker string) {
	tickerBytes := make([]byte, 4)
	copy(tickerBytes, ticker)
	copy(buf, tickerBytes)
}

func sendNewOrder(conn net.Conn, owner, ticker string, price float64, qty uint64, side common.Side, kind common.OrderKind) error {
	usernameLen := len(owner)
	const fixedLen = 2 + 2 + 4 + 8 + 8 + 1 + 1
	buf := make([]byte, fixedLen+usernameLen)

	binary.BigEndian.PutUint16(buf[0:2], uint16(transport.NewOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(kind))
	putTicker(buf[4:8], ticker)
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(price))
	binary.BigEndian.PutUint64(buf[16:24], qty)
	buf[24] = byte(side)
	buf[25] = uint8(usernameLen)
	copy(buf[26:], owner)

	_, err := conn.Write(buf)
	return err
}

func sendReplaceOrder(conn net.Conn, owner, ticker string, price float64, qty uint64, side common.Side, kind common.OrderKind, orderUUID string) error {
	usernameLen := len(owner)
	const fixedLen = 2 + 2 + 4 + 8 + 8 + 1 + 16 + 1
	buf := make([]byte, fixedLen+usernameLen)

	binary.BigEndian.PutUint16(buf[0:2], uint16(transport.ReplaceOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(kind))
	putTicker(buf[4:8], ticker)
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(price))
	binary.BigEndian.PutUint64(buf[16:24], qty)
	buf[24] = byte(side)

	uuidBytes := make([]byte, 16)
	copy(uuidBytes, orderUUID)
	copy(buf[25:41], uuidBytes)
	buf[41] = uint8(usernameLen)
	copy(buf[42:], owner)

	_, err := conn.Write(buf)
	return err
}

func sendCancelOrder(conn net.Conn, ticker, orderUUID string) error {
	buf := make([]byte, 2+4+16)
	binary.BigEndian.PutUint16(buf[0:2], uint16(transport.CancelOrder))
	putTicker(buf[2:6], ticker)
	uuidBytes := make([]byte, 16)
	copy(uuidBytes, orderUUID)
	copy(buf[6:22], uuidBytes)

	_, err := conn.Write(buf)
	return err
}

func sendLog(conn net.Conn) error {
	buf := make([]byte, transport.BaseMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(transport.LogBook))
	_, err := conn.Write(buf)
	return err
}

func readReports(conn net.Conn) {
	for {
		headerBuf := make([]byte, reportFixedHeaderLen)
		if _, err := io.ReadFull(conn, headerBuf); err != nil {
			if err != io.EOF {
				log.Printf("Connection lost: %v", err)
			}
			os.Exit(0)
		}

		msgType := transport.ReportMessageType(headerBuf[0])
		side := common.Side(headerBuf[1])
		qty := binary.BigEndian.Uint64(headerBuf[2:10])
		price := math.Float64frombits(binary.BigEndian.Uint64(headerBuf[10:18]))
		counterpartyLen := binary.BigEndian.Uint16(headerBuf[18:20])
		errStrLen := binary.BigEndian.Uint32(headerBuf[20:24])
		ticker := string(headerBuf[24:28])
		uuid := string(headerBuf[28:44])

		totalVarLen := int(counterpartyLen) + int(errStrLen)
		var varBuf []byte
		if totalVarLen > 0 {
			varBuf = make([]byte, totalVarLen)
			if _, err := io.ReadFull(conn, varBuf); err != nil {
				log.Printf("Error reading report body: %v", err)
				break
			}
		}

		errStr := ""
		counterparty := ""
		if errStrLen > 0 {
			errStr = string(varBuf[:errStrLen])
		}
		if counterpartyLen > 0 {
			counterparty = string(varBuf[errStrLen:])
		}

		if msgType == transport.ErrorReport {
			fmt.Printf("\n[SERVER ERROR] %s\n", errStr)
		} else {
			sideStr := "BUY"
			if side == common.Sell {
				sideStr = "SELL"
			}
			fmt.Printf("\n[EXECUTION] Match: %s %s | Qty: %d | Price: %.2f | vs: %s | UUID: %s\n",
				sideStr, ticker, qty, price, counterparty, strings.TrimRight(uuid, "\x00"))
		}
	}
}

// reportFixedHeaderLen matches transport.reportFixedLen:
// 1 (type) + 1 (side) + 8 (qty) + 8 (price) + 2 (counterparty len) +
// 4 (err len) + 4 (ticker) + 16 (uuid) = 44 bytes.
const reportFixedHeaderLen = 1 + 1 + 8 + 8 + 2 + 4 + 4 + 16
