package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"lobcore/internal/common"
	"lobcore/internal/engine"
	"lobcore/internal/utils"
)

const (
	maxRecvSize     = 4 * 1024
	defaultWorkers  = 10
	defaultConnIdle = time.Second
)

var ErrImproperConversion = errors.New("improper type conversion")

// ClientSession tracks one connected TCP session.
type ClientSession struct {
	conn net.Conn
}

// ClientMessage links a decoded message to the client that sent it.
type ClientMessage struct {
	clientAddress string
	message       Message
}

// Server accepts TCP connections, decodes wire messages, and drives
// engine.ProcessEvent for each one — the matching core's only caller in
// this binary.
type Server struct {
	address string
	port    int
	engine  *engine.Engine

	pool   utils.WorkerPool
	cancel context.CancelFunc

	clientSessionsLock sync.Mutex
	clientSessions     map[string]ClientSession
	clientMessages     chan ClientMessage
}

// New returns a Server listening on address:port and dispatching decoded
// events onto eng.
func New(address string, port int, eng *engine.Engine) *Server {
	return &Server{
		address:        address,
		port:           port,
		engine:         eng,
		pool:           utils.NewWorkerPool(defaultWorkers),
		clientSessions: make(map[string]ClientSession),
		clientMessages: make(chan ClientMessage, 1),
	}
}

// Shutdown cancels the server's context, unwinding Run.
func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run accepts connections until ctx is done.
func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	// Closing the listener once ctx is done unblocks Accept below.
	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("address", listener.Addr().String()).Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}

			log.Info().Str("address", conn.RemoteAddr().String()).Msg("new client connected")
			s.addClientSession(conn)
			s.pool.AddTask(conn)
		}
	}
}

func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case message := <-s.clientMessages:
			if err := s.handleMessage(message); err != nil {
				log.Error().
					Err(err).
					Str("client", message.clientAddress).
					Msg("error handling message")
				s.reportError(message.clientAddress, "", err)
			}
		}
	}
}

func (s *Server) handleMessage(message ClientMessage) error {
	switch m := message.message.(type) {
	case NewOrderMessage:
		order := m.Order()
		result, err := engine.ProcessEvent(engine.NewEvent, &order, s.engine)
		if err != nil {
			return err
		}
		s.reportResult(message.clientAddress, order, result)
		return nil
	case ReplaceOrderMessage:
		order := m.Order()
		result, err := engine.ProcessEvent(engine.ReplaceEvent, &order, s.engine)
		if err != nil {
			return err
		}
		s.reportResult(message.clientAddress, order, result)
		return nil
	case CancelOrderMessage:
		order := m.Order()
		_, err := engine.ProcessEvent(engine.CancelEvent, &order, s.engine)
		return err
	case BaseMessage:
		if m.GetType() == LogBook {
			s.logBook()
			return nil
		}
		return ErrInvalidMessageType
	default:
		return ErrInvalidMessageType
	}
}

func (s *Server) logBook() {
	for _, symbol := range s.engine.Symbols() {
		b, ok := s.engine.Book(symbol)
		if !ok {
			continue
		}
		log.Info().
			Str("symbol", symbol).
			Int("bid_levels", b.Depth(common.Buy)).
			Int("ask_levels", b.Depth(common.Sell)).
			Msg("book snapshot")
	}
}

func (s *Server) reportResult(clientAddress string, order common.Order, result common.MatchResult) {
	if len(result.MatchedOrderIDs) == 0 {
		return
	}
	price, _ := result.ExecutedPrice.Float64()
	report := Report{
		MessageType: ExecutionReport,
		Side:        order.Side,
		Quantity:    result.ExecutedQty,
		Price:       price,
		Ticker:      order.Symbol,
		UUID:        order.ID,
	}
	s.write(clientAddress, report.Serialize())
}

func (s *Server) reportError(clientAddress, ticker string, err error) {
	s.write(clientAddress, errorReport(ticker, err))
}

func (s *Server) write(clientAddress string, payload []byte) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	client, ok := s.clientSessions[clientAddress]
	if !ok {
		return
	}
	if _, err := client.conn.Write(payload); err != nil {
		log.Error().Err(err).Str("client", clientAddress).Msg("failed to write report")
		delete(s.clientSessions, clientAddress)
	}
}

// handleConnection reads the next message off conn, decodes it, and
// hands it to the session handler. It never mutates client session state
// directly beyond add/delete, so it is safe to run concurrently across
// the worker pool.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}
	requeued := false
	defer func() {
		if requeued {
			return
		}
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("close failed")
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(defaultConnIdle)); err != nil {
		log.Error().Err(err).Msg("failed setting connection deadline")
		return nil
	}

	select {
	case <-t.Dying():
		return nil
	default:
	}

	buffer := make([]byte, maxRecvSize)
	n, err := conn.Read(buffer)
	address := conn.RemoteAddr().String()
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("error reading from connection")
		s.deleteClientSession(address)
		return nil
	}

	message, err := ParseMessage(buffer[:n])
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("error parsing message")
		s.deleteClientSession(address)
		return nil
	}

	s.clientMessages <- ClientMessage{message: message, clientAddress: address}
	requeued = true
	s.pool.AddTask(conn)
	return nil
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = ClientSession{conn: conn}
}

func (s *Server) deleteClientSession(address string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, address)
}
