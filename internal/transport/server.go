package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/common"
	"matchcore/internal/engine"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = 30 * time.Second
)

var ErrUnknownClient = errors.New("client does not exist")

// clientSession tracks one connected TCP client, addressed by the remote
// address of its connection.
type clientSession struct {
	conn net.Conn
}

// clientCommand links a parsed command to the client session that sent it.
type clientCommand struct {
	clientAddress string
	cmd           common.RawCommand
}

// clientQuery links a parsed trade-tape query to the client session that
// sent it.
type clientQuery struct {
	clientAddress string
	query         TradeQuery
}

// Server is a TCP front end over one MatcherEngine. Every connection is
// read concurrently by the worker pool, but every parsed command is
// funneled through sessionHandler, a single goroutine that owns the
// engine — this is what keeps MatcherEngine.Ingest calls serialized even
// though many clients may be connected at once.
type Server struct {
	address string
	port    int
	engine  *engine.MatcherEngine

	pool       *workerPool
	cancel     context.CancelFunc
	sessLk     sync.Mutex
	clients    map[string]clientSession
	inbox      chan clientCommand
	queryInbox chan clientQuery
}

// New returns a server that will route every incoming command to eng.
func New(address string, port int, eng *engine.MatcherEngine) *Server {
	return &Server{
		address:    address,
		port:       port,
		engine:     eng,
		pool:       newWorkerPool(defaultNWorkers),
		clients:    make(map[string]clientSession),
		inbox:      make(chan clientCommand, 1),
		queryInbox: make(chan clientQuery, 1),
	}
}

// Shutdown tears down the listener and every worker goroutine.
func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run accepts connections until ctx is canceled or Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return err
	}
	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.run(t, s.handleConnection)
		return nil
	})
	t.Go(func() error { return s.sessionHandler(t) })

	log.Info().Str("address", listener.Addr().String()).Msg("server listening")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("error accepting client")
				continue
			}
			log.Info().Str("address", conn.RemoteAddr().String()).Msg("client connected")
			s.addClientSession(conn)
			s.pool.submit(conn)
		}
	}
}

// sessionHandler is the single writer for s.engine.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case cc := <-s.inbox:
			reqID := uuid.New().String()
			logger := log.With().Str("requestId", reqID).Str("clientAddress", cc.clientAddress).Logger()

			trades, err := s.engine.IngestReporting(cc.cmd)
			if err != nil {
				logger.Error().Err(err).Msg("error ingesting command")
				s.sendReport(cc.clientAddress, Report{Kind: ErrorReport, ErrText: err.Error()})
				continue
			}

			for _, tr := range trades {
				s.sendReport(cc.clientAddress, Report{Kind: TradeReport, Trade: tr})
			}
		case cq := <-s.queryInbox:
			for _, tr := range s.engine.TradesSince(cq.query.Pair, cq.query.Since) {
				s.sendReport(cq.clientAddress, Report{Kind: TradeReport, Trade: tr})
			}
		}
	}
}

func (s *Server) sendReport(clientAddress string, report Report) {
	s.sessLk.Lock()
	client, ok := s.clients[clientAddress]
	s.sessLk.Unlock()
	if !ok {
		log.Warn().Str("clientAddress", clientAddress).Msg("dropping report: client gone")
		return
	}
	if _, err := client.conn.Write(report.Serialize()); err != nil {
		log.Error().Err(err).Str("clientAddress", clientAddress).Msg("unable to send report")
		s.deleteClientSession(clientAddress)
	}
}

// handleConnection is a worker-pool task: read one message off conn, hand
// it to sessionHandler, then resubmit the connection for its next message.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("unexpected task type %T", task)
	}

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("failed setting deadline")
		return nil
	}

	buffer := make([]byte, maxRecvSize)
	select {
	case <-t.Dying():
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			s.deleteClientSession(conn.RemoteAddr().String())
			return nil
		}

		address := conn.RemoteAddr().String()
		if n < BaseMessageHeaderLen {
			s.sendReport(address, Report{Kind: ErrorReport, ErrText: ErrMessageTooShort.Error()})
			s.pool.submit(conn)
			return nil
		}

		switch MessageType(buffer[0]) {
		case QueryMessage:
			q, err := parseQuery(buffer[1:n])
			if err != nil {
				log.Error().Err(err).Str("address", address).Msg("error parsing query")
				s.sendReport(address, Report{Kind: ErrorReport, ErrText: err.Error()})
				s.pool.submit(conn)
				return nil
			}
			s.queryInbox <- clientQuery{clientAddress: address, query: q}
		default:
			cmd, err := parseMessage(buffer[:n])
			if err != nil {
				log.Error().Err(err).Str("address", address).Msg("error parsing message")
				s.sendReport(address, Report{Kind: ErrorReport, ErrText: err.Error()})
				s.pool.submit(conn)
				return nil
			}
			s.inbox <- clientCommand{clientAddress: address, cmd: cmd}
		}
		s.pool.submit(conn)
	}
	return nil
}

func (s *Server) addClientSession(conn net.Conn) {
	s.sessLk.Lock()
	defer s.sessLk.Unlock()
	s.clients[conn.RemoteAddr().String()] = clientSession{conn: conn}
}

func (s *Server) deleteClientSession(address string) {
	s.sessLk.Lock()
	defer s.sessLk.Unlock()
	delete(s.clients, address)
}
