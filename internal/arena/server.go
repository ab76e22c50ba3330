package arena

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/protocol"
)

const defaultHandshakeTimeout = 10 * time.Second

// ResultRecorder persists finished-match summaries.
type ResultRecorder interface {
	Record(ctx context.Context, result *entity.MatchResult) error
}

// Server accepts connections, authenticates them against the shared access
// pin and pairs the first two unmatched participants into a session. At most
// one participant is ever parked waiting.
type Server struct {
	logger   *slog.Logger
	pin      string
	recorder ResultRecorder

	handshakeTimeout time.Duration

	mu       sync.Mutex
	waiting  *Participant
	sessions map[*Session]struct{}
}

func New(logger *slog.Logger, pin string, recorder ResultRecorder) *Server {
	return &Server{
		logger:           logger,
		pin:              pin,
		recorder:         recorder,
		handshakeTimeout: defaultHandshakeTimeout,
		sessions:         make(map[*Session]struct{}),
	}
}

// Start - binds the listening socket and serves until the context is
// cancelled. A bind failure aborts startup.
func (that *Server) Start(ctx context.Context, addr string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return that.Serve(ctx, listener)
}

// Serve - runs the accept loop on an existing listener.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("component", "arena", "method", "Serve")
	log.Info("accepting connections", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		go that.handle(ctx, conn)
	}
}

// handle - runs the handshake for one connection, then parks it in the
// waiting slot or pairs it with the participant already waiting.
func (that *Server) handle(ctx context.Context, conn net.Conn) {
	log := that.logger.With("component", "arena", "method", "handle", "remote", conn.RemoteAddr().String())
	log.Info("connection accepted")

	codec := protocol.NewCodec(conn)

	// Only the handshake is bounded; once seated, a silent peer may hold its
	// seat until it disconnects or quits.
	_ = conn.SetReadDeadline(time.Now().Add(that.handshakeTimeout))

	hello, err := codec.ReadClient()
	if err != nil {
		log.Info("no handshake received", "error", err)
		_ = conn.Close()
		return
	}

	_ = conn.SetReadDeadline(time.Time{})

	if hello.Type == protocol.TypeError || hello.Pin != that.pin {
		log.Info("authentication failed")
		_ = codec.Write(&protocol.AuthFailedMessage{Error: protocol.ErrAuthFailed})
		_ = conn.Close()
		return
	}

	name := hello.Name
	if name == "" {
		name = "Player"
	}

	participant := NewParticipant(name, conn, codec)

	that.mu.Lock()
	if that.waiting == nil {
		that.waiting = participant
		that.mu.Unlock()

		participant.send(&protocol.StatusMessage{Status: protocol.StatusWaiting})
		log.Info("participant parked", "name", name)
		return
	}

	opponent := that.waiting
	that.waiting = nil
	that.mu.Unlock()

	var session *Session
	session = NewSession(that.logger, opponent, participant, func(result *entity.MatchResult) {
		that.finishSession(ctx, session, result)
	})

	that.mu.Lock()
	that.sessions[session] = struct{}{}
	that.mu.Unlock()

	session.Start()
}

// finishSession - deregisters a closed session and, when an archive is
// configured, records the result.
func (that *Server) finishSession(ctx context.Context, session *Session, result *entity.MatchResult) {
	log := that.logger.With("component", "arena", "method", "finishSession")

	that.mu.Lock()
	delete(that.sessions, session)
	that.mu.Unlock()

	if that.recorder == nil {
		return
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := that.recorder.Record(recordCtx, result); err != nil {
		log.Error("failed to record match result", "match_id", result.ID, "error", err)
	}
}

// ActiveSessions - number of live sessions, used by tests and logging.
func (that *Server) ActiveSessions() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}
