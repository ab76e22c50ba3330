package botclient

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/bot"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/protocol"
)

const (
	dialAttempts = 20
	dialBackoff  = 100 * time.Millisecond
)

// Seat - dials the server as an ordinary client and plays one match as the
// automated opponent: every your_turn prompt is answered with a search move.
// Returns when the match ends or the stream closes.
func Seat(ctx context.Context, logger *slog.Logger, addr, pin, name string, depth int) error {
	log := logger.With("component", "botclient", "name", name)

	conn, err := dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	codec := protocol.NewCodec(conn)

	if err = codec.Write(&protocol.ClientMessage{Type: protocol.TypeHello, Name: name, Pin: pin}); err != nil {
		return fmt.Errorf("failed to send hello: %w", err)
	}

	var mark string
	game := entity.NewGame()

	for {
		message, err := codec.ReadServer()
		if err != nil {
			// Stream closed: the session releases both conns when it ends.
			if ctx.Err() != nil {
				return nil
			}
			log.Info("stream closed")
			return nil
		}

		switch {
		case message.Error == protocol.ErrAuthFailed:
			return apperror.ErrAuthFailed

		case message.Status == protocol.StatusMatched:
			mark = message.You
			log.Info("matched", "mark", mark, "opponent", message.Opponent)

		case message.Type == protocol.TypeState:
			game = gameFromState(message)

		case message.Type == protocol.TypeYourTurn:
			pos, _, err := bot.BestMove(game, mark, depth)
			if err != nil {
				return fmt.Errorf("failed to pick a move: %w", err)
			}

			log.Debug("playing", "pos", pos)
			if err = codec.Write(&protocol.ClientMessage{Type: protocol.TypeMove, Idx: pos}); err != nil {
				return fmt.Errorf("failed to send move: %w", err)
			}

		case message.Type == protocol.TypeEnd:
			log.Info("match ended", "reason", message.Reason)
			return nil
		}
	}
}

// dial - retries the connection briefly; the seat is usually started in the
// same instant as the listener it joins.
func dial(ctx context.Context, addr string) (net.Conn, error) {
	var dialer net.Dialer

	var lastErr error
	for attempt := 0; attempt < dialAttempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			return conn, nil
		}

		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}

	return nil, lastErr
}

// gameFromState - rebuilds the board from a state broadcast so the search has
// a position to work on.
func gameFromState(message *protocol.ServerMessage) *entity.Game {
	game := entity.NewGame()

	for i, cell := range message.Board {
		if i >= entity.BoardSize {
			break
		}
		game.Board[i] = cell
	}

	if message.Turn != "" {
		game.Turn = message.Turn
	}

	return game
}
