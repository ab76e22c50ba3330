package arena

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/protocol"
)

// Session owns exactly one match between two paired participants: it enforces
// turn order, applies accepted moves to the board and broadcasts the
// resulting state. The first seat plays X, the second O.
type Session struct {
	logger  *slog.Logger
	id      string
	game    *entity.Game
	players map[string]*Participant
	onClose func(*entity.MatchResult)

	mu     sync.Mutex
	closed bool
}

func NewSession(logger *slog.Logger, first, second *Participant, onClose func(*entity.MatchResult)) *Session {
	first.Mark = entity.PlayerX
	second.Mark = entity.PlayerO

	id := GenerateMatchID()

	return &Session{
		logger: logger.With("component", "session", "match_id", id),
		id:     id,
		game:   entity.NewGame(),
		players: map[string]*Participant{
			entity.PlayerX: first,
			entity.PlayerO: second,
		},
		onClose: onClose,
	}
}

// Start - announces the pairing to both seats, broadcasts the initial state,
// prompts X and runs one receive loop per participant.
func (that *Session) Start() {
	playerX := that.players[entity.PlayerX]
	playerO := that.players[entity.PlayerO]

	that.logger.Info("match started", "player_x", playerX.Name, "player_o", playerO.Name)

	playerX.send(&protocol.StatusMessage{Status: protocol.StatusMatched, You: entity.PlayerX, Opponent: playerO.Name})
	playerO.send(&protocol.StatusMessage{Status: protocol.StatusMatched, You: entity.PlayerO, Opponent: playerX.Name})

	that.broadcast(protocol.NewStateMessage(that.game))
	playerX.send(protocol.NewYourTurnMessage())

	go that.listen(entity.PlayerX)
	go that.listen(entity.PlayerO)
}

// listen - receive loop for one seat; returns when the session closes or the
// seat's stream ends.
func (that *Session) listen(mark string) {
	log := that.logger.With("method", "listen", "mark", mark)

	player := that.players[mark]
	peer := that.players[entity.OpponentMark(mark)]

	for {
		message, err := player.codec.ReadClient()
		if err != nil {
			that.close(peer, protocol.ReasonDisconnect)
			return
		}

		if that.isClosed() {
			return
		}

		switch message.Type {
		case protocol.TypeMove:
			if finished := that.handleMove(mark, message.Idx); finished {
				return
			}
		case protocol.TypeQuit:
			log.Info("participant quit", "name", player.Name)
			that.close(peer, protocol.ReasonOpponentQuit)
			return
		default:
			// Unknown types are dropped without a reply. This covers the
			// synthetic bad_json value from the codec as well.
			log.Debug("ignoring message", "type", message.Type)
		}
	}
}

// handleMove - validates and applies one move as a single uninterrupted step,
// so moves from the two seats are linearized against the board. Reports
// whether the move ended the match.
func (that *Session) handleMove(mark string, idx int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return true
	}

	player := that.players[mark]

	if that.game.Turn != mark {
		player.send(protocol.NewErrorMessage(protocol.ErrNotYourTurn))
		return false
	}

	if err := that.game.Play(idx); err != nil {
		player.send(protocol.NewErrorMessage(protocol.ErrInvalidMove))
		return false
	}

	that.broadcast(protocol.NewStateMessage(that.game))

	if that.game.IsTerminal() {
		reason := protocol.ReasonDraw
		if that.game.Winner() != entity.EmptyCell {
			reason = protocol.ReasonWinner
		}

		that.broadcast(protocol.NewEndMessage(reason))
		that.finishLocked(reason)

		return true
	}

	that.players[that.game.Turn].send(protocol.NewYourTurnMessage())

	return false
}

// close - terminates the session on quit or peer loss, notifying the
// remaining participant. A second trigger is a no-op.
func (that *Session) close(peer *Participant, reason string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	peer.send(protocol.NewEndMessage(reason))
	that.finishLocked(reason)
}

// finishLocked - flips the closed flag, releases both streams and reports the
// result. Caller must hold the mutex.
func (that *Session) finishLocked(reason string) {
	that.closed = true

	result := &entity.MatchResult{
		ID:         that.id,
		Winner:     that.game.Winner(),
		Reason:     reason,
		PlayerX:    that.players[entity.PlayerX].Name,
		PlayerO:    that.players[entity.PlayerO].Name,
		FinishedAt: time.Now().UTC(),
	}

	for _, player := range that.players {
		player.close()
	}

	that.logger.Info("match closed", "reason", reason, "winner", result.Winner)

	if that.onClose != nil {
		go that.onClose(result)
	}
}

func (that *Session) isClosed() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.closed
}

func (that *Session) broadcast(message any) {
	for _, player := range that.players {
		player.send(message)
	}
}
