package protocol

import "github.com/rocketscienceinc/tictactoe-netplay/internal/entity"

const (
	TypeHello    = "hello"
	TypeMove     = "move"
	TypeQuit     = "quit"
	TypeState    = "state"
	TypeYourTurn = "your_turn"
	TypeEnd      = "end"
	TypeError    = "error"
)

const (
	StatusWaiting = "waiting_for_opponent"
	StatusMatched = "matched"
)

const (
	ReasonWinner       = "winner"
	ReasonDraw         = "draw"
	ReasonOpponentQuit = "opponent_quit"
	ReasonDisconnect   = "disconnect"
)

const (
	ErrBadJSON     = "bad_json"
	ErrAuthFailed  = "auth_failed"
	ErrNotYourTurn = "not_your_turn"
	ErrInvalidMove = "invalid_move"
)

// ClientMessage is everything a client may send: hello{name,pin},
// move{idx} and quit. An unparseable line decodes into the synthetic
// {type:"error",error:"bad_json"} value instead of failing the read.
type ClientMessage struct {
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Pin   string `json:"pin,omitempty"`
	Idx   int    `json:"idx,omitempty"`
	Error string `json:"error,omitempty"`
}

// StatusMessage - matchmaking progress: waiting_for_opponent, then matched
// with the assigned mark and the opponent's display name.
type StatusMessage struct {
	Status   string `json:"status"`
	You      string `json:"you,omitempty"`
	Opponent string `json:"opponent,omitempty"`
}

// StateMessage - full board broadcast after every accepted move. Winner stays
// null until a mark owns a line, including on a draw.
type StateMessage struct {
	Type     string   `json:"type"`
	Board    []string `json:"board"`
	Turn     string   `json:"turn"`
	Terminal bool     `json:"terminal"`
	Winner   *string  `json:"winner"`
}

type YourTurnMessage struct {
	Type string `json:"type"`
}

type EndMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// AuthFailedMessage - the one server reply without a type field; the wire
// format predates the typed vocabulary and clients match on the error key.
type AuthFailedMessage struct {
	Error string `json:"error"`
}

// ServerMessage is the client-side decode target covering every server
// message shape.
type ServerMessage struct {
	Type     string   `json:"type,omitempty"`
	Status   string   `json:"status,omitempty"`
	You      string   `json:"you,omitempty"`
	Opponent string   `json:"opponent,omitempty"`
	Board    []string `json:"board,omitempty"`
	Turn     string   `json:"turn,omitempty"`
	Terminal bool     `json:"terminal,omitempty"`
	Winner   *string  `json:"winner,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// NewStateMessage - snapshots a game into its wire form.
func NewStateMessage(game *entity.Game) *StateMessage {
	var winner *string
	if w := game.Winner(); w != entity.EmptyCell {
		winner = &w
	}

	return &StateMessage{
		Type:     TypeState,
		Board:    append([]string(nil), game.Board[:]...),
		Turn:     game.Turn,
		Terminal: game.IsTerminal(),
		Winner:   winner,
	}
}

func NewYourTurnMessage() *YourTurnMessage {
	return &YourTurnMessage{Type: TypeYourTurn}
}

func NewEndMessage(reason string) *EndMessage {
	return &EndMessage{Type: TypeEnd, Reason: reason}
}

func NewErrorMessage(code string) *ErrorMessage {
	return &ErrorMessage{Type: TypeError, Error: code}
}
