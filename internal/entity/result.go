package entity

import "time"

// MatchResult is the archived summary of one finished match. Live games are
// never stored; only terminal outcomes end up here.
type MatchResult struct {
	ID         string    `json:"id"`
	Winner     string    `json:"winner,omitempty"`
	Reason     string    `json:"reason"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	FinishedAt time.Time `json:"finished_at"`
}
