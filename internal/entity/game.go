package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

// WinCombos - the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game holds the state of one match: the board cells and the active mark.
// Positions are 1-based (1..9), reading order.
type Game struct {
	Board [9]string `json:"board"`
	Turn  string    `json:"turn"`
}

func NewGame() *Game {
	return &Game{
		Board: [9]string{},
		Turn:  PlayerX,
	}
}

// Clone - returns an independent copy, used by the search to explore branches.
func (that *Game) Clone() *Game {
	copied := *that
	return &copied
}

// LegalMoves - returns all empty cell positions in ascending order.
func (that *Game) LegalMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range that.Board {
		if cell == EmptyCell {
			moves = append(moves, i+1)
		}
	}

	return moves
}

// Play - plays the active mark at pos (1..9). On failure the board is left untouched.
func (that *Game) Play(pos int) error {
	if pos < 1 || pos > BoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidCell, pos)
	}

	if that.Winner() != EmptyCell {
		return apperror.ErrGameFinished
	}

	if that.Board[pos-1] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[pos-1] = that.Turn
	that.Turn = toggleMark(that.Turn)

	return nil
}

// Winner - returns the mark owning a full line, or empty if nobody has won.
func (that *Game) Winner() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Game) IsTerminal() bool {
	if that.Winner() != EmptyCell {
		return true
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Score - evaluates a position for perspective: +1 won, -1 lost, 0 draw or undecided.
// An undecided board scores 0, so a depth-limited search only sees wins it can
// actually reach within its window.
func (that *Game) Score(perspective string) int {
	winner := that.Winner()

	switch {
	case winner == perspective:
		return 1
	case winner != EmptyCell:
		return -1
	default:
		return 0
	}
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// OpponentMark - returns the other seat's mark.
func OpponentMark(mark string) string {
	return toggleMark(mark)
}
