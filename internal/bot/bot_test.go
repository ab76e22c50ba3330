package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
)

func TestBestMove_EmptyBoardOpening(t *testing.T) {
	// Given: an empty board with X to move
	game := entity.NewGame()

	// When: searching at full depth
	pos, val, err := BestMove(game, entity.PlayerX, 0)

	// Then: optimal play from both sides is a draw, and the opening move is
	// the center or a corner
	require.NoError(t, err)
	assert.Equal(t, 0, val)
	assert.Contains(t, []int{1, 3, 5, 7, 9}, pos)
}

func TestBestMove_Deterministic(t *testing.T) {
	// Given: a mid-game position
	game := entity.NewGame()
	require.NoError(t, game.Play(5))
	require.NoError(t, game.Play(1))

	// When: searching the same position repeatedly
	first, _, err := BestMove(game, entity.PlayerX, 0)
	require.NoError(t, err)

	// Then: every call returns the identical position
	for i := 0; i < 10; i++ {
		pos, _, err := BestMove(game, entity.PlayerX, 0)
		require.NoError(t, err)
		require.Equal(t, first, pos)
	}
}

func TestBestMove_TakesImmediateWin(t *testing.T) {
	// Given: X has two on the top row and it is X's turn
	game := &entity.Game{
		Board: [9]string{entity.PlayerX, entity.PlayerX, entity.EmptyCell, entity.PlayerO, entity.PlayerO, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell},
		Turn:  entity.PlayerX,
	}

	// When: X searches
	pos, val, err := BestMove(game, entity.PlayerX, 0)

	// Then: X completes the row and the evaluation is a win
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
	assert.Equal(t, 1, val)
}

func TestBestMove_BlocksOpponentWin(t *testing.T) {
	// Given: O threatens the top row and it is X's turn
	game := &entity.Game{
		Board: [9]string{entity.PlayerO, entity.PlayerO, entity.EmptyCell, entity.PlayerX, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell},
		Turn:  entity.PlayerX,
	}

	// When: X searches at full depth
	pos, _, err := BestMove(game, entity.PlayerX, 0)

	// Then: X blocks at position 3
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
}

func TestBestMove_TieBreakKeepsLowestPosition(t *testing.T) {
	// Given: a depth limit of one ply, so every candidate scores zero
	game := entity.NewGame()
	require.NoError(t, game.Play(5))

	// When: O searches one ply deep
	pos, val, err := BestMove(game, entity.PlayerO, 1)

	// Then: all siblings tie at zero and the first legal position wins
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 0, val)
}

func TestBestMove_CornerOpeningAnsweredWithCenter(t *testing.T) {
	// Given: X opened in a corner
	game := entity.NewGame()
	require.NoError(t, game.Play(1))

	// When: O searches at full depth
	pos, val, err := BestMove(game, entity.PlayerO, 0)

	// Then: only the center holds the draw against a corner opening
	require.NoError(t, err)
	assert.Equal(t, 5, pos)
	assert.Equal(t, 0, val)
}

func TestBestMove_TerminalRootFallsBackToFirstLegal(t *testing.T) {
	// Given: the game is already decided but cells remain
	game := &entity.Game{
		Board: [9]string{entity.PlayerX, entity.PlayerX, entity.PlayerX, entity.PlayerO, entity.PlayerO, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell, entity.EmptyCell},
		Turn:  entity.PlayerO,
	}

	// When: O searches the terminal position
	pos, val, err := BestMove(game, entity.PlayerO, 0)

	// Then: the first empty position comes back with the terminal score
	require.NoError(t, err)
	assert.Equal(t, 6, pos)
	assert.Equal(t, -1, val)
}

func TestBestMove_NoLegalMoves(t *testing.T) {
	// Given: a completely full board
	game := &entity.Game{
		Board: [9]string{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX, entity.PlayerX,
		},
		Turn: entity.PlayerO,
	}

	// When: searching with nowhere to play
	_, _, err := BestMove(game, entity.PlayerO, 0)

	// Then: ErrNoLegalMoves is returned
	require.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestBestMove_OptimalPlayAlwaysDraws(t *testing.T) {
	// Given: two full-depth opponents playing each other from an empty board
	game := entity.NewGame()

	// When: the whole game is played out
	for !game.IsTerminal() {
		pos, _, err := BestMove(game, game.Turn, 0)
		require.NoError(t, err)
		require.NoError(t, game.Play(pos))
	}

	// Then: the result is a draw, never a win for either side
	require.Equal(t, entity.EmptyCell, game.Winner())
	require.True(t, game.IsTerminal())
	require.Empty(t, game.LegalMoves())
}
