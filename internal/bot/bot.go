package bot

import (
	"errors"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
)

var ErrNoLegalMoves = errors.New("no legal moves available")

// The alpha-beta window starts wider than the ±1 score range so the sentinel
// bounds can never prune a real line.
const (
	alphaInit = -10
	betaInit  = 10
)

// BestMove - picks a move for mark via minimax with alpha-beta pruning.
// depthLimit <= 0 searches to the end of the game. For a fixed board and mark
// the result is always the same position: candidates are only replaced on a
// strict improvement, so ties keep the lowest position found first.
func BestMove(game *entity.Game, mark string, depthLimit int) (int, int, error) {
	pos, val := minimax(game, mark, alphaInit, betaInit, 0, depthLimit)

	// The recursion yields no move when the root itself is terminal or
	// depth-limited to zero; fall back to the first legal move.
	if pos == 0 {
		legal := game.LegalMoves()
		if len(legal) == 0 {
			return 0, val, ErrNoLegalMoves
		}
		pos = legal[0]
	}

	return pos, val, nil
}

func minimax(game *entity.Game, mark string, alpha, beta, depth, depthLimit int) (int, int) {
	if game.IsTerminal() || (depthLimit > 0 && depth >= depthLimit) {
		return 0, game.Score(mark)
	}

	if game.Turn == mark {
		return maximize(game, mark, alpha, beta, depth, depthLimit)
	}
	return minimize(game, mark, alpha, beta, depth, depthLimit)
}

func maximize(game *entity.Game, mark string, alpha, beta, depth, depthLimit int) (int, int) {
	bestPos := 0
	bestVal := alphaInit

	for _, pos := range game.LegalMoves() {
		next := game.Clone()
		_ = next.Play(pos) // legal by construction

		_, val := minimax(next, mark, alpha, beta, depth+1, depthLimit)
		if val > bestVal {
			bestVal, bestPos = val, pos
		}

		if val > alpha {
			alpha = val
		}
		if beta <= alpha {
			break
		}
	}

	return bestPos, bestVal
}

func minimize(game *entity.Game, mark string, alpha, beta, depth, depthLimit int) (int, int) {
	bestPos := 0
	bestVal := betaInit

	for _, pos := range game.LegalMoves() {
		next := game.Clone()
		_ = next.Play(pos)

		_, val := minimax(next, mark, alpha, beta, depth+1, depthLimit)
		if val < bestVal {
			bestVal, bestPos = val, pos
		}

		if val < beta {
			beta = val
		}
		if beta <= alpha {
			break
		}
	}

	return bestPos, bestVal
}
