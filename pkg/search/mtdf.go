package search

import (
	"context"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/eval"
)

// MTDf drives Root with a sequence of minimal (null-window) searches that converge on the
// true minimax score, rather than searching a wide alpha-beta window once: each probe costs
// less than a full-window search, and a well-populated transposition table makes successive
// probes cheap by remembering most of the previous probe's tree.
type MTDf struct {
	Root  Search
	Guess board.Score // first guess at the score, typically the previous iteration's result
}

// Search runs MTD(f) to depth, starting the null-window walk from f.Guess (or a draw score,
// if unset).
func (f MTDf) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	g := f.Guess
	lower, upper := eval.NegInfScore, eval.InfScore

	var nodes uint64
	var moves []board.Move

	for lower < upper {
		beta := g
		if g == lower {
			beta = g + 1
		}

		sub := *sctx
		sub.Alpha, sub.Beta = beta-1, beta

		n, score, pv, err := f.Root.Search(ctx, &sub, b, depth)
		nodes += n
		if err != nil {
			return nodes, g, moves, err
		}
		if len(pv) > 0 {
			moves = pv
		}
		g = score

		if g < beta {
			upper = g
		} else {
			lower = g
		}
	}
	return nodes, g, moves, nil
}
