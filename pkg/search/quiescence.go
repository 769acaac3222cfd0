package search

import (
	"container/heap"
	"context"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/kiwicore/morlock/pkg/movegen"
	"github.com/kiwicore/morlock/pkg/recognizer"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Quiescence extends the main search past the frontier with captures and check evasions
// only, until the position is "quiet", to avoid the horizon effect of cutting off search
// right before a material exchange resolves.
type Quiescence struct {
	Eval *eval.Evaluator
	// Recognizer, if set, is checked ahead of the stand-pat evaluation at every node: an
	// exact or bounding endgame verdict is at least as informative as a static eval.
	Recognizer *recognizer.Table
}

// QuietSearch runs the quiescence search from b's current position, within sctx's window.
func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score) {
	run := &runQuiescence{eval: q.Eval, recognizer: q.Recognizer, b: b}
	score := run.search(ctx, b, 0, sctx.Alpha, sctx.Beta)
	return run.nodes, score
}

// search returns the fail-soft quiescence score for the side to move, ply plies below the
// enclosing negamax search's root (so a mate found here encodes the same root-relative
// distance negamax.go's checkmate leaves do).
func (q Quiescence) search(ctx context.Context, b *board.Board, ply int, alpha, beta board.Score) board.Score {
	run := &runQuiescence{eval: q.Eval, recognizer: q.Recognizer, b: b}
	return run.search(ctx, b, ply, alpha, beta)
}

type runQuiescence struct {
	eval       *eval.Evaluator
	recognizer *recognizer.Table
	b          *board.Board
	nodes      uint64
}

func (r *runQuiescence) search(ctx context.Context, b *board.Board, ply int, alpha, beta board.Score) board.Score {
	if contextx.IsCancelled(ctx) {
		return board.DrawScore
	}
	if b.Result().Outcome == board.Draw {
		return board.DrawScore
	}

	r.nodes++

	turn := b.Turn()

	if r.recognizer != nil {
		if res := r.recognizer.Probe(b.Position(), turn); res.Kind != recognizer.Unknown {
			switch res.Kind {
			case recognizer.Exact:
				return res.Score
			case recognizer.LowerBound:
				if res.Score >= beta {
					return res.Score
				}
				if res.Score > alpha {
					alpha = res.Score
				}
			case recognizer.UpperBound:
				if res.Score <= alpha {
					return res.Score
				}
			}
		}
	}

	inCheck := b.Position().IsChecked(turn)

	// Stand pat: the side to move may always decline to continue exchanging, so the static
	// evaluation is a lower bound on the score -- unless in check, where standing pat would
	// mean ignoring a forced response.
	if !inCheck {
		standPat := r.eval.Evaluate(b.Position())
		if turn == board.Black {
			standPat = -standPat
		}
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves []board.Move
	if inCheck {
		moves = movegen.GenerateCheckEvasions(b.Position(), turn)
	} else {
		moves = movegen.GenerateTactical(b.Position(), turn)
	}

	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = moveElm{m: m, p: quiescencePriority(m)}
	}
	heap.Init(&h)

	hasLegalMove := false
	for h.Len() > 0 {
		m := heap.Pop(&h).(moveElm).m
		if !b.PushMove(m) {
			continue
		}
		hasLegalMove = true

		score := -r.search(ctx, b, ply+1, -beta, -alpha)

		b.PopMove()

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	if inCheck && !hasLegalMove {
		if result := b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.Mate + board.Score(ply)
		}
		return board.DrawScore
	}

	return alpha
}

func quiescencePriority(m board.Move) Priority {
	if m.IsCapture() {
		return 100*Priority(board.NominalValue(m.Capture)) - Priority(board.NominalValue(m.Piece))
	}
	if m.IsPromotion() {
		return 100 * Priority(board.NominalValue(m.Promotion))
	}
	return 0
}
