package search

import (
	"context"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/kiwicore/morlock/pkg/recognizer"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Negamax implements fail-soft negamax search with transposition-table cutoffs, null-move
// pruning, futility pruning at the frontier, check extensions, and a quiescence search at
// the horizon. Each recursive call returns the positive score for the side to move.
//
// Mate scores are always encoded relative to the search root (board.Mate-ply, per
// board.Score's convention), never renormalized per node: ply is threaded through every
// recursive call as the absolute distance from the root, so a mate detected at any depth
// bakes in its true root-relative distance once, at the point of detection, and needs no
// further adjustment as it propagates back up through plain negation.
type Negamax struct {
	Eval *eval.Evaluator
	// Recognizer, if set, is consulted at every node right after the transposition-table
	// probe (a TT cutoff returns first): a won or drawn endgame recognized exactly is true
	// at any depth, so it is checked ahead of (and can short-circuit) the normal
	// depth-limited search.
	Recognizer *recognizer.Table
}

// nullMoveReduction is the depth reduction (R) applied to the verification search after a
// null move: reduced more aggressively at higher depth, as is standard practice.
func nullMoveReduction(depth int) int {
	if depth > 6 {
		return 3
	}
	return 2
}

const (
	// futilityMargin bounds how much a quiet move at the frontier ply could plausibly gain;
	// if the static eval plus this margin still can't reach alpha, the move is skipped.
	futilityMargin board.Score = 125
	// minNullMoveDepth is the shallowest depth at which null-move pruning is attempted.
	minNullMoveDepth = 3
)

func (n Negamax) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	r := &runNegamax{
		eval:       n.Eval,
		tt:         sctx.TT,
		noise:      sctx.Noise,
		recognizer: n.Recognizer,
		b:          b,
	}
	if r.tt == nil {
		r.tt = NoTranspositionTable{}
	}
	if t, ok := r.tt.(*table); ok {
		r.searchID = t.NextSearch()
	}

	low, high := sctx.Alpha, sctx.Beta
	if low == 0 && high == 0 {
		low, high = eval.NegInfScore, eval.InfScore
	}

	score, moves := r.search(ctx, 0, depth, low, high, true)
	if contextx.IsCancelled(ctx) {
		return r.nodes, 0, nil, ErrHalted
	}
	return r.nodes, score, moves, nil
}

type runNegamax struct {
	eval       *eval.Evaluator
	tt         TranspositionTable
	noise      eval.Random
	recognizer *recognizer.Table
	b          *board.Board
	nodes      uint64
	searchID   uint8
	killers    [64][2]board.Move
}

func (r *runNegamax) killersAt(ply int) [2]board.Move {
	if ply >= len(r.killers) {
		return [2]board.Move{}
	}
	return r.killers[ply]
}

func (r *runNegamax) recordKiller(ply int, m board.Move) {
	if ply >= len(r.killers) || m.IsCapture() {
		return
	}
	if r.killers[ply][0].Equals(m) {
		return
	}
	r.killers[ply][1] = r.killers[ply][0]
	r.killers[ply][0] = m
}

// search returns the fail-soft negamax score for the side to move, and the principal
// variation from this node (shallowest move first), or nil if none was established.
func (r *runNegamax) search(ctx context.Context, ply, depth int, alpha, beta board.Score, nullOk bool) (board.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return 0, nil
	}
	if r.b.Result().Outcome == board.Draw {
		return board.DrawScore, nil
	}

	hash := r.b.Hash()
	turn := r.b.Turn()
	var hashMove board.Move
	hasHashMove := false
	if bound, d, score, move, ok := r.tt.Read(hash); ok {
		hashMove, hasHashMove = move, true
		if d >= depth {
			switch bound {
			case ExactBound:
				return score, nil
			case LowerBound:
				if score > alpha {
					alpha = score
				}
			case UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score, nil
			}
		}
	}

	// A recognizer verdict is exact at any depth, so it is checked ahead of the normal
	// depth cutoff: an Exact result ends the node outright, and a bound tightens the
	// window exactly as a transposition-table bound would.
	if r.recognizer != nil {
		if res := r.recognizer.Probe(r.b.Position(), turn); res.Kind != recognizer.Unknown {
			r.nodes++
			switch res.Kind {
			case recognizer.Exact:
				r.tt.Write(hash, ExactBound, r.searchID, depth, res.Score, board.Move{})
				return res.Score, nil
			case recognizer.LowerBound:
				if res.Score >= beta {
					r.tt.Write(hash, LowerBound, r.searchID, depth, res.Score, board.Move{})
					return res.Score, nil
				}
				if res.Score > alpha {
					alpha = res.Score
				}
			case recognizer.UpperBound:
				if res.Score <= alpha {
					r.tt.Write(hash, UpperBound, r.searchID, depth, res.Score, board.Move{})
					return res.Score, nil
				}
				if res.Score < beta {
					beta = res.Score
				}
			}
		}
	}

	if depth <= 0 {
		r.nodes++
		score := (Quiescence{Eval: r.eval, Recognizer: r.recognizer}).search(ctx, r.b, ply, alpha, beta)
		if !score.IsMateScore() {
			score += r.noise.Evaluate()
		}
		r.tt.Write(hash, ExactBound, r.searchID, 0, score, board.Move{})
		return score, nil
	}

	r.nodes++

	inCheck := r.b.Position().IsChecked(turn)

	// Null-move pruning: if the opponent, given a free move, still can't beat beta, this
	// position is so good that a real move will do at least as well. Skipped in check (a
	// null move can't legally "escape" check) and with only pawns left (zugzwang risk).
	if nullOk && !inCheck && depth >= minNullMoveDepth && hasNonPawnMaterial(r.b, turn) && beta < eval.InfScore {
		r.b.PushNullMove()
		nscore, _ := r.search(ctx, ply+1, depth-1-nullMoveReduction(depth), -beta, -beta+1, false)
		nscore = -nscore
		r.b.PopNullMove()

		if nscore >= beta {
			return nscore, nil
		}
	}

	// Check extension: a position left in check is searched one ply deeper, so a forced
	// sequence of checks doesn't get cut off right before it resolves.
	searchDepth := depth
	if inCheck {
		searchDepth++
	}

	futile := false
	if !inCheck && searchDepth <= 2 {
		staticEval := r.eval.Evaluate(r.b.Position())
		if turn == board.Black {
			staticEval = -staticEval
		}
		futile = staticEval+futilityMargin*board.Score(searchDepth) <= alpha
	}

	handler := NewMoveHandler(r.b.Position(), turn, hashMove, hasHashMove, r.killersAt(ply))

	hasLegalMove := false
	bound := UpperBound
	var pv []board.Move
	var bestMove board.Move

	for {
		move, ok := handler.Next()
		if !ok {
			break
		}

		isQuiet := !move.IsCapture() && !move.IsPromotion()
		if futile && isQuiet && hasLegalMove {
			continue // skip: can't plausibly raise alpha at this shallow depth
		}

		if !r.b.PushMove(move) {
			continue
		}
		hasLegalMove = true

		score, rem := r.search(ctx, ply+1, searchDepth-1, -beta, -alpha, true)
		score = -score

		r.b.PopMove()

		if score > alpha {
			alpha = score
			bestMove = move
			pv = append([]board.Move{move}, rem...)
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			r.recordKiller(ply, move)
			break
		}
	}

	if !hasLegalMove {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			// Encoded once, here, as the true distance from this call's root: every level
			// above propagates it by negation alone (see the package doc comment).
			return -board.Mate + board.Score(ply), nil
		}
		return board.DrawScore, nil
	}

	r.tt.Write(hash, bound, r.searchID, depth, alpha, bestMove)
	return alpha, pv
}

func hasNonPawnMaterial(b *board.Board, c board.Color) bool {
	counter := b.Position().Counter(c)
	return counter.Major() > 0 || counter.Minor() > 0
}
