package recognizer

import (
	"github.com/kiwicore/morlock/pkg/bitbase"
	"github.com/kiwicore/morlock/pkg/board"
)

// kpkWinScore is the nominal score credited to the strong side in a won KPK endgame,
// shaded down by how far the pawn and king still have to go; matches the constant named
// kpkWinScore in the original recognizer.
const kpkWinScore board.Score = 700

var kpkPresenceKey = signatureKey([]board.Piece{board.Pawn}, nil)

// registerKPK wires the KPK handler for both material orientations (white pawn up, black
// pawn up) under the single presence key a lone extra pawn produces -- the handler itself
// tells the two cases apart by checking which side actually holds the pawn.
func registerKPK(t *Table) {
	t.RegisterMirrored(kpkPresenceKey, kpkHandler(t))
}

func kpkHandler(t *Table) Handler {
	return func(pos *board.Position, turn board.Color) Result {
		onePawn := map[board.Piece]int{board.Pawn: 1}
		switch {
		case onlyKingAndPieces(pos, board.White, onePawn) && bareKing(pos, board.Black):
			return kpkEvaluate(t, pos, board.White, turn)
		case onlyKingAndPieces(pos, board.Black, onePawn) && bareKing(pos, board.White):
			return kpkEvaluate(t, pos, board.Black, turn)
		default:
			return Result{Kind: Unknown}
		}
	}
}

// kpkEvaluate re-expresses the position in the strong side's frame (pawn always advancing
// towards rank 8, as the formulas assume) and converts the result back to turn-relative
// terms.
func kpkEvaluate(t *Table, pos *board.Position, strong board.Color, turn board.Color) Result {
	wk := pos.King(strong)
	bk := pos.King(strong.Opponent())
	pawn := pos.Pieces(strong, board.Pawn).ToSquares()[0]

	if strong == board.Black {
		wk, bk, pawn = flipRank(wk), flipRank(bk), flipRank(pawn)
	}

	r := kpkFormula(t, wk, bk, pawn, turn == strong)
	if turn != strong {
		r = r.Negate()
	}
	return r
}

// kpkFormula is the core KPK evaluator, grounded on original_source/src/recognizer.cxx's
// evaluatorForKPK: wk/bk/pawn are already in the strong side's frame (pawn queens on rank
// 8), and strongToMove reports whether the strong side is to move. The result is relative
// to the strong side.
func kpkFormula(t *Table, wk, bk, pawn board.Square, strongToMove bool) Result {
	if win, ok := t.kpkProbe(wk, bk, pawn, strongToMove); ok {
		if win {
			return lowerBound(kpkBitbaseScore(wk, bk, pawn))
		}
		return exact(board.DrawScore)
	}
	return kpkFallback(wk, bk, pawn, strongToMove)
}

func kpkBitbaseScore(wk, bk, pawn board.Square) board.Score {
	rankToGo := 7 - pawn.Rank().V()
	fileSpread := bitbase.StdFile(bk.File()) - bitbase.StdFile(pawn.File())
	if fileSpread < 0 {
		fileSpread = -fileSpread
	}
	return kpkWinScore - board.Score(12*rankToGo) - board.Score(4*board.Distance(wk, pawn)) + board.Score(2*fileSpread)
}

func (t *Table) kpkProbe(wk, bk, pawn board.Square, wtm bool) (win bool, ok bool) {
	pa := t.bitbaseFor("kpk", wtm)
	if pa == nil {
		return false, false
	}
	fwk, fbk, fpieces := bitbase.Fold(wk, bk, []board.Square{pawn})
	idx := bitbase.Index(fwk, fbk, fpieces, []bool{true})
	return pa.Get(idx) != 0, true
}

// kpkFallback is a hand-coded KPK heuristic used when no bitbase is loaded. It ports a
// representative subset of evaluatorForKPK's ~15 branches -- the rule of the square, one
// rook-pawn wrong-corner fortress, and the named B6/A8 stalemate trap -- rather than the
// full branch table; see DESIGN.md for the scope decision. Any position none of these
// branches recognize returns Unknown, deferring to ordinary search and evaluation.
func kpkFallback(wk, bk, pawn board.Square, strongToMove bool) Result {
	if bitbase.StdFile(pawn.File()) >= 4 {
		wk, bk, pawn = bitbase.ReflectSquare(wk), bitbase.ReflectSquare(bk), bitbase.ReflectSquare(pawn)
	}

	a8 := board.NewSquare(board.FileA, board.Rank8)
	b6 := board.NewSquare(board.FileB, board.Rank6)
	c8 := board.NewSquare(board.FileC, board.Rank8)
	c7 := board.NewSquare(board.FileC, board.Rank7)
	if bk == a8 && pawn == b6 && (wk == c8 || wk == c7) {
		return exact(board.DrawScore)
	}

	if bitbase.StdFile(pawn.File()) == 0 {
		bf := bitbase.StdFile(bk.File())
		if bf <= 1 && bk.Rank().V() >= pawn.Rank().V() {
			return exact(board.DrawScore)
		}
	}

	promotion := board.NewSquare(pawn.File(), board.Rank8)
	pawnDist := 7 - pawn.Rank().V()
	bkDist := board.Distance(bk, promotion)
	if !strongToMove {
		bkDist--
	}
	if bkDist > pawnDist {
		return lowerBound(kpkBitbaseScore(wk, bk, pawn))
	}

	if strongToMove && board.Distance(wk, pawn) <= 1 && bitbase.StdFile(wk.File()) == bitbase.StdFile(pawn.File()) && wk.Rank().V() > pawn.Rank().V() {
		return lowerBound(kpkBitbaseScore(wk, bk, pawn))
	}

	return Result{Kind: Unknown}
}
