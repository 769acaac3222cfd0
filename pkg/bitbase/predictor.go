package bitbase

import "github.com/kiwicore/morlock/pkg/board"

// Predictors for the 4-piece bitbases, grounded on original_source/src/bitbase_adjust.cxx's
// bbAdjustKPPK/bbAdjustKBPK/bbAdjustKBNK. Each predicts the stored bit for a position from
// cheap geometric rules (often backed by the already-generated KPK bitbase); the codec XORs
// the true value against this prediction before RLE-packing, which concentrates long zero
// runs wherever the prediction is already correct.
//
// KPK itself carries no predictor: it is the base case every other predictor leans on.

// kpkLookup probes a loaded KPK array (indexed the same way as a KPK bitbase, pawn square
// pre-folded to the 0..47 range) for the win bit. It is supplied by the caller wiring a
// predictor to an already-loaded sibling bitbase, keeping this package free of a global
// table.
type kpkLookup func(wtm bool, wk, bk, pawn board.Square) byte

// NewKPPKPredictor builds the KPPK predictor: a position is predicted won if either pawn,
// considered alone with the other removed, is a KPK win for either side to move, or if an
// override rule fires (a pawn already on its 7th rank from the defender's view, or two
// connected/near pawns within 3 files of each other -- both considered likely wins
// regardless of what the lone-pawn probes say).
func NewKPPKPredictor(kpk kpkLookup) Predictor {
	pawns := []bool{true, true}
	return func(wtm bool, idx int) byte {
		wk, bk, pieces := Position(idx, pawns)
		p1, p2 := pieces[0], pieces[1]

		if kpk(true, wk, bk, p1) != 0 || kpk(false, wk, bk, p1) != 0 {
			return 1
		}
		if kpk(true, wk, bk, p2) != 0 || kpk(false, wk, bk, p2) != 0 {
			return 1
		}

		if onSeventh(p1) || onSeventh(p2) {
			return 1
		}
		if connected(p1, p2) {
			return 1
		}
		return 0
	}
}

// onSeventh reports whether a pawn square is one step from promotion (board.Rank7).
func onSeventh(sq board.Square) bool {
	return sq.Rank() == board.Rank7
}

// connected reports whether two pawns sit on adjacent or near files (within the original's
// "3 files" threshold) -- a rough stand-in for mutually-defending/phalanx pawn pairs.
func connected(a, b board.Square) bool {
	df := stdFile(a.File()) - stdFile(b.File())
	if df < 0 {
		df = -df
	}
	return df <= 3
}

// NewKBPKPredictor builds the KBPK predictor: predicts a draw (0) when the pawn promotes
// on a corner square the bishop cannot cover (a rook pawn queening on the wrong color) and
// the defending king can reach that corner, and predicts a win (1) otherwise whenever the
// defending king cannot immediately reach and capture an undefended pawn.
func NewKBPKPredictor() Predictor {
	pieces := []bool{false, true} // bishop, pawn
	return func(wtm bool, idx int) byte {
		wk, bk, sqs := Position(idx, pieces)
		bishop, pawn := sqs[0], sqs[1]

		if isRookPawnWrongBishop(bishop, pawn) && board.Distance(bk, wrongCorner(pawn)) <= 1 {
			return 0
		}
		if board.Distance(bk, pawn) <= 1 && board.Distance(wk, pawn) > 1 {
			return 0
		}
		return 1
	}
}

// isRookPawnWrongBishop reports whether pawn is an a- or h-file pawn whose queening square
// has the opposite color from the bishop -- the classic drawing fortress.
func isRookPawnWrongBishop(bishop, pawn board.Square) bool {
	f := stdFile(pawn.File())
	if f != 0 && f != 7 {
		return false
	}
	queeningSquare := board.NewSquare(pawn.File(), board.Rank8)
	return squareColor(bishop) != squareColor(queeningSquare)
}

func squareColor(sq board.Square) int {
	return (stdFile(sq.File()) + sq.Rank().V()) & 1
}

func wrongCorner(pawn board.Square) board.Square {
	return board.NewSquare(pawn.File(), board.Rank8)
}

// NewKBNKPredictor builds the KBNK predictor: predicts a draw whenever the defending king
// sits adjacent to the bishop or the knight, whether or not that piece is defended, win
// otherwise.
// Mate with bishop and knight is forceable but slow, so this only captures the cheapest,
// most common shortcut and leaves the rest to the true stored bit.
func NewKBNKPredictor() Predictor {
	pieces := []bool{false, false} // bishop, knight
	return func(wtm bool, idx int) byte {
		_, bk, sqs := Position(idx, pieces)
		bishop, knight := sqs[0], sqs[1]

		if board.Distance(bk, bishop) <= 1 || board.Distance(bk, knight) <= 1 {
			return 0
		}
		return 1
	}
}
