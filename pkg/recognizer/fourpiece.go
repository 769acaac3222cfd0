package recognizer

import (
	"github.com/kiwicore/morlock/pkg/bitbase"
	"github.com/kiwicore/morlock/pkg/board"
)

// KPPK, KBPK and KBNK are only evaluated via their bitbases (see bitbases.go): unlike KPK,
// the original ships no hand-coded fallback for these, so a missing bitbase simply leaves
// the recognizer silent and search falls through to ordinary evaluation.

const (
	kppkWinScore board.Score = 750
	kbpkWinScore board.Score = 750
	kbnkWinScore board.Score = 800
)

var (
	kppkPresenceKey = signatureKey([]board.Piece{board.Pawn}, nil) // same presence as KPK; counts disambiguate
	kbpkPresenceKey = signatureKey([]board.Piece{board.Bishop, board.Pawn}, nil)
	kbnkPresenceKey = signatureKey([]board.Piece{board.Bishop, board.Knight}, nil)
)

func registerFourPiece(t *Table) {
	t.RegisterMirrored(kppkPresenceKey, kppkHandler(t))
	t.RegisterMirrored(kbpkPresenceKey, kbpkHandler(t))
	t.RegisterMirrored(kbnkPresenceKey, kbnkHandler(t))
}

func kppkHandler(t *Table) Handler {
	return func(pos *board.Position, turn board.Color) Result {
		twoPawns := map[board.Piece]int{board.Pawn: 2}
		switch {
		case onlyKingAndPieces(pos, board.White, twoPawns) && bareKing(pos, board.Black):
			return fourPieceEvaluate(t, "kppk", kppkWinScore, pos, board.White, turn,
				sortedSquares(pos.Pieces(board.White, board.Pawn).ToSquares()), []bool{true, true})
		case onlyKingAndPieces(pos, board.Black, twoPawns) && bareKing(pos, board.White):
			return fourPieceEvaluate(t, "kppk", kppkWinScore, pos, board.Black, turn,
				sortedSquares(pos.Pieces(board.Black, board.Pawn).ToSquares()), []bool{true, true})
		default:
			return Result{Kind: Unknown}
		}
	}
}

func kbpkHandler(t *Table) Handler {
	return func(pos *board.Position, turn board.Color) Result {
		counts := map[board.Piece]int{board.Bishop: 1, board.Pawn: 1}
		switch {
		case onlyKingAndPieces(pos, board.White, counts) && bareKing(pos, board.Black):
			pieces := []board.Square{pos.Pieces(board.White, board.Bishop).ToSquares()[0], pos.Pieces(board.White, board.Pawn).ToSquares()[0]}
			return fourPieceEvaluate(t, "kbpk", kbpkWinScore, pos, board.White, turn, pieces, []bool{false, true})
		case onlyKingAndPieces(pos, board.Black, counts) && bareKing(pos, board.White):
			pieces := []board.Square{pos.Pieces(board.Black, board.Bishop).ToSquares()[0], pos.Pieces(board.Black, board.Pawn).ToSquares()[0]}
			return fourPieceEvaluate(t, "kbpk", kbpkWinScore, pos, board.Black, turn, pieces, []bool{false, true})
		default:
			return Result{Kind: Unknown}
		}
	}
}

func kbnkHandler(t *Table) Handler {
	return func(pos *board.Position, turn board.Color) Result {
		counts := map[board.Piece]int{board.Bishop: 1, board.Knight: 1}
		switch {
		case onlyKingAndPieces(pos, board.White, counts) && bareKing(pos, board.Black):
			pieces := []board.Square{pos.Pieces(board.White, board.Bishop).ToSquares()[0], pos.Pieces(board.White, board.Knight).ToSquares()[0]}
			return fourPieceEvaluate(t, "kbnk", kbnkWinScore, pos, board.White, turn, pieces, []bool{false, false})
		case onlyKingAndPieces(pos, board.Black, counts) && bareKing(pos, board.White):
			pieces := []board.Square{pos.Pieces(board.Black, board.Bishop).ToSquares()[0], pos.Pieces(board.Black, board.Knight).ToSquares()[0]}
			return fourPieceEvaluate(t, "kbnk", kbnkWinScore, pos, board.Black, turn, pieces, []bool{false, false})
		default:
			return Result{Kind: Unknown}
		}
	}
}

// fourPieceEvaluate probes the named bitbase for a 4-piece endgame (one king pair plus two
// non-king pieces), converting win -> a crude distance-shaded lower bound and not-win ->
// an exact draw, the same shape as kpkBitbaseScore. Returns Unknown if no bitbase is
// loaded.
func fourPieceEvaluate(t *Table, id string, winScore board.Score, pos *board.Position, strong board.Color, turn board.Color, pieces []board.Square, pawns []bool) Result {
	wk := pos.King(strong)
	bk := pos.King(strong.Opponent())

	if strong == board.Black {
		wk, bk = flipRank(wk), flipRank(bk)
		for i, sq := range pieces {
			pieces[i] = flipRank(sq)
		}
	}

	wtm := turn == strong
	pa := t.bitbaseFor(id, wtm)
	if pa == nil {
		return Result{Kind: Unknown}
	}

	fwk, fbk, fpieces := bitbase.Fold(wk, bk, pieces)
	idx := bitbase.Index(fwk, fbk, fpieces, pawns)

	var r Result
	if pa.Get(idx) != 0 {
		r = lowerBound(winScore - board.Score(4*board.Distance(wk, bk)))
	} else {
		r = exact(board.DrawScore)
	}
	if turn != strong {
		r = r.Negate()
	}
	return r
}

func sortedSquares(sqs []board.Square) []board.Square {
	if len(sqs) == 2 && sqs[0] > sqs[1] {
		return []board.Square{sqs[1], sqs[0]}
	}
	return sqs
}
