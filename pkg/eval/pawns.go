package eval

import "github.com/kiwicore/morlock/pkg/board"

// Passed pawn bonus by relative rank (own side's perspective, rank 2 to rank 7), tuned
// to grow sharply as the pawn nears promotion.
var passedPawnBonus = [8]board.Score{0, 0, 10, 20, 40, 70, 110, 0}

const (
	doubledPawnPenalty   board.Score = 10
	isolatedPawnPenalty  board.Score = 15
	backwardPawnPenalty  board.Score = 8
	openFilePawnPenalty  board.Score = 5
	protectedPasserBonus board.Score = 12
	rookBehindPasserBonus board.Score = 15
	blockedPasserPenalty board.Score = 10
)

// evaluatePawnStructure computes the pawn-only opening/endgame subterms, from White's
// perspective: doubled/tripled, isolated and backward pawns, open-file weaknesses, and
// passed pawns (with protected-passer, king-distance-to-promotion and rook-behind bonuses).
// The result is cached by the caller against the position's pawn-only hash.
func evaluatePawnStructure(pos *board.Position) (board.Score, board.Score) {
	var opening, endgame board.Score

	whiteFiles, whitePawns := fileOccupancy(pos, board.White)
	blackFiles, blackPawns := fileOccupancy(pos, board.Black)

	o, e := pawnTermsForSide(pos, board.White, whiteFiles, whitePawns, blackPawns)
	opening += o
	endgame += e

	o, e = pawnTermsForSide(pos, board.Black, blackFiles, blackPawns, whitePawns)
	opening -= o
	endgame -= e

	return opening, endgame
}

// fileOccupancy returns, per file, the bitboard of c's pawns on that file, plus the
// combined bitboard of all of c's pawns.
func fileOccupancy(pos *board.Position, c board.Color) ([8]board.Bitboard, board.Bitboard) {
	pawns := pos.Pieces(c, board.Pawn)
	var files [8]board.Bitboard
	for f := board.File(0); f < board.NumFiles; f++ {
		files[f] = pawns & board.BitFile(f)
	}
	return files, pawns
}

func pawnTermsForSide(pos *board.Position, c board.Color, files [8]board.Bitboard, own, enemy board.Bitboard) (board.Score, board.Score) {
	var opening, endgame board.Score

	for f := board.File(0); f < board.NumFiles; f++ {
		count := files[f].PopCount()
		if count == 0 {
			continue
		}
		if count > 1 {
			penalty := doubledPawnPenalty * board.Score(count-1)
			opening -= penalty
			endgame -= penalty
		}

		hasLeft := f > 0 && files[f-1] != 0
		hasRight := f+1 < board.NumFiles && files[f+1] != 0
		if !hasLeft && !hasRight {
			opening -= isolatedPawnPenalty
			endgame -= isolatedPawnPenalty
		}

		if enemy&board.BitFile(f) == 0 {
			opening -= openFilePawnPenalty
		}
	}

	for _, sq := range own.ToSquares() {
		if isPassedPawn(sq, c, enemy) {
			rel := relativeRank(sq, c)
			bonus := passedPawnBonus[rel]
			endgame += bonus * 2
			opening += bonus

			if isProtectedByPawn(sq, c, own) {
				endgame += protectedPasserBonus
			}
			if enemy.IsSet(advanceSquare(sq, c)) {
				endgame -= blockedPasserPenalty
			}
			if rook := rookBehind(pos, sq, c); rook {
				endgame += rookBehindPasserBonus
			}
			endgame -= board.Score(kingDistance(pos.King(c.Opponent()), promotionSquare(sq, c)))
		} else if isBackward(sq, c, own, enemy) {
			opening -= backwardPawnPenalty
			endgame -= backwardPawnPenalty
		}
	}

	return opening, endgame
}

// relativeRank returns sq's 0-based rank from c's own attacking direction: 0 for c's back
// rank, 1 for the pawn starting rank, 6 just before promotion.
func relativeRank(sq board.Square, c board.Color) int {
	if c == board.White {
		return sq.Rank().V()
	}
	return 7 - sq.Rank().V()
}

func advanceSquare(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return board.NewSquare(sq.File(), sq.Rank()+1)
	}
	return board.NewSquare(sq.File(), sq.Rank()-1)
}

func promotionSquare(sq board.Square, c board.Color) board.Square {
	r := board.Rank8
	if c == board.Black {
		r = board.Rank1
	}
	return board.NewSquare(sq.File(), r)
}

func kingDistance(a, b board.Square) int {
	return board.Distance(a, b)
}

// isPassedPawn reports whether no enemy pawn occupies sq's file or either adjacent file
// on a rank strictly ahead of sq.
func isPassedPawn(sq board.Square, c board.Color, enemy board.Bitboard) bool {
	f := sq.File()
	var span board.Bitboard
	for df := -1; df <= 1; df++ {
		nf := int(f) + df
		if nf < 0 || nf >= int(board.NumFiles) {
			continue
		}
		span |= board.BitFile(board.File(nf))
	}

	ahead := aheadMask(sq, c)
	return enemy&span&ahead == 0
}

func aheadMask(sq board.Square, c board.Color) board.Bitboard {
	var mask board.Bitboard
	r := sq.Rank()
	if c == board.White {
		for rr := r + 1; rr <= board.Rank8; rr++ {
			mask |= board.BitRank(rr)
			if rr == board.Rank8 {
				break
			}
		}
	} else {
		for rr := int(r) - 1; rr >= 0; rr-- {
			mask |= board.BitRank(board.Rank(rr))
		}
	}
	return mask
}

func isProtectedByPawn(sq board.Square, c board.Color, own board.Bitboard) bool {
	return board.PawnCaptureboard(c.Opponent(), board.BitMask(sq))&own != 0
}

func isBackward(sq board.Square, c board.Color, own, enemy board.Bitboard) bool {
	f := sq.File()
	var adjacent board.Bitboard
	for df := -1; df <= 1; df += 2 {
		nf := int(f) + df
		if nf < 0 || nf >= int(board.NumFiles) {
			continue
		}
		adjacent |= board.BitFile(board.File(nf))
	}
	behind := own & adjacent &^ aheadMask(sq, c)
	if behind != 0 {
		return false
	}
	next := advanceSquare(sq, c)
	return board.PawnCaptureboard(c, board.BitMask(next))&enemy != 0
}

func rookBehind(pos *board.Position, sq board.Square, c board.Color) bool {
	rooks := pos.Pieces(c, board.Rook)
	if rooks == 0 {
		return false
	}
	behind := aheadMask(sq, c.Opponent())
	return rooks&board.BitFile(sq.File())&behind != 0
}
