package eval

import "github.com/kiwicore/morlock/pkg/board"

const (
	trappedRookPenalty   board.Score = 40
	trappedBishopPenalty board.Score = 100
)

// evaluatePatterns charges a handful of hand-coded positional penalties that the general
// mobility and PST terms miss: a rook trapped in its own corner by an uncastled king, and
// a bishop trapped on the long diagonal by an enemy pawn it can't safely take.
func evaluatePatterns(pos *board.Position) board.Score {
	var score board.Score
	score -= trappedRookScore(pos, board.White)
	score += trappedRookScore(pos, board.Black)
	score -= trappedBishopScore(pos, board.White)
	score += trappedBishopScore(pos, board.Black)
	return score
}

// trappedRookScore penalizes c for a rook shut in a corner by its own uncastled king:
// h1/a1 for White, h8/a8 for Black, with the king blocking the rook's escape along the
// back rank.
func trappedRookScore(pos *board.Position, c board.Color) board.Score {
	rank := board.Rank1
	kingBlockFiles := [2]board.File{board.FileG, board.FileF} // between corner rook and center
	if c == board.Black {
		rank = board.Rank8
	}

	corners := [2]struct {
		rook, kingBlock board.Square
	}{
		{board.NewSquare(board.FileH, rank), board.NewSquare(kingBlockFiles[0], rank)},
		{board.NewSquare(board.FileA, rank), board.NewSquare(board.FileB, rank)},
	}

	var penalty board.Score
	for _, corner := range corners {
		color, piece, ok := pos.Square(corner.rook)
		if !ok || color != c || piece != board.Rook {
			continue
		}
		kcolor, kpiece, kok := pos.Square(corner.kingBlock)
		if kok && kcolor == c && kpiece == board.King {
			penalty += trappedRookPenalty
		}
	}
	return penalty
}

// trappedBishopScore penalizes c for a fianchetto-diagonal bishop (a7/h7 for White, a2/h2
// for Black) that an enemy pawn has shut in: the bishop's only retreat is blocked by its
// own pawn.
func trappedBishopScore(pos *board.Position, c board.Color) board.Score {
	var squares [2]board.Square
	var pawnBlock [2]board.Square
	var ownPawn [2]board.Square
	if c == board.White {
		squares = [2]board.Square{board.A7, board.H7}
		pawnBlock = [2]board.Square{board.B6, board.G6}
		ownPawn = [2]board.Square{board.B2, board.G2}
	} else {
		squares = [2]board.Square{board.A2, board.H2}
		pawnBlock = [2]board.Square{board.B3, board.G3}
		ownPawn = [2]board.Square{board.B7, board.G7}
	}

	var penalty board.Score
	for i, sq := range squares {
		color, piece, ok := pos.Square(sq)
		if !ok || color != c || piece != board.Bishop {
			continue
		}
		pcolor, ppiece, pok := pos.Square(pawnBlock[i])
		if !pok || pcolor != c.Opponent() || ppiece != board.Pawn {
			continue
		}
		ocolor, opiece, ook := pos.Square(ownPawn[i])
		if ook && ocolor == c && opiece == board.Pawn {
			penalty += trappedBishopPenalty
		}
	}
	return penalty
}
