package recognizer

import "github.com/kiwicore/morlock/pkg/board"

// pieceBit mirrors board.Signature's own private presence-bit layout (Pawn, Knight, Bishop,
// Rook, Queen, low to high) so handlers can compute the key they should register under
// without reaching into board's unexported helpers.
func pieceBit(p board.Piece) uint16 {
	switch p {
	case board.Pawn:
		return 0
	case board.Knight:
		return 1
	case board.Bishop:
		return 2
	case board.Rook:
		return 3
	case board.Queen:
		return 4
	default:
		return 0
	}
}

// signatureKey builds the 10-bit material signature key for a position with the given
// non-king, non-pawn-count-sensitive piece presence on each side (white and black are each
// a set of distinct piece types present, never repeated -- board.Signature.Key does not
// encode counts).
func signatureKey(white, black []board.Piece) uint16 {
	var k uint16
	for _, p := range white {
		k |= 1 << pieceBit(p)
	}
	for _, p := range black {
		k |= 1 << (5 + pieceBit(p))
	}
	return k
}

// flipRank mirrors a square across the horizontal center (rank 1 <-> 8, file unchanged),
// used to re-express a black-material endgame in the white-material formula's terms: the
// originating formulas all assume the strong side's pawns advance toward rank 8.
func flipRank(sq board.Square) board.Square {
	return board.NewSquare(sq.File(), board.Rank(7-sq.Rank().V()))
}

// onlyKingAndPieces reports whether side c's material consists of exactly the piece types
// and counts named by counts (a map from piece type to required count), nothing else.
func onlyKingAndPieces(pos *board.Position, c board.Color, counts map[board.Piece]int) bool {
	ctr := pos.Counter(c)
	total := 0
	for p, n := range counts {
		total += n
		if countOf(ctr, p) != n {
			return false
		}
	}
	return ctr.All() == total
}

func countOf(ctr board.MaterialCounter, p board.Piece) int {
	switch p {
	case board.Pawn:
		return ctr.Pawns()
	case board.Knight:
		return ctr.Knights()
	case board.Bishop:
		return ctr.Bishops()
	case board.Rook:
		return ctr.Rooks()
	case board.Queen:
		return ctr.Queens()
	default:
		return 0
	}
}

func bareKing(pos *board.Position, c board.Color) bool {
	return pos.Counter(c).All() == 0
}
