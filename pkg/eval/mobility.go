package eval

import "github.com/kiwicore/morlock/pkg/board"

// mobilityWeight holds separate opening/endgame per-square mobility weights for a piece
// type, expressed as parts of a centipawn so cheap pieces (knights) don't dominate the
// term the way queen mobility would at the same weight.
type mobilityWeight struct {
	opening, endgame board.Score
}

var mobilityWeights = map[board.Piece]mobilityWeight{
	board.Knight: {opening: 4, endgame: 4},
	board.Bishop: {opening: 5, endgame: 5},
	board.Rook:   {opening: 2, endgame: 4},
	board.Queen:  {opening: 1, endgame: 2},
}

// expectedMobility is the subtracted baseline per piece type: an "average" attacked-square
// count for that piece, so mobility scores center around zero rather than always being
// positive.
var expectedMobility = map[board.Piece]int{
	board.Knight: 4,
	board.Bishop: 6,
	board.Rook:   7,
	board.Queen:  12,
}

// evaluateMobility sums (attacked-square-count - expected) * weight over every officer of
// both sides, from White's perspective.
func evaluateMobility(pos *board.Position) (board.Score, board.Score) {
	var opening, endgame board.Score

	o, e := mobilityForSide(pos, board.White)
	opening += o
	endgame += e

	o, e = mobilityForSide(pos, board.Black)
	opening -= o
	endgame -= e

	return opening, endgame
}

func mobilityForSide(pos *board.Position, c board.Color) (board.Score, board.Score) {
	rotated := pos.Rotated()
	own := pos.Occupancy(c)

	var opening, endgame board.Score
	for _, piece := range [...]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		w := mobilityWeights[piece]
		expected := expectedMobility[piece]
		for _, sq := range pos.Pieces(c, piece).ToSquares() {
			att := board.Attackboard(rotated, sq, piece) &^ own
			delta := att.PopCount() - expected
			opening += w.opening * board.Score(delta)
			endgame += w.endgame * board.Score(delta)
		}
	}
	return opening, endgame
}
