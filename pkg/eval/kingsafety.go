package eval

import "github.com/kiwicore/morlock/pkg/board"

// strengthTable scales accumulated attacker strength by how many distinct attackers
// contributed to it: a single attacker's pressure barely matters, but the same raw
// strength spread across four attackers is a real assault.
var strengthTable = [8]int{0, 0, 50, 75, 88, 94, 97, 99}

// attackerWeight is the per-piece-type contribution to the king-attack strength
// accumulator when that piece attacks a square in the king's immediate zone.
var attackerWeight = map[board.Piece]int{
	board.Knight: 2,
	board.Bishop: 2,
	board.Rook:   3,
	board.Queen:  5,
}

// evaluateKingAttack scores king safety from White's perspective: for each side, every
// enemy officer attacking a square adjacent to the king contributes attackerWeight(piece)
// to a strength accumulator; the accumulated strength is then scaled down by
// strengthTable, indexed by the distinct attacker count, and penalizes the defending
// side. King-shield pawn defects (missing pawns on the three files in front of a castled
// king) add a further flat penalty.
func evaluateKingAttack(pos *board.Position) board.Score {
	var score board.Score
	score -= kingPressure(pos, board.White)
	score += kingPressure(pos, board.Black)
	score -= shieldPenalty(pos, board.White)
	score += shieldPenalty(pos, board.Black)
	return score
}

// kingPressure returns the penalty applied against c for attacks converging on c's king.
func kingPressure(pos *board.Position, c board.Color) board.Score {
	king := pos.King(c)
	zone := kingZone(king)
	enemy := c.Opponent()
	rotated := pos.Rotated()

	strength := 0
	attackers := 0
	for _, piece := range [...]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		for _, sq := range pos.Pieces(enemy, piece).ToSquares() {
			att := board.Attackboard(rotated, sq, piece)
			if att&zone != 0 {
				strength += attackerWeight[piece]
				attackers++
			}
		}
	}
	if attackers == 0 {
		return 0
	}
	if attackers >= len(strengthTable) {
		attackers = len(strengthTable) - 1
	}
	return board.Score((strength * strengthTable[attackers]) / 256)
}

// kingZone is the king's own square plus its immediate neighbors.
func kingZone(king board.Square) board.Bitboard {
	return board.KingAttackboard(king) | board.BitMask(king)
}

// shieldPenalty charges c a flat penalty for each missing pawn on the three files in
// front of a king that has castled (or sits on its home square), within the first two
// ranks of advance.
func shieldPenalty(pos *board.Position, c board.Color) board.Score {
	king := pos.King(c)
	homeRank := board.Rank1
	if c == board.Black {
		homeRank = board.Rank8
	}
	if king.Rank() != homeRank {
		return 0
	}

	kf := int(king.File())
	pawns := pos.Pieces(c, board.Pawn)

	var penalty board.Score
	for df := -1; df <= 1; df++ {
		f := kf + df
		if f < 0 || f >= int(board.NumFiles) {
			continue
		}
		if !hasShieldPawn(pawns, board.File(f), c) {
			penalty += 10
		}
	}
	return penalty
}

func hasShieldPawn(pawns board.Bitboard, f board.File, c board.Color) bool {
	file := pawns & board.BitFile(f)
	if file == 0 {
		return false
	}
	r1, r2 := board.Rank2, board.Rank3
	if c == board.Black {
		r1, r2 = board.Rank7, board.Rank6
	}
	return file.IsSet(board.NewSquare(f, r1)) || file.IsSet(board.NewSquare(f, r2))
}
