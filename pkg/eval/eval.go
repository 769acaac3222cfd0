// Package eval computes a static position evaluation: material and piece-square terms
// maintained incrementally on board.Position, plus pawn structure, passed pawns, mobility,
// king safety and a handful of hand-coded patterns computed fresh per call (with the pawn
// term cached in a pawn hash table and the combined result cached in a direct-mapped eval
// cache keyed by the position hash).
package eval

import (
	"math/rand"

	"github.com/kiwicore/morlock/pkg/board"
)

const (
	// InfScore and NegInfScore bound the search window one past the largest/smallest mate
	// score, so they are never mistaken for a legitimate mate distance.
	InfScore    board.Score = board.Mate + 1
	NegInfScore board.Score = -InfScore
)

// StageMax matches board.StageMax: the per-side opening/endgame interpolation weight caps
// at this value, so a fully-staged game (stage == 2*StageMax) is pure opening.
const StageMax = board.StageMax

// Evaluator produces a static evaluation of a position, from White's perspective; the caller
// negates for Black to move. Evaluate is called at quiescence leaves, so it must be cheap.
type Evaluator struct {
	tables *board.Tables
	pawns  *PawnCache
	cache  *Cache
}

// NewEvaluator builds an Evaluator with its own pawn and position eval caches. tables
// supplies the Zobrist hashing used to key the pawn cache lookups.
func NewEvaluator(tables *board.Tables) *Evaluator {
	return &Evaluator{
		tables: tables,
		pawns:  NewPawnCache(14), // 16K entries
		cache:  NewCache(16),     // 64K entries
	}
}

// Evaluate returns the position's centipawn score from White's perspective.
func (e *Evaluator) Evaluate(pos *board.Position) board.Score {
	if score, ok := e.cache.Probe(pos.Hash()); ok {
		return score
	}

	score := e.compute(pos)

	e.cache.Store(pos.Hash(), score)
	return score
}

func (e *Evaluator) compute(pos *board.Position) board.Score {
	whiteMating := pos.Counter(board.White).HasMatingMaterial()
	blackMating := pos.Counter(board.Black).HasMatingMaterial()
	if !whiteMating && !blackMating {
		return board.DrawScore
	}

	material := pos.Material()
	opening := pos.PSTOpeningScore()
	endgame := pos.PSTEndgameScore()
	var positional board.Score

	pawnOpening, pawnEndgame := e.pawnScore(pos)
	opening += pawnOpening
	endgame += pawnEndgame

	mobOpening, mobEndgame := evaluateMobility(pos)
	opening += mobOpening
	endgame += mobEndgame

	positional += evaluateKingAttack(pos)
	positional += evaluatePatterns(pos)

	sig := pos.Signature()
	stage := int(sig.Stage())

	interp := (int(opening)*stage + int(endgame)*(2*StageMax-stage)) / (2 * StageMax)

	score := material + positional + board.Score(interp)
	score = board.Quantize(score)

	if !whiteMating && score > 0 {
		score = board.Min(score, 5)
	}
	if !blackMating && score < 0 {
		score = board.Max(score, -5)
	}

	return board.Crop(score)
}

func (e *Evaluator) pawnScore(pos *board.Position) (board.Score, board.Score) {
	if opening, endgame, ok := e.pawns.Probe(pos.PawnHash()); ok {
		return opening, endgame
	}
	opening, endgame := evaluatePawnStructure(pos)
	e.pawns.Store(pos.PawnHash(), opening, endgame)
	return opening, endgame
}

// Random adds a small amount of deterministic-per-seed noise to the evaluation, to diversify
// otherwise-identical engine games. A zero limit disables it. Matches the teacher's
// stream-consuming design: successive calls draw from the same rand.Rand, so noise is only
// reproducible across a run seeded identically, not keyed to the position itself.
type Random struct {
	rand  *rand.Rand
	limit int
}

// NewRandom returns a Random that adds up to +/- limit/2 centipawns per call. limit <= 0
// disables noise entirely (Evaluate always returns 0).
func NewRandom(limit int, seed int64) Random {
	return Random{limit: limit, rand: rand.New(rand.NewSource(seed))}
}

func (n Random) Evaluate() board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit) - n.limit/2)
}
