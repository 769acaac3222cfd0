package eval_test

import (
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTables() *board.Tables {
	return board.NewTables(3)
}

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, turn)

	e := eval.NewEvaluator(tables)
	assert.Zero(t, e.Evaluate(pos))
}

func TestEvaluateMaterialAdvantageFavorsSide(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Queen},
	}, 0, 0)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, board.White)

	e := eval.NewEvaluator(tables)
	assert.Positive(t, e.Evaluate(pos))
}

func TestEvaluateIsCached(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, turn)

	e := eval.NewEvaluator(tables)
	first := e.Evaluate(pos)
	second := e.Evaluate(pos)
	assert.Equal(t, first, second)
}

func TestEvaluateNoMatingMaterialIsDraw(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
	}, 0, 0)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, board.White)

	e := eval.NewEvaluator(tables)
	assert.Equal(t, board.DrawScore, e.Evaluate(pos))
}

func TestEvaluateDoubledPawnsArePenalized(t *testing.T) {
	doubled, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.A2, Color: board.White, Piece: board.Pawn},
		{Square: board.A3, Color: board.White, Piece: board.Pawn},
		{Square: board.H7, Color: board.Black, Piece: board.Pawn},
		{Square: board.B7, Color: board.Black, Piece: board.Pawn},
	}, 0, 0)
	require.NoError(t, err)

	healthy, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.A2, Color: board.White, Piece: board.Pawn},
		{Square: board.B3, Color: board.White, Piece: board.Pawn},
		{Square: board.H7, Color: board.Black, Piece: board.Pawn},
		{Square: board.B7, Color: board.Black, Piece: board.Pawn},
	}, 0, 0)
	require.NoError(t, err)

	tables := newTables()
	doubled.SetHashes(tables, board.White)
	healthy.SetHashes(tables, board.White)

	e := eval.NewEvaluator(tables)
	assert.Less(t, e.Evaluate(doubled), e.Evaluate(healthy))
}

func TestRandomNoiseRespectsLimit(t *testing.T) {
	r := eval.NewRandom(20, 1)
	for i := 0; i < 50; i++ {
		n := r.Evaluate()
		assert.True(t, n >= -10 && n <= 10)
	}
}

func TestRandomZeroLimitDisabled(t *testing.T) {
	r := eval.NewRandom(0, 1)
	assert.Zero(t, r.Evaluate())
}
