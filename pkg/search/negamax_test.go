package search_test

import (
	"context"
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, f string) (*board.Board, *board.Tables) {
	t.Helper()
	pos, turn, noprogress, fullmoves, err := fen.Decode(f)
	require.NoError(t, err)
	tables := board.NewTables(7)
	return board.NewBoard(tables, pos, turn, noprogress, fullmoves), tables
}

func TestNegamaxFindsMateInOne(t *testing.T) {
	// White: Qe1-e8#, a back-rank mate -- the black king is boxed in by its own pawns and
	// the open e-file lets the queen deliver check with nothing to block or capture it.
	b, tables := newBoard(t, "6k1/5ppp/8/8/8/8/8/4Q1K1 w - - 0 1")
	n := search.Negamax{Eval: eval.NewEvaluator(tables)}
	sctx := &search.Context{TT: search.NoTranspositionTable{}}

	_, score, pv, err := n.Search(context.Background(), sctx, b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	md, ok := score.MateDistance()
	assert.True(t, ok, "expected a mate score, got %v", score)
	assert.Equal(t, 1, md)
}

func TestNegamaxFailSoftRespectsAlphaBetaWindow(t *testing.T) {
	b, tables := newBoard(t, fen.Initial)
	n := search.Negamax{Eval: eval.NewEvaluator(tables)}

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	_, score, _, err := n.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)
	assert.True(t, score > eval.NegInfScore && score < eval.InfScore)
}

func TestNegamaxMaterialAdvantageScoresPositive(t *testing.T) {
	// White is up a whole queen with an otherwise balanced, quiet position.
	b, tables := newBoard(t, "4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	n := search.Negamax{Eval: eval.NewEvaluator(tables)}
	sctx := &search.Context{TT: search.NoTranspositionTable{}}

	_, score, _, err := n.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)
	assert.Positive(t, score)
}

func TestNegamaxUsesTranspositionTableAcrossCalls(t *testing.T) {
	b, tables := newBoard(t, fen.Initial)
	n := search.Negamax{Eval: eval.NewEvaluator(tables)}
	tt := search.NewTranspositionTable(context.Background(), 1<<16)

	sctx := &search.Context{TT: tt}
	_, score1, _, err := n.Search(context.Background(), sctx, b, 3)
	require.NoError(t, err)

	_, score2, _, err := n.Search(context.Background(), sctx, b, 3)
	require.NoError(t, err)

	assert.Equal(t, score1, score2)
	assert.Positive(t, tt.Used())
}
