package search_test

import (
	"context"
	"testing"

	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMTDfConvergesToSameScoreAsNegamax(t *testing.T) {
	b, tables := newBoard(t, "4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	ev := eval.NewEvaluator(tables)

	n := search.Negamax{Eval: ev}
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	_, direct, _, err := n.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)

	f := search.MTDf{Root: search.Negamax{Eval: ev}}
	_, mtdf, _, err := f.Search(context.Background(), &search.Context{TT: search.NoTranspositionTable{}}, b, 2)
	require.NoError(t, err)

	assert.Equal(t, direct, mtdf)
}

func TestMTDfFindsMateInOne(t *testing.T) {
	b, tables := newBoard(t, "6k1/5ppp/8/8/8/8/8/4Q1K1 w - - 0 1")
	ev := eval.NewEvaluator(tables)

	f := search.MTDf{Root: search.Negamax{Eval: ev}}
	_, score, pv, err := f.Search(context.Background(), &search.Context{TT: search.NoTranspositionTable{}}, b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	md, ok := score.MateDistance()
	assert.True(t, ok)
	assert.Equal(t, 1, md)
}
