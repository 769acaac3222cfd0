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

func TestQuiescenceStandPatOnQuietPosition(t *testing.T) {
	b, tables := newBoard(t, fen.Initial)
	q := search.Quiescence{Eval: eval.NewEvaluator(tables)}

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore}
	_, score := q.QuietSearch(context.Background(), sctx, b)
	assert.Zero(t, score) // balanced, no captures available: resolves to the static eval
}

func TestQuiescenceResolvesHangingCapture(t *testing.T) {
	// White to move, black queen hangs on d5 to the white knight on f4 with nothing
	// else going on: quiescence should find the capture and score White ahead.
	b, tables := newBoard(t, "4k3/8/8/3q4/5N2/8/8/4K3 w - - 0 1")
	q := search.Quiescence{Eval: eval.NewEvaluator(tables)}

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore}
	_, score := q.QuietSearch(context.Background(), sctx, b)
	assert.Positive(t, score)
}

func TestQuiescenceNodeCountIncludesRecursiveCalls(t *testing.T) {
	b, tables := newBoard(t, "4k3/8/8/3q4/5N2/8/8/4K3 w - - 0 1")
	q := search.Quiescence{Eval: eval.NewEvaluator(tables)}

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore}
	nodes, _ := q.QuietSearch(context.Background(), sctx, b)
	require.Positive(t, nodes)
}
