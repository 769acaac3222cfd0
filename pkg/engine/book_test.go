package engine_test

import (
	"context"
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{
		{"e2e4", "d7d5", "d2d4"},
		{"e2e4", "d7d6"},
		{"d2d4", "d7d6"},
	})
	require.NoError(t, err)

	tests := []struct {
		pos   string
		moves string
	}{
		{fen.Initial, "e2e4 d2d4"},
		{"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1", "d7d6"},
	}

	for _, tt := range tests {
		list, err := book.Find(ctx, tt.pos)
		assert.NoError(t, err)
		assert.Equal(t, board.PrintMoves(list), tt.moves)
	}
}

func TestNoBookReturnsNoMoves(t *testing.T) {
	ctx := context.Background()

	moves, err := (engine.NoBook{}).Find(ctx, fen.Initial)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestBookRejectsIllegalLine(t *testing.T) {
	_, err := engine.NewBook([]engine.Line{{"e2e5"}})
	assert.Error(t, err)
}
