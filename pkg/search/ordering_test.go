package search_test

import (
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveHandlerEmitsHashMoveFirst(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	hash := board.Move{From: board.D2, To: board.D4}
	h := search.NewMoveHandler(pos, turn, hash, true, [2]board.Move{})

	m, ok := h.Next()
	require.True(t, ok)
	assert.True(t, m.Equals(hash))
}

func TestMoveHandlerDoesNotRepeatHashMove(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	hash := board.Move{From: board.D2, To: board.D4}
	h := search.NewMoveHandler(pos, turn, hash, true, [2]board.Move{})

	seen := 0
	for {
		m, ok := h.Next()
		if !ok {
			break
		}
		if m.Equals(hash) {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestMoveHandlerExhaustsAllMoves(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	h := search.NewMoveHandler(pos, turn, board.Move{}, false, [2]board.Move{})

	count := 0
	for {
		_, ok := h.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 20, count) // the opening position has exactly 20 legal/pseudo-legal moves
}
