package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableSizeRoundsDownToPowerOfTwoBuckets(t *testing.T) {
	ctx := context.Background()

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())

	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())
}

func TestTranspositionTableReadWrite(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x1000)

	a := board.ZobristHash(rand.Uint64())

	_, _, _, _, ok := tt.Read(a)
	assert.False(t, ok)

	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen}
	s := board.Score(2)
	assert.True(t, tt.Write(a, search.ExactBound, 5, 2, s, m))

	bound, depth, score, move, ok := tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 2, depth)
	assert.Equal(t, s, score)
	assert.True(t, move.Equals(m))

	// A hash with different high bits (a different tag) isn't confused with a.
	_, _, _, _, ok = tt.Read(a ^ 0xff00_0000_0000_0000)
	assert.False(t, ok)
}

func TestTranspositionTableKeepsDeeperEntryOnSameTag(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x1000)

	a := board.ZobristHash(rand.Uint64())
	m := board.Move{From: board.E2, To: board.E4}

	assert.True(t, tt.Write(a, search.ExactBound, 1, 3, board.Score(5), m))
	assert.False(t, tt.Write(a, search.ExactBound, 1, 2, board.Score(7), m))

	_, depth, score, _, ok := tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, 3, depth)
	assert.Equal(t, board.Score(5), score)

	assert.True(t, tt.Write(a, search.ExactBound, 1, 4, board.Score(9), m))
	_, depth, score, _, ok = tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, 4, depth)
	assert.Equal(t, board.Score(9), score)
}

func TestTranspositionTableEvictsOldestGenerationWhenBucketIsFull(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x40) // one bucket of 4 entries

	base := uint64(0x1234)
	// Fill the bucket with four distinct tags, all from the current generation.
	for i := uint64(0); i < 4; i++ {
		hash := board.ZobristHash((base) | (i << 48))
		assert.True(t, tt.Write(hash, search.ExactBound, 1, 1, board.Score(0), board.Move{}))
	}

	// A fifth, differently-tagged write must evict something rather than fail.
	fifth := board.ZobristHash(base | (4 << 48))
	assert.True(t, tt.Write(fifth, search.ExactBound, 1, 1, board.Score(0), board.Move{}))

	_, _, _, _, ok := tt.Read(fifth)
	assert.True(t, ok)
}

func TestNoTranspositionTableIsAlwaysEmpty(t *testing.T) {
	var tt search.NoTranspositionTable
	_, _, _, _, ok := tt.Read(board.ZobristHash(42))
	assert.False(t, ok)
	assert.False(t, tt.Write(board.ZobristHash(42), search.ExactBound, 0, 1, board.Score(0), board.Move{}))
	assert.Zero(t, tt.Size())
	assert.Zero(t, tt.Used())
}
