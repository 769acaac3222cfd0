// Package search implements the tree search: fail-soft negamax with quiescence, MTD(f)
// driving the null-window re-searches, a bucketed transposition table, and phased move
// ordering via MoveHandler.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/eval"
)

// ErrHalted is returned by Search when the context was cancelled mid-search.
var ErrHalted = errors.New("search halted")

// Search runs a fixed-depth search from the position held by b, returning the node count,
// the score for the side to move, and the resulting principal variation.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error)
}

// Context carries the search window and shared resources threaded through one iteration of
// the engine's iterative deepening loop: every recursive call narrows Alpha/Beta but TT and
// Noise are shared throughout.
type Context struct {
	Alpha, Beta board.Score
	TT          TranspositionTable
	Noise       eval.Random
}

// PV represents the principal variation found by a completed iteration.
type PV struct {
	Depth int           // depth of search
	Moves []board.Move  // principal variation, root move first
	Score board.Score   // evaluation at depth, from the root side to move's perspective
	Nodes uint64        // interior/leaf nodes searched
	Time  time.Duration // time taken by search
	Hash  float64       // transposition table occupancy [0;1]
}

func (p PV) String() string {
	pv := board.PrintMoves(p.Moves)
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), pv)
}
