// Package engine wires together search, evaluation, the recognizer and an opening book
// into a single game-playing facade, the way herohde/morlock's pkg/engine package does:
// a mutex-guarded Engine owns the current Board and exposes Reset/Move/TakeBack/Analyze/
// Halt to whatever text or binary protocol adapter drives it.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/kiwicore/morlock/pkg/recognizer"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/kiwicore/morlock/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use a
	// transposition table.
	Hash uint
	// Noise adds some millipawn randomness to the leaf evaluations.
	Noise uint
	// BookPlies caps how many consecutive plies from the start of the game the book is
	// consulted for. Zero means no cap.
	BookPlies uint
	// BookMissLimit stops book consultation after this many consecutive misses, even if
	// BookPlies hasn't been reached yet -- once the game has left book theory there's no
	// point paying for further lookups. Zero means no cap.
	BookMissLimit uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v, bookPlies=%v, bookMissLimit=%v}", o.Depth, o.Hash, o.Noise, o.BookPlies, o.BookMissLimit)
}

// Engine encapsulates game-playing logic: search, evaluation, endgame recognition and
// book lookups over a single current position.
type Engine struct {
	name, author string

	launcher   searchctl.Launcher
	factory    search.TranspositionTableFactory
	tables     *board.Tables
	seed       int64
	opts       Options
	recognizer *recognizer.Table
	book       Book

	b        *board.Board
	tt       search.TranspositionTable
	noise    eval.Random
	active   searchctl.Handle
	bookPly  uint
	bookMiss uint
	mu       sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the default
// seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithRecognizer stores an endgame recognizer table on the engine. The engine does not
// consult it or pass it to the search: search uses the recognizer set on the root Search
// given to New (search.Negamax.Recognizer), whether or not this option is used.
func WithRecognizer(t *recognizer.Table) Option {
	return func(e *Engine) {
		e.recognizer = t
	}
}

// WithBook configures an opening book consulted by Analyze before falling through to
// search.
func WithBook(b Book) Option {
	return func(e *Engine) {
		e.book = b
	}
}

// New constructs an engine playing root's search algorithm (wrapped in iterative
// deepening), starting from the initial position.
func New(ctx context.Context, name, author string, root search.Search, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: &searchctl.Iterative{Root: root},
		factory:  search.NewTranspositionTable,
		book:     NoBook{},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.tables = board.NewTables(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
}

// Board returns a forked board, safe to inspect or mutate independently.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise/10)

	_, _ = e.haltSearchIfActive(ctx)

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.b = board.NewBoard(e.tables, pos, turn, noprogress, fullmoves)
	e.bookPly = 0
	e.bookMiss = 0

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	e.noise = eval.Random{}
	if e.opts.Noise > 0 {
		e.noise = eval.NewRandom(int(e.opts.Noise)/10, e.seed)
	}

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// Move plays the given move, usually the opponent's, in pure coordinate notation.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	if !e.b.PushMove(candidate) {
		return fmt.Errorf("illegal move: %v", candidate)
	}
	e.bookPly++

	logw.Infof(ctx, "Move %v: %v", candidate, e.b)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}
	if e.bookPly > 0 {
		e.bookPly--
	}
	e.bookMiss = 0 // miss streak is no longer trustworthy once history changes

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze analyzes the current position: a book hit is returned as an immediately-closed
// single-move PV stream, otherwise the configured search is launched.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	if e.bookEligible() {
		pos := fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
		moves, err := e.book.Find(ctx, pos)
		if err == nil && len(moves) > 0 {
			e.bookMiss = 0

			out := make(chan search.PV, 1)
			out <- search.PV{Moves: moves[:1]}
			close(out)
			logw.Infof(ctx, "Book hit: %v", moves[0])
			return out, nil
		}
		e.bookMiss++
	}

	handle, out := e.launcher.Launch(ctx, e.b.Fork(), e.tt, e.noise, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

// bookEligible reports whether the book is still worth consulting this ply: within its
// ply budget and not yet written off by too many consecutive misses.
func (e *Engine) bookEligible() bool {
	if e.opts.BookPlies > 0 && e.bookPly >= e.opts.BookPlies {
		return false
	}
	if e.opts.BookMissLimit > 0 && e.bookMiss >= e.opts.BookMissLimit {
		return false
	}
	return true
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
