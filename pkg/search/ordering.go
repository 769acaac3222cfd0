package search

import (
	"container/heap"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/movegen"
)

// Priority represents a move's search order priority; higher is explored first.
type Priority int32

// handlerState is the MoveHandler's phase: each call to Next advances it at most once,
// falling through to the next phase's moves once the current one is exhausted.
type handlerState int

const (
	stateStart handlerState = iota
	stateHash
	stateGenerate
	stateEmit
	stateDone
)

// MoveHandler walks a position's pseudo-legal moves in priority order, phased so the cheapest,
// highest-value information is tried first: the transposition table's remembered best move,
// then everything else ordered by MVV-LVA (with killer moves preferred among quiets). The
// hash move is skipped when it resurfaces from generation so it is never searched twice.
type MoveHandler struct {
	state handlerState

	pos  *board.Position
	turn board.Color

	hash board.Move
	hasHash bool

	killers [2]board.Move

	h moveHeap
}

// NewMoveHandler starts a handler over pos for turn, preferring hash (the TT's remembered
// best move for this position, if any) and the given killer moves among quiets.
func NewMoveHandler(pos *board.Position, turn board.Color, hash board.Move, hasHash bool, killers [2]board.Move) *MoveHandler {
	return &MoveHandler{
		pos:     pos,
		turn:    turn,
		hash:    hash,
		hasHash: hasHash,
		killers: killers,
	}
}

// Next returns the next move to search, in priority order, or false once exhausted.
func (h *MoveHandler) Next() (board.Move, bool) {
	for {
		switch h.state {
		case stateStart:
			h.state = stateHash
		case stateHash:
			h.state = stateGenerate
			if h.hasHash {
				if _, ok := h.pos.Resolve(h.turn, h.hash); ok {
					return h.hash, true
				}
			}
		case stateGenerate:
			h.generate()
			h.state = stateEmit
		case stateEmit:
			if h.h.Len() == 0 {
				h.state = stateDone
				continue
			}
			m := heap.Pop(&h.h).(moveElm).m
			if h.hasHash && m.Equals(h.hash) {
				continue // already emitted in stateHash
			}
			return m, true
		case stateDone:
			return board.Move{}, false
		}
	}
}

func (h *MoveHandler) generate() {
	var checkers board.Bitboard
	var moves []board.Move
	if checkers = h.pos.Checkers(h.turn); checkers != 0 {
		moves = movegen.GenerateCheckEvasions(h.pos, h.turn)
	} else {
		moves = movegen.GenerateMoves(h.pos, h.turn)
	}

	h.h = make(moveHeap, len(moves))
	for i, m := range moves {
		h.h[i] = moveElm{m: m, p: h.priority(m)}
	}
	heap.Init(&h.h)
}

// priority implements MVV-LVA for captures (victim value first, minus attacker value so
// cheap attackers of the same victim are preferred), promotions ranked by gained piece
// value, killer quiets ranked just below any capture, and all other quiets at zero.
func (h *MoveHandler) priority(m board.Move) Priority {
	if m.IsCapture() {
		return 100*Priority(board.NominalValue(m.Capture)) - Priority(board.NominalValue(m.Piece))
	}
	if m.IsPromotion() {
		return 100 * Priority(board.NominalValue(m.Promotion))
	}
	if m.Equals(h.killers[0]) {
		return 2
	}
	if m.Equals(h.killers[1]) {
		return 1
	}
	return 0
}

type moveElm struct {
	m board.Move
	p Priority
}

type moveHeap []moveElm

func (q moveHeap) Len() int            { return len(q) }
func (q moveHeap) Less(i, j int) bool  { return q[i].p > q[j].p }
func (q moveHeap) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *moveHeap) Push(x interface{}) { *q = append(*q, x.(moveElm)) }
func (q *moveHeap) Pop() interface{} {
	old := *q
	n := len(old)
	elm := old[n-1]
	*q = old[:n-1]
	return elm
}
