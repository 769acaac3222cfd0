// Package recognizer implements endgame-specific evaluators keyed off a position's
// material signature, consulted by the search tree ahead of the staged evaluator for
// positions with few enough pieces to admit a precise (or near-precise) verdict. Grounded
// on original_source/src/recognizer.h/.cxx: a gate bitmap plus a signature-keyed handler
// table, each handler returning a bound or exact score rather than a plain number so the
// search can fold the result into alpha-beta without losing soundness.
package recognizer

import (
	"github.com/kiwicore/morlock/pkg/bitbase"
	"github.com/kiwicore/morlock/pkg/board"
)

// Kind classifies a Result the way a transposition-table entry does: a handler may only be
// able to bound a position's value (e.g. "at least a won bitbase score") rather than pin it
// exactly.
type Kind uint8

const (
	Unknown Kind = iota
	Exact
	LowerBound
	UpperBound
)

// Result is a recognizer verdict, relative to the side to move -- the same convention
// pkg/search's negamax uses throughout, so a Table.Probe result can be folded straight into
// alpha-beta without any extra sign flip at the call site. Kind == Unknown means "no handler
// matched, or the handler could not decide" -- the caller must fall back to normal search.
//
// Internally a handler often computes in terms of the material-holding ("strong") side
// first, since that is how the originating formulas are shaped, and converts to
// turn-relative terms as a final step via Negate; see kpk.go for the pattern.
type Result struct {
	Kind  Kind
	Score board.Score
}

func exact(s board.Score) Result      { return Result{Kind: Exact, Score: s} }
func lowerBound(s board.Score) Result { return Result{Kind: LowerBound, Score: s} }
func upperBound(s board.Score) Result { return Result{Kind: UpperBound, Score: s} }

// Negate flips a result to the opponent's perspective: a lower bound for one side is an
// upper bound for the other, and vice versa.
func (r Result) Negate() Result {
	switch r.Kind {
	case LowerBound:
		return Result{Kind: UpperBound, Score: -r.Score}
	case UpperBound:
		return Result{Kind: LowerBound, Score: -r.Score}
	default:
		return Result{Kind: r.Kind, Score: -r.Score}
	}
}

// Handler evaluates a position already known (by its caller, the Table) to possibly match a
// specific material signature, returning Unknown if the exact piece counts don't actually
// match (see the Table doc comment). turn is the side actually to move; the returned Result
// is relative to turn.
type Handler func(pos *board.Position, turn board.Color) Result

// Table dispatches to a Handler by material signature. board.Signature.Key only tracks
// per-side piece-type *presence*, not counts (KPK and KPPK share a key), so a key may carry
// more than one candidate handler; each handler re-validates exact piece counts itself
// (via board.Position.Counter) and returns Unknown if they don't match, letting Probe fall
// through to the next candidate. Signatures are also checked against a coarse 5-bit gate
// bitmap first (mirroring the original's knownHandlersSignature_ check) so positions with
// no chance of a match skip the map lookup entirely.
type Table struct {
	gate     uint32
	handlers map[uint16][]Handler

	// bb holds loaded bitbases by descriptor ID, [0]=black-to-move file, [1]=white-to-move
	// file. A nil entry (or a missing key) means that bitbase is unavailable and handlers
	// fall back to their hand-coded heuristic.
	bb map[string][2]*bitbase.PackedArray
}

// NewTable builds an empty dispatch table. Use Register to populate it, or DefaultTable
// for the standard built-in set of endgame handlers.
func NewTable() *Table {
	return &Table{handlers: make(map[uint16][]Handler), bb: make(map[string][2]*bitbase.PackedArray)}
}

// bitbaseFor returns the loaded bitbase for id and wtm, or nil if unavailable.
func (t *Table) bitbaseFor(id string, wtm bool) *bitbase.PackedArray {
	pair, ok := t.bb[id]
	if !ok {
		return nil
	}
	if wtm {
		return pair[1]
	}
	return pair[0]
}

// Register adds a handler as a candidate for an exact 10-bit material signature key
// (board.Signature.Key). Handlers registered for the same key are tried in registration
// order; the first to return other than Unknown wins.
func (t *Table) Register(key uint16, h Handler) {
	t.handlers[key] = append(t.handlers[key], h)
	t.gate |= uint32(key&0x1f) | uint32((key>>5)&0x1f)
}

// RegisterMirrored registers h for both a signature and the signature with White's and
// Black's 5-bit halves swapped, letting one handler implementation serve both colors of a
// lone-extra-material endgame (e.g. KPK and KkP, i.e. white-pawn-up and black-pawn-up).
func (t *Table) RegisterMirrored(key uint16, h Handler) {
	t.Register(key, h)
	lo := key & 0x1f
	hi := (key >> 5) & 0x1f
	t.Register((lo<<5)|hi, h)
}

// Probe tries every handler registered for pos's material signature, in order, and returns
// the first non-Unknown verdict relative to turn (the side actually to move). A Kind of
// Unknown means no handler matched -- the caller should fall back to ordinary search.
func (t *Table) Probe(pos *board.Position, turn board.Color) Result {
	sig := pos.Signature()
	short := sig.ShortKey()
	if uint32(short)&t.gate != uint32(short) {
		return Result{Kind: Unknown}
	}

	for _, h := range t.handlers[sig.Key()] {
		if r := h(pos, turn); r.Kind != Unknown {
			return r
		}
	}
	return Result{Kind: Unknown}
}
