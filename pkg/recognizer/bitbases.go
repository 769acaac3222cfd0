package recognizer

import (
	"context"

	"github.com/kiwicore/morlock/pkg/bitbase"
	"github.com/kiwicore/morlock/pkg/board"
	"github.com/seekerror/logw"
)

// Descriptors for the endgame bitbases a Table can probe. KPK is the base case and carries
// no predictor; KPPK/KBPK/KBNK each predict from it (or from cheap geometric rules) to
// concentrate zero-runs before RLE packing, per bitbase_adjust.cxx.
var (
	descriptorKPK = bitbase.Descriptor{
		ID:     "kpk",
		Bits:   bitbase.BitsWin,
		Pieces: []board.Piece{board.Pawn},
		Pawns:  []bool{true},
		Flags:  bitbase.PackRLE,
		Stem:   "kpk",
	}
	descriptorKPPK = bitbase.Descriptor{
		ID:     "kppk",
		Bits:   bitbase.BitsWin,
		Pieces: []board.Piece{board.Pawn, board.Pawn},
		Pawns:  []bool{true, true},
		Flags:  bitbase.PackRLE,
		Stem:   "kppk",
	}
	descriptorKBPK = bitbase.Descriptor{
		ID:     "kbpk",
		Bits:   bitbase.BitsWin,
		Pieces: []board.Piece{board.Bishop, board.Pawn},
		Pawns:  []bool{false, true},
		Flags:  bitbase.PackRLE,
		Stem:   "kbpk",
	}
	descriptorKBNK = bitbase.Descriptor{
		ID:     "kbnk",
		Bits:   bitbase.BitsWin,
		Pieces: []board.Piece{board.Bishop, board.Knight},
		Pawns:  []bool{false, false},
		Flags:  bitbase.PackRLE,
		Stem:  "kbnk",
	}
)

// LoadBitbases loads every descriptor's wtm/btm bitbase files from dir, wiring the
// KPPK/KBPK/KBNK predictors to KPK lookups. A missing or malformed file is logged and
// simply leaves that bitbase unavailable -- handlers fall back to their heuristic
// evaluator, per the error-handling policy for endgame bitbases.
func (t *Table) LoadBitbases(ctx context.Context, dir string) {
	t.loadOne(ctx, dir, descriptorKPK)

	kppk := descriptorKPPK
	kppk.Predictor = bitbase.NewKPPKPredictor(t.kpkLookup)
	t.loadOne(ctx, dir, kppk)

	kbpk := descriptorKBPK
	kbpk.Predictor = bitbase.NewKBPKPredictor()
	t.loadOne(ctx, dir, kbpk)

	kbnk := descriptorKBNK
	kbnk.Predictor = bitbase.NewKBNKPredictor()
	t.loadOne(ctx, dir, kbnk)
}

func (t *Table) loadOne(ctx context.Context, dir string, d bitbase.Descriptor) {
	var pair [2]*bitbase.PackedArray
	if pa, err := bitbase.Load(ctx, dir, d, false); err == nil {
		pair[0] = pa
	} else {
		logw.Infof(ctx, "Recognizer: %v btm bitbase unavailable, falling back: %v", d.ID, err)
	}
	if pa, err := bitbase.Load(ctx, dir, d, true); err == nil {
		pair[1] = pa
	} else {
		logw.Infof(ctx, "Recognizer: %v wtm bitbase unavailable, falling back: %v", d.ID, err)
	}
	t.bb[d.ID] = pair
}

// kpkLookup adapts the loaded KPK bitbase to bitbase.Predictor's lookup shape, folding the
// query the same way the bitbase itself was indexed.
func (t *Table) kpkLookup(wtm bool, wk, bk, pawn board.Square) byte {
	pa := t.bitbaseFor("kpk", wtm)
	if pa == nil {
		return 0
	}
	fwk, fbk, fpieces := bitbase.Fold(wk, bk, []board.Square{pawn})
	idx := bitbase.Index(fwk, fbk, fpieces, []bool{true})
	return pa.Get(idx)
}
