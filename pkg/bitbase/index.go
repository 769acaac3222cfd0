package bitbase

import "github.com/kiwicore/morlock/pkg/board"

// Quarter-board symmetry folding and the (wk, bk, pieces) packed-index function, grounded
// on original_source/src/bitbase.cxx's getBbIndexForKk/getBitBaseIndex: a bitbase only
// stores positions with the strongest side's king on files a-d, halving (and, combined
// with the board's own left/right mirror, effectively quartering) the table.

// stdFile returns the file as a standard 0 (a-file) .. 7 (h-file) ordinal. board.File is
// numbered the other way around (FileH == 0), so this just flips it.
func stdFile(f board.File) int {
	return 7 - f.V()
}

// StdFile is the exported form of stdFile, for packages (the recognizer) that need the
// same standard a..h ordinal for geometry not directly tied to indexing.
func StdFile(f board.File) int {
	return stdFile(f)
}

// NeedsReflect reports whether wk lies outside the canonical quarter (files a-d) and so
// the whole position must be mirrored before indexing or evaluating.
func NeedsReflect(wk board.Square) bool {
	return stdFile(wk.File()) >= 4
}

// ReflectSquare mirrors sq across the center file (a<->h, b<->g, ...); rank is unchanged.
func ReflectSquare(sq board.Square) board.Square {
	return board.NewSquare(board.File(7-sq.File().V()), sq.Rank())
}

// Fold mirrors wk, bk and pieces together, if needed, so wk ends up on files a-d. It is
// shared by bitbase indexing and the recognizer's fallback evaluators.
func Fold(wk, bk board.Square, pieces []board.Square) (board.Square, board.Square, []board.Square) {
	if !NeedsReflect(wk) {
		return wk, bk, pieces
	}

	out := make([]board.Square, len(pieces))
	for i, sq := range pieces {
		out[i] = ReflectSquare(sq)
	}
	return ReflectSquare(wk), ReflectSquare(bk), out
}

// pawnOrdinal maps a pawn square, assumed restricted to ranks 2-7, to 0..47: squares are
// numbered rank-major (board.Square already is), so subtracting one rank's worth (8)
// shifts rank 2 (index 8..15) down to 0..7, regardless of file numbering direction.
func pawnOrdinal(sq board.Square) int {
	return int(sq) - 8
}

// IndexRange returns the number of distinct packed entries for a bitbase whose non-king
// pieces are described by pawns (true at position i if piece i is pawn-ranged).
func IndexRange(pawns []bool) int {
	r := 32 * 64
	for _, p := range pawns {
		if p {
			r *= 48
		} else {
			r *= 64
		}
	}
	return r
}

// Index computes the packed-array offset for a (wk, bk, pieces) tuple. wk, bk and pieces
// must already be folded (see Fold) into the canonical quarter-board. pawns[i] reports
// whether pieces[i] is pawn-ranged (restricted to ranks 2-7, so indexed 0..47 instead of
// 0..63).
func Index(wk, bk board.Square, pieces []board.Square, pawns []bool) int {
	idx := 8*stdFile(wk.File()) + wk.Rank().V()
	idx += 32 * int(bk)

	mul := 32 * 64
	for i, sq := range pieces {
		if pawns[i] {
			idx += mul * pawnOrdinal(sq)
			mul *= 48
		} else {
			idx += mul * int(sq)
			mul *= 64
		}
	}
	return idx
}

// Position is the inverse of Index: given a packed offset and the bitbase's pawn-ness
// list, it reconstructs the folded wk, bk and piece squares. Predictors that must look up
// a *different* bitbase keyed by the same geometry (e.g. KPPK predicting from KPK) use
// this to recover the squares from an index alone.
func Position(idx int, pawns []bool) (wk, bk board.Square, pieces []board.Square) {
	wkFold := idx % 32
	idx /= 32

	bk = board.Square(idx % 64)
	idx /= 64

	wk = board.NewSquare(board.File(7-wkFold/8), board.Rank(wkFold%8))

	pieces = make([]board.Square, len(pawns))
	for i, isPawn := range pawns {
		if isPawn {
			pieces[i] = board.Square(idx%48 + 8)
			idx /= 48
		} else {
			pieces[i] = board.Square(idx % 64)
			idx /= 64
		}
	}
	return wk, bk, pieces
}
