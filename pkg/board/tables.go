package board

// Tables bundles the precomputed lookup tables threaded by pointer through search and
// evaluation, so multiple independent instances (concurrent searches, tests) can run
// without sharing mutable global state.
type Tables struct {
	Zobrist *ZobristTable
}

// NewTables builds a fresh table set seeded deterministically, so two Tables built from the
// same seed hash identically (useful for reproducing a search from a logged seed).
func NewTables(seed int64) *Tables {
	return &Tables{Zobrist: NewZobristTable(seed)}
}
