package board

// UndoInfo snapshots the position state that DoMove/DoNullMove mutate as a side effect and
// that cannot be reconstructed by simply replaying the move's from/to squares in reverse:
// rights, clocks and the incremental hashes. Passed back into UndoMove/UndoNullMove to
// restore the position exactly.
type UndoInfo struct {
	Turn           Color
	Castling       Castling
	EnPassant      Square
	EnPassantValid bool
	HalfmoveClock  int
	Hash           ZobristHash
	PawnHash       ZobristHash
}
