package san_test

import (
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/board/san"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTables() *board.Tables {
	return board.NewTables(7)
}

func TestEncodeSimpleMoves(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, turn)

	m, ok := pos.Resolve(turn, board.Move{From: board.E2, To: board.E4})
	require.True(t, ok)
	assert.Equal(t, "e4", san.Encode(tables, pos, turn, m))

	n, ok := pos.Resolve(turn, board.Move{From: board.G1, To: board.F3})
	require.True(t, ok)
	assert.Equal(t, "Nf3", san.Encode(tables, pos, turn, n))
}

func TestEncodeCastling(t *testing.T) {
	pos, err := boardFromPieces([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.H1, Color: board.White, Piece: board.Rook},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.FullCastingRights)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, board.White)

	m, ok := pos.Resolve(board.White, board.Move{From: board.E1, To: board.G1})
	require.True(t, ok)
	assert.Equal(t, "O-O", san.Encode(tables, pos, board.White, m))
}

func TestEncodeMateSuffix(t *testing.T) {
	// The position right before the historical Fool's Mate: 2...Qh4# delivers an
	// unanswerable diagonal check along the now-undefended e1-h4 diagonal.
	pos, err := boardFromPieces([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Queen},
		{Square: board.A1, Color: board.White, Piece: board.Rook},
		{Square: board.H1, Color: board.White, Piece: board.Rook},
		{Square: board.C1, Color: board.White, Piece: board.Bishop},
		{Square: board.F1, Color: board.White, Piece: board.Bishop},
		{Square: board.B1, Color: board.White, Piece: board.Knight},
		{Square: board.G1, Color: board.White, Piece: board.Knight},
		{Square: board.A2, Color: board.White, Piece: board.Pawn},
		{Square: board.B2, Color: board.White, Piece: board.Pawn},
		{Square: board.C2, Color: board.White, Piece: board.Pawn},
		{Square: board.D2, Color: board.White, Piece: board.Pawn},
		{Square: board.E2, Color: board.White, Piece: board.Pawn},
		{Square: board.F3, Color: board.White, Piece: board.Pawn},
		{Square: board.G4, Color: board.White, Piece: board.Pawn},
		{Square: board.H2, Color: board.White, Piece: board.Pawn},

		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D8, Color: board.Black, Piece: board.Queen},
		{Square: board.A8, Color: board.Black, Piece: board.Rook},
		{Square: board.H8, Color: board.Black, Piece: board.Rook},
		{Square: board.C8, Color: board.Black, Piece: board.Bishop},
		{Square: board.F8, Color: board.Black, Piece: board.Bishop},
		{Square: board.B8, Color: board.Black, Piece: board.Knight},
		{Square: board.G8, Color: board.Black, Piece: board.Knight},
		{Square: board.A7, Color: board.Black, Piece: board.Pawn},
		{Square: board.B7, Color: board.Black, Piece: board.Pawn},
		{Square: board.C7, Color: board.Black, Piece: board.Pawn},
		{Square: board.D7, Color: board.Black, Piece: board.Pawn},
		{Square: board.E5, Color: board.Black, Piece: board.Pawn},
		{Square: board.F7, Color: board.Black, Piece: board.Pawn},
		{Square: board.G7, Color: board.Black, Piece: board.Pawn},
		{Square: board.H7, Color: board.Black, Piece: board.Pawn},
	}, board.FullCastingRights)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, board.Black)

	m, ok := pos.Resolve(board.Black, board.Move{From: board.D8, To: board.H4})
	require.True(t, ok)
	assert.Equal(t, "Qh4#", san.Encode(tables, pos, board.Black, m))
}

func TestEncodeDisambiguation(t *testing.T) {
	pos, err := boardFromPieces([]board.Placement{
		{Square: board.D1, Color: board.White, Piece: board.Rook},
		{Square: board.A5, Color: board.White, Piece: board.Rook},
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.H8, Color: board.Black, Piece: board.King},
	}, 0)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, board.White)

	m, ok := pos.Resolve(board.White, board.Move{From: board.D1, To: board.D5})
	require.True(t, ok)
	assert.Equal(t, "Rdd5", san.Encode(tables, pos, board.White, m))
}

func TestDecodeOpeningMoves(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	tables := newTables()
	pos.SetHashes(tables, turn)

	m, err := san.Decode(pos, turn, "Nf3")
	require.NoError(t, err)
	assert.Equal(t, board.G1, m.From)
	assert.Equal(t, board.F3, m.To)

	m2, err := san.Decode(pos, turn, "e4")
	require.NoError(t, err)
	assert.Equal(t, board.E2, m2.From)
	assert.Equal(t, board.E4, m2.To)
}

func boardFromPieces(pieces []board.Placement, castling board.Castling) (*board.Position, error) {
	return board.NewPosition(pieces, castling, 0)
}
