package movegen_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/movegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printMoves(ms []board.Move) string {
	list := make([]string, 0, len(ms))
	for _, m := range ms {
		list = append(list, fmt.Sprintf("%d:%v", m.Type, m))
	}
	sort.Strings(list)
	return strings.Join(list, "\n")
}

func TestGenerateMovesPawns(t *testing.T) {
	tests := []struct {
		name     string
		turn     board.Color
		pieces   []board.Placement
		ep       board.Square
		expected []board.Move
	}{
		{
			"pushes and jump",
			board.White,
			[]board.Placement{
				{Square: board.E2, Color: board.White, Piece: board.Pawn},
				{Square: board.G5, Color: board.White, Piece: board.Pawn},
			},
			board.ZeroSquare,
			[]board.Move{
				{Type: board.Push, Piece: board.Pawn, From: board.E2, To: board.E3},
				{Type: board.Jump, Piece: board.Pawn, From: board.E2, To: board.E4},
				{Type: board.Push, Piece: board.Pawn, From: board.G5, To: board.G6},
			},
		},
		{
			"obstructed with capture",
			board.White,
			[]board.Placement{
				{Square: board.E2, Color: board.White, Piece: board.Pawn},
				{Square: board.D3, Color: board.Black, Piece: board.Knight},
				{Square: board.E4, Color: board.Black, Piece: board.Bishop},
				{Square: board.H5, Color: board.White, Piece: board.Pawn},
				{Square: board.G6, Color: board.Black, Piece: board.Bishop},
				{Square: board.H6, Color: board.Black, Piece: board.Knight},
			},
			board.ZeroSquare,
			[]board.Move{
				{Type: board.Capture, Piece: board.Pawn, From: board.E2, To: board.D3, Capture: board.Knight},
				{Type: board.Push, Piece: board.Pawn, From: board.E2, To: board.E3},
				{Type: board.Capture, Piece: board.Pawn, From: board.H5, To: board.G6, Capture: board.Bishop},
			},
		},
		{
			"promotion",
			board.White,
			[]board.Placement{
				{Square: board.D7, Color: board.White, Piece: board.Pawn},
			},
			board.ZeroSquare,
			[]board.Move{
				{Type: board.Promotion, Piece: board.Pawn, From: board.D7, To: board.D8, Promotion: board.Queen},
				{Type: board.Promotion, Piece: board.Pawn, From: board.D7, To: board.D8, Promotion: board.Rook},
				{Type: board.Promotion, Piece: board.Pawn, From: board.D7, To: board.D8, Promotion: board.Bishop},
				{Type: board.Promotion, Piece: board.Pawn, From: board.D7, To: board.D8, Promotion: board.Knight},
			},
		},
		{
			"en passant",
			board.Black,
			[]board.Placement{
				{Square: board.C4, Color: board.Black, Piece: board.Pawn},
				{Square: board.D4, Color: board.White, Piece: board.Pawn},
				{Square: board.E4, Color: board.Black, Piece: board.Pawn},
			},
			board.D3,
			[]board.Move{
				{Type: board.Push, Piece: board.Pawn, From: board.C4, To: board.C3},
				{Type: board.EnPassant, Piece: board.Pawn, From: board.C4, To: board.D3, Capture: board.Pawn},
				{Type: board.Push, Piece: board.Pawn, From: board.E4, To: board.E3},
				{Type: board.EnPassant, Piece: board.Pawn, From: board.E4, To: board.D3, Capture: board.Pawn},
			},
		},
	}

	// Place kings far away so they never interfere with pawn geometry.
	kings := []board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := board.NewPosition(append(append([]board.Placement{}, kings...), tt.pieces...), 0, tt.ep)
			require.NoError(t, err)

			actual := movegen.GenerateMoves(pos, tt.turn)
			actual = filterPiece(actual, board.Pawn)
			assert.Equal(t, printMoves(tt.expected), printMoves(actual))
		})
	}
}

func filterPiece(ms []board.Move, piece board.Piece) []board.Move {
	var out []board.Move
	for _, m := range ms {
		if m.Piece == piece {
			out = append(out, m)
		}
	}
	return out
}

func TestGenerateMovesOfficers(t *testing.T) {
	pieces := []board.Placement{
		{Square: board.A3, Color: board.White, Piece: board.Rook},
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.H8, Color: board.Black, Piece: board.King},
		{Square: board.B3, Color: board.Black, Piece: board.Rook},
		{Square: board.A6, Color: board.Black, Piece: board.Bishop},
	}
	pos, err := board.NewPosition(pieces, 0, 0)
	require.NoError(t, err)

	actual := filterPiece(movegen.GenerateMoves(pos, board.White), board.Rook)
	expected := []board.Move{
		{Type: board.Normal, Piece: board.Rook, From: board.A3, To: board.A2},
		{Type: board.Normal, Piece: board.Rook, From: board.A3, To: board.A4},
		{Type: board.Normal, Piece: board.Rook, From: board.A3, To: board.A5},
		{Type: board.Capture, Piece: board.Rook, From: board.A3, To: board.A6, Capture: board.Bishop},
		{Type: board.Capture, Piece: board.Rook, From: board.A3, To: board.B3, Capture: board.Rook},
	}
	assert.Equal(t, printMoves(expected), printMoves(actual))
}

func TestGenerateTacticalAndNonTacticalPartitionMoves(t *testing.T) {
	pos, turn, _, _, err := fen.Decode("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/1PB1P1b1/P1NP1N2/2P1QPPP/R4RK1 b - b3 0 10")
	require.NoError(t, err)

	all := movegen.GenerateMoves(pos, turn)
	tactical := movegen.GenerateTactical(pos, turn)
	quiet := movegen.GenerateNonTactical(pos, turn)

	assert.Equal(t, len(all), len(tactical)+len(quiet))
	assert.Equal(t, printMoves(all), printMoves(append(append([]board.Move{}, tactical...), quiet...)))
}

func TestGenerateMovesCastling(t *testing.T) {
	tests := []struct {
		name     string
		turn     board.Color
		pieces   []board.Placement
		castling board.Castling
		expected []board.Move
	}{
		{
			"no rights",
			board.White,
			[]board.Placement{
				{Square: board.E1, Color: board.White, Piece: board.King},
				{Square: board.H1, Color: board.White, Piece: board.Rook},
				{Square: board.A1, Color: board.White, Piece: board.Rook},
				{Square: board.A8, Color: board.Black, Piece: board.King},
			},
			0,
			nil,
		},
		{
			"full rights",
			board.White,
			[]board.Placement{
				{Square: board.E1, Color: board.White, Piece: board.King},
				{Square: board.H1, Color: board.White, Piece: board.Rook},
				{Square: board.A1, Color: board.White, Piece: board.Rook},
				{Square: board.A8, Color: board.Black, Piece: board.King},
			},
			board.FullCastingRights,
			[]board.Move{
				{Type: board.KingSideCastle, Piece: board.King, From: board.E1, To: board.G1},
				{Type: board.QueenSideCastle, Piece: board.King, From: board.E1, To: board.C1},
			},
		},
		{
			"obstructed",
			board.Black,
			[]board.Placement{
				{Square: board.E8, Color: board.Black, Piece: board.King},
				{Square: board.H8, Color: board.Black, Piece: board.Rook},
				{Square: board.G8, Color: board.White, Piece: board.Bishop},
				{Square: board.A8, Color: board.Black, Piece: board.Rook},
				{Square: board.A1, Color: board.White, Piece: board.King},
			},
			board.FullCastingRights,
			[]board.Move{
				{Type: board.QueenSideCastle, Piece: board.King, From: board.E8, To: board.C8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := board.NewPosition(tt.pieces, tt.castling, 0)
			require.NoError(t, err)

			actual := filterCastles(movegen.GenerateMoves(pos, tt.turn))
			assert.Equal(t, printMoves(tt.expected), printMoves(actual))
		})
	}
}

func filterCastles(ms []board.Move) []board.Move {
	var out []board.Move
	for _, m := range ms {
		if m.IsCastle() {
			out = append(out, m)
		}
	}
	return out
}

func TestGenerateCheckEvasionsSingleChecker(t *testing.T) {
	// White king on E1, checked by a rook on E8 along the E file; a white rook on A5 can
	// block on E5, and the king can also step aside.
	pieces := []board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A5, Color: board.White, Piece: board.Rook},
		{Square: board.E8, Color: board.Black, Piece: board.Rook},
		{Square: board.H8, Color: board.Black, Piece: board.King},
	}
	pos, err := board.NewPosition(pieces, 0, 0)
	require.NoError(t, err)

	evasions := movegen.GenerateCheckEvasions(pos, board.White)
	for _, m := range evasions {
		assert.True(t, m.Piece == board.King || m.To == board.E5 || m.To == board.E8,
			"unexpected evasion move %v", m)
	}

	var sawBlock bool
	for _, m := range evasions {
		if m.Piece == board.Rook && m.To == board.E5 {
			sawBlock = true
		}
	}
	assert.True(t, sawBlock, "expected the rook block on E5 among evasions")
}

func TestGenerateCheckEvasionsDoubleChecker(t *testing.T) {
	// A double check (by a rook and a knight) can only be evaded by king moves.
	pieces := []board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.Rook},
		{Square: board.D3, Color: board.Black, Piece: board.Knight},
		{Square: board.H8, Color: board.Black, Piece: board.King},
	}
	pos, err := board.NewPosition(pieces, 0, 0)
	require.NoError(t, err)

	evasions := movegen.GenerateCheckEvasions(pos, board.White)
	for _, m := range evasions {
		assert.Equal(t, board.King, m.Piece)
	}
}

func TestGenerateMovesToSquare(t *testing.T) {
	// Two rooks can both reach D5, used for SAN disambiguation.
	pieces := []board.Placement{
		{Square: board.D1, Color: board.White, Piece: board.Rook},
		{Square: board.A5, Color: board.White, Piece: board.Rook},
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.H8, Color: board.Black, Piece: board.King},
	}
	pos, err := board.NewPosition(pieces, 0, 0)
	require.NoError(t, err)

	actual := movegen.GenerateMovesToSquare(pos, board.White, board.D5)
	assert.Len(t, actual, 2)
	for _, m := range actual {
		assert.Equal(t, board.D5, m.To)
		assert.Equal(t, board.Rook, m.Piece)
	}
}

func TestGenerateLegalFiltersSelfCheck(t *testing.T) {
	// The White rook on D5 is pinned by the Black rook on D8 against the White king on D1:
	// moving it off the D file would leave the king in check.
	pieces := []board.Placement{
		{Square: board.D1, Color: board.White, Piece: board.King},
		{Square: board.D5, Color: board.White, Piece: board.Rook},
		{Square: board.D8, Color: board.Black, Piece: board.Rook},
		{Square: board.H8, Color: board.Black, Piece: board.King},
	}
	pos, err := board.NewPosition(pieces, 0, 0)
	require.NoError(t, err)

	tables := board.NewTables(1)
	pos.SetHashes(tables, board.White)

	pseudo := filterPiece(movegen.GenerateMoves(pos, board.White), board.Rook)
	legal := movegen.GenerateLegal(pos, tables, board.White, pseudo)

	for _, m := range legal {
		assert.Equal(t, board.FileD, m.To.File(), "pinned rook may only move along the D file")
	}
	assert.Less(t, len(legal), len(pseudo))
}
