// Package san formats and parses moves in Standard Algebraic Notation, the notation used by
// published game scores (e.g. "Nf3", "Bxe5", "O-O", "e8=Q+"), as distinct from the long
// algebraic coordinate notation (board.Move.String, e.g. "g1f3") used internally and over the
// external adapter wire format.
package san

import (
	"fmt"
	"strings"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/movegen"
)

// Encode formats m, played by turn against pos (not yet mutated by m), as SAN, including a
// "+"/"#" suffix if the move checks or mates. tables is needed to maintain the Zobrist hash
// across the trial DoMove used to detect check/mate; pos is left unmodified.
func Encode(tables *board.Tables, pos *board.Position, turn board.Color, m board.Move) string {
	if m.IsCastle() {
		s := "O-O"
		if m.Type == board.QueenSideCastle {
			s = "O-O-O"
		}
		return s + checkSuffix(tables, pos, turn, m)
	}

	var sb strings.Builder
	if m.Piece == board.Pawn {
		if m.IsCapture() {
			sb.WriteString(strings.ToLower(m.From.File().String()))
		}
	} else {
		sb.WriteString(strings.ToUpper(m.Piece.String()))
		sb.WriteString(disambiguate(pos, turn, m))
	}

	if m.IsCapture() {
		sb.WriteString("x")
	}
	sb.WriteString(strings.ToLower(m.To.String()))

	if m.IsPromotion() {
		sb.WriteString("=")
		sb.WriteString(strings.ToUpper(m.Promotion.String()))
	}

	sb.WriteString(checkSuffix(tables, pos, turn, m))
	return sb.String()
}

// disambiguate returns the minimal file/rank/both qualifier needed to distinguish m.From from
// any other same-type piece of turn's that could also legally reach m.To.
func disambiguate(pos *board.Position, turn board.Color, m board.Move) string {
	candidates := movegen.GenerateMovesToSquare(pos, turn, m.To)

	sameFile, sameRank := false, false
	others := 0
	for _, c := range candidates {
		if c.Piece != m.Piece || c.From == m.From {
			continue
		}
		others++
		if c.From.File() == m.From.File() {
			sameFile = true
		}
		if c.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if others == 0 {
		return ""
	}
	if !sameFile {
		return strings.ToLower(m.From.File().String())
	}
	if !sameRank {
		return m.From.Rank().String()
	}
	return strings.ToLower(m.From.String())
}

// checkSuffix plays m on a scratch copy of pos and reports whether it delivers check ("+") or
// checkmate ("#", no legal reply exists), or "" otherwise.
func checkSuffix(tables *board.Tables, pos *board.Position, turn board.Color, m board.Move) string {
	scratch := pos.Clone()
	scratch.DoMove(tables, m)

	opponent := turn.Opponent()
	if !scratch.IsChecked(opponent) {
		return ""
	}

	pseudo := movegen.GenerateMoves(scratch, opponent)
	if len(movegen.GenerateLegal(scratch, tables, opponent, pseudo)) == 0 {
		return "#"
	}
	return "+"
}

// Decode parses a SAN move string against pos (the position before the move, for turn to
// move), resolving disambiguation and capture/promotion metadata against the actual pseudo-
// legal moves available. It does not itself verify the move is legal (doesn't leave turn's
// own king in check); the caller should still apply it via Position.DoMove and check.
func Decode(pos *board.Position, turn board.Color, str string) (board.Move, error) {
	s := strings.TrimSpace(str)
	s = strings.TrimRight(s, "+#!?")

	if s == "O-O" || s == "0-0" {
		return resolveCastle(pos, turn, board.KingSideCastle)
	}
	if s == "O-O-O" || s == "0-0-0" {
		return resolveCastle(pos, turn, board.QueenSideCastle)
	}

	if len(s) < 2 {
		return board.Move{}, fmt.Errorf("san: invalid move %q", str)
	}

	piece := board.Pawn
	rest := s
	if r := rune(s[0]); r >= 'A' && r <= 'Z' {
		p, ok := board.ParsePiece(r)
		if !ok {
			return board.Move{}, fmt.Errorf("san: invalid piece in %q", str)
		}
		piece = p
		rest = s[1:]
	}

	var promotion board.Piece
	if idx := strings.IndexByte(rest, '='); idx >= 0 {
		p, ok := board.ParsePiece(rune(rest[idx+1]))
		if !ok {
			return board.Move{}, fmt.Errorf("san: invalid promotion in %q", str)
		}
		promotion = p
		rest = rest[:idx]
	}

	rest = strings.ReplaceAll(rest, "x", "")

	if len(rest) < 2 {
		return board.Move{}, fmt.Errorf("san: invalid destination in %q", str)
	}
	to, err := board.ParseSquareStr(rest[len(rest)-2:])
	if err != nil {
		return board.Move{}, fmt.Errorf("san: invalid destination in %q: %w", str, err)
	}
	hint := rest[:len(rest)-2]

	var fileHint = -1
	var rankHint = -1
	for _, r := range hint {
		if f, ok := board.ParseFile(r); ok {
			fileHint = int(f)
		} else if rk, ok := board.ParseRank(r); ok {
			rankHint = int(rk)
		} else {
			return board.Move{}, fmt.Errorf("san: invalid disambiguation in %q", str)
		}
	}

	candidates := movegen.GenerateMovesToSquare(pos, turn, to)
	var match board.Move
	found := 0
	for _, c := range candidates {
		if c.Piece != piece {
			continue
		}
		if fileHint >= 0 && int(c.From.File()) != fileHint {
			continue
		}
		if rankHint >= 0 && int(c.From.Rank()) != rankHint {
			continue
		}
		if promotion != board.NoPiece && c.Promotion != promotion {
			continue
		}
		if promotion == board.NoPiece && c.Promotion != board.NoPiece {
			continue
		}
		match = c
		found++
	}
	if found != 1 {
		return board.Move{}, fmt.Errorf("san: %d candidates for %q", found, str)
	}
	return match, nil
}

func resolveCastle(pos *board.Position, turn board.Color, which board.MoveType) (board.Move, error) {
	rank := board.Rank1
	if turn == board.Black {
		rank = board.Rank8
	}
	king := board.NewSquare(board.FileE, rank)
	to := board.NewSquare(board.FileG, rank)
	if which == board.QueenSideCastle {
		to = board.NewSquare(board.FileC, rank)
	}
	m, ok := pos.Resolve(turn, board.Move{From: king, To: to})
	if !ok || m.Type != which {
		return board.Move{}, fmt.Errorf("san: castle not available for %v", turn)
	}
	return m, nil
}
