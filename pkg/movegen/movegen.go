// Package movegen generates pseudo-legal and legal moves against a board.Position: the full
// move set, tactical-only (captures and promotions) and non-tactical subsets used for phased
// move ordering, check-evasions for positions where the side to move is in check, and moves
// converging on a single target square, used by SAN disambiguation.
package movegen

import "github.com/kiwicore/morlock/pkg/board"

var promotionPieces = []board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight}

// GenerateMoves generates every pseudo-legal move for turn: it does not filter moves that
// leave turn's own king in check, or castling through an attacked square is checked here but
// self-check from a regular move is not -- use GenerateLegal for that.
func GenerateMoves(pos *board.Position, turn board.Color) []board.Move {
	var out []board.Move
	generatePawnMoves(pos, turn, true, true, &out)
	generatePieceMoves(pos, turn, true, true, &out)
	generateCastling(pos, turn, &out)
	return out
}

// GenerateTactical generates pseudo-legal captures, en passant captures and promotions
// (including under-promotions) only.
func GenerateTactical(pos *board.Position, turn board.Color) []board.Move {
	var out []board.Move
	generatePawnMoves(pos, turn, true, false, &out)
	generatePieceMoves(pos, turn, true, false, &out)
	return out
}

// GenerateNonTactical generates pseudo-legal quiet moves: everything GenerateMoves produces
// that GenerateTactical doesn't.
func GenerateNonTactical(pos *board.Position, turn board.Color) []board.Move {
	var out []board.Move
	generatePawnMoves(pos, turn, false, true, &out)
	generatePieceMoves(pos, turn, false, true, &out)
	generateCastling(pos, turn, &out)
	return out
}

// GenerateCheckEvasions generates pseudo-legal moves when turn's king is in check. With one
// checker, it is king moves plus moves of any other piece that capture the checker or land on
// a square between the king and a sliding checker. With two or more checkers, only king moves
// can possibly evade, so only those are generated. All output is still pseudo-legal: the
// caller must filter self-check with a trial DoMove/UndoMove (see GenerateLegal).
func GenerateCheckEvasions(pos *board.Position, turn board.Color) []board.Move {
	checkers := pos.Checkers(turn)
	var out []board.Move
	generateKingMoves(pos, turn, true, true, &out)

	if checkers.PopCount() != 1 {
		return out // double check: only the king can move
	}

	checkerSq, _ := checkers.Pop()
	_, checkerPiece, _ := pos.Square(checkerSq)

	blockMask := board.BitMask(checkerSq)
	if isSlider(checkerPiece) {
		blockMask |= board.SquaresBetween(pos.King(turn), checkerSq)
	}

	var body []board.Move
	generatePawnMoves(pos, turn, true, true, &body)
	generatePieceMoves(pos, turn, true, true, &body)
	for _, m := range body {
		if m.Piece == board.King {
			continue
		}
		to := m.To
		if m.Type == board.EnPassant {
			// only blocks/captures the checker if the captured pawn is the checker itself
			epc, _ := m.EnPassantCapture()
			if epc != checkerSq {
				continue
			}
		} else if !blockMask.IsSet(to) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// GenerateMovesToSquare generates pseudo-legal moves of any piece (castling excluded, since
// its destination is fixed by the right being exercised, not a target square) that land on
// target, used for SAN disambiguation of an already-decided destination.
func GenerateMovesToSquare(pos *board.Position, turn board.Color, target board.Square) []board.Move {
	var body []board.Move
	generatePawnMoves(pos, turn, true, true, &body)
	generatePieceMoves(pos, turn, true, true, &body)

	var out []board.Move
	for _, m := range body {
		if m.To == target {
			out = append(out, m)
		}
	}
	return out
}

// GenerateLegal filters the pseudo-legal moves returned by gen to only those that do not
// leave turn's own king in check, by trial-applying and undoing each one.
func GenerateLegal(pos *board.Position, tables *board.Tables, turn board.Color, moves []board.Move) []board.Move {
	var out []board.Move
	for _, m := range moves {
		undo := pos.DoMove(tables, m)
		checked := pos.IsChecked(turn)
		pos.UndoMove(m, undo)
		if !checked {
			out = append(out, m)
		}
	}
	return out
}

func isSlider(p board.Piece) bool {
	return p == board.Bishop || p == board.Rook || p == board.Queen
}

func generatePawnMoves(pos *board.Position, turn board.Color, tactical, quiet bool, out *[]board.Move) {
	pawns := pos.Pieces(turn, board.Pawn)
	all := pos.All()
	enemy := pos.Occupancy(turn.Opponent())
	promoRank := board.PawnPromotionRank(turn)
	jumpRank := board.PawnJumpRank(turn)

	for _, from := range pawns.ToSquares() {
		single := board.BitMask(from)

		pushes := board.PawnMoveboard(all, turn, single)
		for _, to := range pushes.ToSquares() {
			if promoRank.IsSet(to) {
				if tactical {
					for _, promo := range promotionPieces {
						*out = append(*out, board.Move{Type: board.Promotion, From: from, To: to, Piece: board.Pawn, Promotion: promo})
					}
				}
				continue
			}
			if quiet {
				*out = append(*out, board.Move{Type: board.Push, From: from, To: to, Piece: board.Pawn})
			}
		}

		if quiet && pushes != 0 {
			jumps := board.PawnMoveboard(all, turn, pushes) & jumpRank
			for _, to := range jumps.ToSquares() {
				*out = append(*out, board.Move{Type: board.Jump, From: from, To: to, Piece: board.Pawn})
			}
		}

		if tactical {
			caps := board.PawnCaptureboard(turn, single) & enemy
			for _, to := range caps.ToSquares() {
				_, capPiece, _ := pos.Square(to)
				if promoRank.IsSet(to) {
					for _, promo := range promotionPieces {
						*out = append(*out, board.Move{Type: board.CapturePromotion, From: from, To: to, Piece: board.Pawn, Promotion: promo, Capture: capPiece})
					}
					continue
				}
				*out = append(*out, board.Move{Type: board.Capture, From: from, To: to, Piece: board.Pawn, Capture: capPiece})
			}

			if ep, ok := pos.EnPassant(); ok {
				if board.PawnCaptureboard(turn, single).IsSet(ep) {
					*out = append(*out, board.Move{Type: board.EnPassant, From: from, To: ep, Piece: board.Pawn, Capture: board.Pawn})
				}
			}
		}
	}
}

func generatePieceMoves(pos *board.Position, turn board.Color, tactical, quiet bool, out *[]board.Move) {
	generateOfficerMoves(pos, turn, board.Knight, tactical, quiet, out)
	generateOfficerMoves(pos, turn, board.Bishop, tactical, quiet, out)
	generateOfficerMoves(pos, turn, board.Rook, tactical, quiet, out)
	generateOfficerMoves(pos, turn, board.Queen, tactical, quiet, out)
	generateKingMoves(pos, turn, tactical, quiet, out)
}

func generateOfficerMoves(pos *board.Position, turn board.Color, piece board.Piece, tactical, quiet bool, out *[]board.Move) {
	rotated := pos.Rotated()
	own := pos.Occupancy(turn)
	enemy := pos.Occupancy(turn.Opponent())

	for _, from := range pos.Pieces(turn, piece).ToSquares() {
		att := board.Attackboard(rotated, from, piece) &^ own

		if tactical {
			for _, to := range (att & enemy).ToSquares() {
				_, capPiece, _ := pos.Square(to)
				*out = append(*out, board.Move{Type: board.Capture, From: from, To: to, Piece: piece, Capture: capPiece})
			}
		}
		if quiet {
			for _, to := range (att &^ enemy).ToSquares() {
				*out = append(*out, board.Move{Type: board.Normal, From: from, To: to, Piece: piece})
			}
		}
	}
}

func generateKingMoves(pos *board.Position, turn board.Color, tactical, quiet bool, out *[]board.Move) {
	generateOfficerMoves(pos, turn, board.King, tactical, quiet, out)
}

func generateCastling(pos *board.Position, turn board.Color, out *[]board.Move) {
	rank := board.Rank1
	kingSide, queenSide := board.WhiteKingSideCastle, board.WhiteQueenSideCastle
	if turn == board.Black {
		rank = board.Rank8
		kingSide, queenSide = board.BlackKingSideCastle, board.BlackQueenSideCastle
	}

	king := board.NewSquare(board.FileE, rank)
	if pos.King(turn) != king || pos.IsChecked(turn) {
		return
	}
	opp := turn.Opponent()
	all := pos.All()

	if pos.Castling().IsAllowed(kingSide) {
		f, g := board.NewSquare(board.FileF, rank), board.NewSquare(board.FileG, rank)
		if !all.IsSet(f) && !all.IsSet(g) && !pos.IsAttacked(f, opp) && !pos.IsAttacked(g, opp) {
			*out = append(*out, board.Move{Type: board.KingSideCastle, From: king, To: g, Piece: board.King})
		}
	}
	if pos.Castling().IsAllowed(queenSide) {
		b, c, d := board.NewSquare(board.FileB, rank), board.NewSquare(board.FileC, rank), board.NewSquare(board.FileD, rank)
		if !all.IsSet(b) && !all.IsSet(c) && !all.IsSet(d) && !pos.IsAttacked(c, opp) && !pos.IsAttacked(d, opp) {
			*out = append(*out, board.Move{Type: board.QueenSideCastle, From: king, To: c, Piece: board.King})
		}
	}
}
