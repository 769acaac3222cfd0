package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a position. Once an empty
	// list is returned, the book should not be consulted again for the game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// Line represents an opening line: e2e4 d7d5.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book.
type NoBook struct{}

func (NoBook) Find(ctx context.Context, fen string) ([]board.Move, error) {
	return nil, nil
}

// NewBook creates an opening book from a set of opening lines, validating each move against
// the position it's played in by resolving and applying it in place on a scratch Position --
// no board.Board or transposition-table plumbing is needed merely to walk lines.
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}
	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			candidate, err := board.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line '%v': %v", line, err)
			}

			pos, turn, noprogress, fullmoves, err := fen.Decode(key)
			if err != nil {
				return nil, fmt.Errorf("invalid line '%v': %v", line, err)
			}

			resolved, ok := pos.Resolve(turn, candidate)
			if !ok {
				return nil, fmt.Errorf("invalid line '%v': move %v not found", line, candidate)
			}

			pos.DoMove(nil, resolved)
			if pos.IsChecked(turn) {
				return nil, fmt.Errorf("invalid line '%v': move %v not legal", line, candidate)
			}

			if m[fenKey(key)] == nil {
				m[fenKey(key)] = map[board.Move]bool{}
			}
			m[fenKey(key)][resolved] = true

			np := noprogress + 1
			if resolved.IsCapture() || resolved.Piece == board.Pawn {
				np = 0
			}
			fm := fullmoves
			if turn == board.Black {
				fm++
			}
			key = fen.Encode(pos, turn.Opponent(), np, fm)
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Capture != list[j].Capture {
				return board.NominalValue(list[i].Capture) > board.NominalValue(list[j].Capture)
			}
			if list[i].From != list[j].From {
				return list[i].From < list[j].From
			}
			return list[i].To < list[j].To
		})
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

type book struct {
	moves map[string][]board.Move // cropped fen -> []move
}

func (b *book) Find(ctx context.Context, position string) ([]board.Move, error) {
	return b.moves[fenKey(position)], nil
}

func fenKey(pos string) string {
	parts := strings.Split(pos, " ")
	return strings.Join(parts[:4], " ")
}
