package bitbase

import (
	"testing"

	"github.com/kiwicore/morlock/pkg/board"
)

func TestRLERoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		{1, 2, 3},
		bytesOf(200, 0),
		bytesOf(5, 0xff),
		append(bytesOf(3, 0), append(bytesOf(130, 7), bytesOf(2, 9)...)...),
		sequence(257),
	}

	for i, src := range cases {
		packed := PackRLE(src)
		if len(packed) > MaxPackedLen(len(src)) {
			t.Errorf("case %d: packed len %d exceeds MaxPackedLen %d", i, len(packed), MaxPackedLen(len(src)))
		}
		got := UnpackRLE(packed)
		if string(got) != string(src) {
			t.Errorf("case %d: round trip mismatch: got %v, want %v", i, got, src)
		}
	}
}

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func sequence(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// TestIndexBijectionKPK walks every folded (wk, bk, pawn) tuple for a 3-piece, one-pawn
// bitbase and confirms Index/Position are mutual inverses and every index in range is hit
// exactly once.
func TestIndexBijectionKPK(t *testing.T) {
	pawns := []bool{true}
	n := IndexRange(pawns)

	seen := make([]bool, n)
	count := 0
	for wf := board.File(4); wf <= 7; wf++ { // stdFile 0..3 is board.File 7..4 (reversed)
		for wr := board.Rank1; wr <= board.Rank8; wr++ {
			wk := board.NewSquare(wf, wr)
			for bk := board.Square(0); bk < 64; bk++ {
				for pr := board.Rank2; pr <= board.Rank7; pr++ {
					for pf := board.File(0); pf <= 7; pf++ {
						pawn := board.NewSquare(pf, pr)
						idx := Index(wk, bk, []board.Square{pawn}, pawns)
						if idx < 0 || idx >= n {
							t.Fatalf("index %d out of range [0,%d)", idx, n)
						}
						if seen[idx] {
							t.Fatalf("index %d hit twice", idx)
						}
						seen[idx] = true
						count++

						gwk, gbk, gpieces := Position(idx, pawns)
						if gwk != wk || gbk != bk || gpieces[0] != pawn {
							t.Fatalf("Position(%d) = (%v,%v,%v), want (%v,%v,%v)", idx, gwk, gbk, gpieces[0], wk, bk, pawn)
						}
					}
				}
			}
		}
	}

	if count != n {
		t.Fatalf("covered %d of %d indices", count, n)
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("index %d never hit", i)
		}
	}
}

func TestPackedArrayGetSet(t *testing.T) {
	for _, bits := range []Bits{BitsWin, BitsWDL} {
		a := NewPackedArray(100, bits, 0)
		max := byte(1<<bits) - 1
		for i := 0; i < 100; i++ {
			a.Set(i, byte(i)&max)
		}
		for i := 0; i < 100; i++ {
			if got := a.Get(i); got != byte(i)&max {
				t.Fatalf("bits=%d idx=%d: got %d want %d", bits, i, got, byte(i)&max)
			}
		}
	}
}

func TestPackedArrayFill(t *testing.T) {
	a := NewPackedArray(16, BitsWDL, 3)
	for i := 0; i < 16; i++ {
		if got := a.Get(i); got != 3 {
			t.Fatalf("idx %d: got %d want 3", i, got)
		}
	}
}

func TestNeedsReflectAndFold(t *testing.T) {
	// A white king on the h-file (stdFile 7) must be reflected into the a-d quarter.
	wk := board.NewSquare(board.FileH, board.Rank1)
	if !NeedsReflect(wk) {
		t.Fatalf("expected h-file king to need reflection")
	}
	rwk, _, _ := Fold(wk, board.NewSquare(board.FileA, board.Rank8), nil)
	if NeedsReflect(rwk) {
		t.Fatalf("folded king %v still needs reflection", rwk)
	}

	// A king already on the a-d quarter is left untouched.
	wk2 := board.NewSquare(board.FileA, board.Rank1)
	if NeedsReflect(wk2) {
		t.Fatalf("a-file king should not need reflection")
	}
}
