package engine

import "testing"

func TestBookEligible(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		ply      uint
		miss     uint
		eligible bool
	}{
		{"no caps", Options{}, 100, 100, true},
		{"within ply budget", Options{BookPlies: 20}, 19, 0, true},
		{"ply budget exhausted", Options{BookPlies: 20}, 20, 0, false},
		{"within miss budget", Options{BookMissLimit: 2}, 0, 1, true},
		{"miss budget exhausted", Options{BookMissLimit: 2}, 0, 2, false},
		{"ply ok but misses exhausted", Options{BookPlies: 20, BookMissLimit: 2}, 3, 2, false},
	}

	for _, tt := range tests {
		e := &Engine{opts: tt.opts, bookPly: tt.ply, bookMiss: tt.miss}
		if got := e.bookEligible(); got != tt.eligible {
			t.Errorf("%v: bookEligible() = %v, want %v", tt.name, got, tt.eligible)
		}
	}
}
