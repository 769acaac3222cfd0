// Package bitbase implements endgame bitbases: packed 1- or 2-bit-per-position arrays
// addressed by king and piece squares, persisted in the "Kbb0" on-disk format (a 16-byte
// header plus an optionally RLE-compressed, predictor-XOR'd payload). Grounded directly on
// original_source/src/bitbase.cxx/.h and bitbase_adjust.cxx -- no example repo in the pack
// ships anything resembling this format, so the codec is implemented from the decompiled
// original rather than adapted from a teacher file.
package bitbase

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/seekerror/logw"
)

// Flags control packing and the array's default fill value.
type Flags uint

const (
	PackRaw Flags = 0
	PackRLE Flags = 1 << 0
	// DefaultFillOnes seeds a freshly-allocated array with all 1s rather than all 0s:
	// some endgames are won almost everywhere, so filling with the majority value and
	// only clearing the minority compresses far better.
	DefaultFillOnes Flags = 1 << 8
)

// Predictor computes the bit a bitbase's codec XORs against the raw stored value at idx,
// before RLE encoding (and, symmetrically, after RLE decoding -- XOR is its own inverse).
// A good predictor concentrates long runs of zeros, which is all the RLE codec needs to
// shrink the payload. wtm selects which of the two on-disk files (white- or
// black-to-move) is being processed.
type Predictor func(wtm bool, idx int) byte

// Descriptor names one endgame bitbase: its bit width, the non-king pieces it covers
// (White's perspective; mirrored recognizer handlers reuse the same descriptor), the
// on-disk filename stem, and an optional predictor transform.
type Descriptor struct {
	ID        string
	Bits      Bits
	Pieces    []board.Piece // non-king pieces
	Pawns     []bool        // parallel to Pieces: true if ranks 2-7 (48 values, not 64)
	Flags     Flags
	Stem      string
	Predictor Predictor
}

func (d Descriptor) indexRange() int {
	return IndexRange(d.Pawns)
}

func (d Descriptor) fill() byte {
	if d.Flags&DefaultFillOnes != 0 {
		return 1
	}
	return 0
}

func (d Descriptor) filename(wtm bool) string {
	if wtm {
		return d.Stem + "_wtm.bb"
	}
	return d.Stem + "_btm.bb"
}

var magic = [4]byte{'K', 'b', 'b', '0'}

type header struct {
	Magic    [4]byte
	_        [4]byte
	Len      uint32
	_        [4]byte
}

// Sentinel I/O errors, per spec's bitbase error taxonomy: a bitbase simply becomes
// unavailable on any of these, and the recognizer falls back to its heuristic evaluator.
var (
	ErrFileMissing        = errors.New("bitbase: file missing")
	ErrBadMagic           = errors.New("bitbase: header magic mismatch")
	ErrTruncatedPayload   = errors.New("bitbase: truncated payload")
	ErrDecompressMismatch = errors.New("bitbase: decompressed length mismatch")
	ErrPredictorFailed    = errors.New("bitbase: predictor decode failed")
)

// Load reads dir/<stem>_wtm.bb or _btm.bb for d, applying RLE decoding and the inverse
// predictor XOR. On any I/O or format error it logs the failure and returns a wrapped
// sentinel error; callers (the recognizer) treat a non-nil error as "bitbase unavailable"
// and keep evaluating with their hand-coded fallback, per spec section 7.
func Load(ctx context.Context, dir string, d Descriptor, wtm bool) (*PackedArray, error) {
	name := filepath.Join(dir, d.filename(wtm))

	f, err := os.Open(name)
	if err != nil {
		logw.Errorf(ctx, "Bitbase %v: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrFileMissing, err)
	}
	defer f.Close()

	var h header
	if err := binary.Read(f, binary.BigEndian, &h); err != nil {
		logw.Errorf(ctx, "Bitbase %v: truncated header: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrTruncatedPayload, err)
	}
	if h.Magic != magic {
		logw.Errorf(ctx, "Bitbase %v: bad magic %v", name, h.Magic)
		return nil, fmt.Errorf("%w: got %v", ErrBadMagic, h.Magic)
	}

	payload := make([]byte, h.Len)
	if _, err := io.ReadFull(f, payload); err != nil {
		logw.Errorf(ctx, "Bitbase %v: truncated payload: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrTruncatedPayload, err)
	}

	pa := NewPackedArray(d.indexRange(), d.Bits, d.fill())

	raw := payload
	if d.Flags&PackRLE != 0 {
		raw = UnpackRLE(payload)
	}
	if len(raw) != len(pa.data) {
		logw.Errorf(ctx, "Bitbase %v: decompressed %v bytes, want %v", name, len(raw), len(pa.data))
		return nil, fmt.Errorf("%w: got %v want %v", ErrDecompressMismatch, len(raw), len(pa.data))
	}
	copy(pa.data, raw)

	if d.Predictor != nil {
		if err := applyPredictor(pa, d, wtm); err != nil {
			logw.Errorf(ctx, "Bitbase %v: predictor failed: %v", name, err)
			return nil, fmt.Errorf("%w: %v", ErrPredictorFailed, err)
		}
	}

	logw.Infof(ctx, "Bitbase %v loaded: %v entries", name, d.indexRange())
	return pa, nil
}

// Save writes pa to dir/<stem>_wtm.bb or _btm.bb, applying the predictor XOR and RLE
// encoding d specifies. It never mutates pa: encoding works on a private copy.
func Save(ctx context.Context, dir string, d Descriptor, wtm bool, pa *PackedArray) error {
	enc := &PackedArray{bits: pa.bits, n: pa.n, data: append([]byte(nil), pa.data...)}

	if d.Predictor != nil {
		if err := applyPredictor(enc, d, wtm); err != nil {
			return fmt.Errorf("%w: %v", ErrPredictorFailed, err)
		}
	}

	payload := enc.data
	if d.Flags&PackRLE != 0 {
		payload = PackRLE(enc.data)
	}

	var buf bytes.Buffer
	h := header{Magic: magic, Len: uint32(len(payload))}
	if err := binary.Write(&buf, binary.BigEndian, &h); err != nil {
		return err
	}
	buf.Write(payload)

	name := filepath.Join(dir, d.filename(wtm))
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logw.Infof(ctx, "Bitbase %v saved: %v bytes", name, buf.Len())
	return nil
}

// applyPredictor XORs every entry of pa against d.Predictor(wtm, idx). Because XOR is its
// own inverse, the same pass both encodes (before RLE/disk) and decodes (after disk/RLE).
func applyPredictor(pa *PackedArray, d Descriptor, wtm bool) error {
	mask := byte(1<<pa.bits) - 1
	for idx := 0; idx < pa.n; idx++ {
		predicted := d.Predictor(wtm, idx) & mask
		pa.Set(idx, pa.Get(idx)^predicted)
	}
	return nil
}
