package bitbase

// Run-length codec for packed bitbase payloads, grounded on
// original_source/src/bitbase.cxx's packDataRle/unpackDataRle.
//
// Each unit starts with a header byte. High bit set: the low 7 bits plus one is a count
// of literal bytes that follow verbatim. High bit clear: the low 7 bits plus one is a
// count of repetitions of the single byte that follows. A run is only ever 1..128 bytes.

// MaxPackedLen bounds the worst-case size of PackRLE(src): input with no run of three equal
// bytes packs entirely as literal blocks of up to 128 bytes, each costing one header byte.
func MaxPackedLen(n int) int {
	return n + n/128 + 1
}

// PackRLE compresses src into the header/run encoding described above.
func PackRLE(src []byte) []byte {
	dst := make([]byte, 0, MaxPackedLen(len(src)))

	i := 0
	for i < len(src) {
		// Scan for the start of a run of (at least) 3 identical bytes; anything before
		// it is emitted as literal runs.
		start := i
		for i < len(src) && !(i+2 < len(src) && src[i] == src[i+1] && src[i+1] == src[i+2]) {
			i++
		}

		for count := i - start; count > 0; {
			block := count
			if block > 128 {
				block = 128
			}
			dst = append(dst, 0x80|byte(block-1))
			dst = append(dst, src[start:start+block]...)
			start += block
			count -= block
		}
		if i == len(src) {
			break
		}

		runStart := i
		b := src[i]
		i++
		for i < len(src) && src[i] == b {
			i++
		}

		for count := i - runStart; count > 0; {
			block := count
			if block > 128 {
				block = 128
			}
			dst = append(dst, byte(block-1), b)
			count -= block
		}
	}
	return dst
}

// UnpackRLE reverses PackRLE.
func UnpackRLE(src []byte) []byte {
	var dst []byte

	i := 0
	for i < len(src) {
		header := src[i]
		i++
		count := int(header&0x7f) + 1

		if header&0x80 != 0 {
			dst = append(dst, src[i:i+count]...)
			i += count
		} else {
			b := src[i]
			i++
			for j := 0; j < count; j++ {
				dst = append(dst, b)
			}
		}
	}
	return dst
}
