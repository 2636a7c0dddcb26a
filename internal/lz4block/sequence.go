package lz4block

import "github.com/corelz4/lz4/internal/lz4platform"

// useWildCopy gates the mid-block literal wild-copy path below on
// lz4platform's FastShortcut flag; the wild copy itself always moves
// wildCopyLength-byte chunks. Where the flag is off, literals are
// copied precisely.
var useWildCopy = lz4platform.Detect().FastShortcut

// WriteSequence appends one LZ4 sequence — a literal run followed by a
// back-reference match — to dst at dstPos, returning the new position.
// It is shared by the fast encoder (encode.go) and the HC encoder
// (package lz4hc) so both emit the exact token/extension-byte/offset
// layout from one place.
func WriteSequence(dst []byte, dstPos int, lit []byte, offset, matchLen int) (int, error) {
	litLen := len(lit)
	need := 1 + extLenBytes(litLen) + litLen + 2 + extLenBytes(matchLen-minMatch)
	if dstPos+need > len(dst) {
		return 0, ErrOutputTooSmall
	}

	litCode := litLen
	if litCode > 15 {
		litCode = 15
	}
	mlCode := matchLen - minMatch
	if mlCode > 15 {
		mlCode = 15
	}
	dst[dstPos] = byte(litCode<<4 | mlCode)
	dstPos++

	dstPos = writeExtLen(dst, dstPos, litLen)
	copyLiterals(dst, dstPos, lit)
	dstPos += litLen

	write16(dst[dstPos:], uint16(offset))
	dstPos += 2

	dstPos = writeExtLen(dst, dstPos, matchLen-minMatch)
	return dstPos, nil
}

// WriteLastLiterals appends the trailing literals-only sequence every
// LZ4 block ends with.
func WriteLastLiterals(dst []byte, dstPos int, lit []byte) (int, error) {
	litLen := len(lit)
	need := 1 + extLenBytes(litLen) + litLen
	if dstPos+need > len(dst) {
		return 0, ErrOutputTooSmall
	}
	litCode := litLen
	if litCode > 15 {
		litCode = 15
	}
	dst[dstPos] = byte(litCode << 4)
	dstPos++
	dstPos = writeExtLen(dst, dstPos, litLen)
	copy(dst[dstPos:], lit)
	dstPos += litLen
	return dstPos, nil
}

// MinMatch, LastLiterals and MaxDistance are exported so sibling
// packages (lz4hc, lz4frame) share the same wire constants instead of
// redefining them.
const (
	MinMatch     = minMatch
	LastLiterals = lastLiterals
	MaxDistance  = maxDistance
)

// copyLiterals writes lit into dst at dstPos. When the CPU favors it and
// both slices carry enough trailing capacity, it uses the wild-copy path
// (over-writing/over-reading up to wildCopyLength-1 bytes, always within
// each slice's capacity); otherwise it falls back to a precise copy. A
// mid-block literal run is always followed by at least the 2-byte offset
// field of this same sequence, so dst's capacity check alone is not
// sufficient — it must also cover that trailing slack.
func copyLiterals(dst []byte, dstPos int, lit []byte) {
	n := len(lit)
	if useWildCopy && n > 0 &&
		cap(dst)-dstPos >= n+wildCopyLength &&
		cap(lit) >= n+wildCopyLength {
		WildCopy(dst[dstPos:cap(dst)], lit[:n:cap(lit)], n)
		return
	}
	copy(dst[dstPos:dstPos+n], lit)
}
