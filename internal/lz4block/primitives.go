// Package lz4block implements the LZ4 block format: the fast single-pass
// encoder, the bounds-checked safe decoder, and the streaming state that
// lets either side carry up to 64 KiB of history across calls.
package lz4block

import (
	"encoding/binary"
	"math/bits"
)

const (
	// minMatch is the shortest back-reference LZ4 can encode.
	minMatch = 4
	// maxDistance is the largest back-reference offset the wire format
	// can express in its 2-byte little-endian offset field.
	maxDistance = 65535
	// wildCopyLength is the chunk width wildCopy moves data in.
	wildCopyLength = 8
	// mfLimit is how far before the end of input the match-finding
	// loop stops; the remaining bytes are always emitted as literals.
	mfLimit = wildCopyLength + minMatch
	// lastLiterals is the minimum number of literal-only trailing
	// bytes every block must end with.
	lastLiterals = 5
	// minLength is the smallest input the fast encoder will attempt to
	// match against; anything shorter is emitted as one literal run.
	minLength = mfLimit + 1

	// hashLog sizes the fast encoder's hash table at 1<<hashLog entries.
	hashLog       = 14
	hashTableSize = 1 << hashLog

	// skipTrigger controls how fast the miss-skip step grows as hash
	// probes keep missing.
	skipTrigger = 6

	// MaxInputSize is the largest source buffer the encoder accepts.
	MaxInputSize = 0x7E000000

	// MinAcceleration and MaxAcceleration bound the clamp applied to
	// the caller-supplied acceleration knob.
	MinAcceleration = 1
	MaxAcceleration = 65537
)

func read32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func read64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func write16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// hashPosition computes the LZ4 multiplicative hash of the 4-byte
// little-endian sequence x, bucketed into 1<<hashLog slots.
func hashPosition(x uint32) uint32 {
	const prime uint32 = 2654435761
	return (x * prime) >> (32 - hashLog)
}

// wildCopy copies n bytes from src to dst in wildCopyLength-byte chunks.
// It may touch up to wildCopyLength-1 bytes past n in both slices, so
// callers must only use it where both slices are known to extend at
// least that far past the logical n bytes they need copied.
func wildCopy(dst, src []byte, n int) {
	i := 0
	for i < n {
		copy(dst[i:i+wildCopyLength], src[i:i+wildCopyLength])
		i += wildCopyLength
	}
}

// commonBytesForward returns the number of leading bytes a and b share,
// using a pointer-sized xor-and-bitscan so long runs are compared in
// 8-byte strides rather than byte by byte.
func commonBytesForward(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i+8 <= n {
		x := read64(a[i:]) ^ read64(b[i:])
		if x != 0 {
			return i + bits.TrailingZeros64(x)>>3
		}
		i += 8
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// commonBytesBackward extends a match backward from (aEnd, bEnd) toward
// (aStart, bStart), returning how many bytes matched.
func commonBytesBackward(a, b []byte, aEnd, bEnd, aStart, bStart int) int {
	n := 0
	for aEnd-n-1 >= aStart && bEnd-n-1 >= bStart && a[aEnd-n-1] == b[bEnd-n-1] {
		n++
	}
	return n
}

// Read32, Hash, CommonBytesForward, CommonBytesBackward and WildCopy are
// exported so the HC encoder (package lz4hc) reuses the same primitives
// instead of redefining them with its own hash log and match-extension
// logic.

func Read32(b []byte) uint32 { return read32(b) }

// Hash computes the LZ4 multiplicative hash of the 4-byte little-endian
// sequence x, bucketed into 1<<log slots. It computes the same value as
// hashPosition when log==hashLog; the fast encoder calls hashPosition,
// and the HC encoder calls Hash with its own logs.
func Hash(x uint32, log uint) uint32 {
	const prime uint32 = 2654435761
	return (x * prime) >> (32 - log)
}

func CommonBytesForward(a, b []byte) int { return commonBytesForward(a, b) }

func CommonBytesBackward(a, b []byte, aEnd, bEnd, aStart, bStart int) int {
	return commonBytesBackward(a, b, aEnd, bEnd, aStart, bStart)
}

func WildCopy(dst, src []byte, n int) { wildCopy(dst, src, n) }

// CompressBound returns the worst-case compressed size of an n-byte
// input: n plus one length-extension byte per 255 bytes, plus a small
// constant for the token/offset overhead of an all-literals block.
func CompressBound(n int) int {
	if n <= 0 {
		return 16
	}
	return n + n/255 + 16
}
