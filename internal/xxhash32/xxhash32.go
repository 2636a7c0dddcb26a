// Package xxhash32 adapts github.com/pierrec/xxHash's xxHash32
// implementation to the narrow shape the frame codec needs: a
// one-shot xxh32(bytes, seed) and a streaming state with Write/Sum32.
// LZ4 frames use seed 0 everywhere; callers still pass it explicitly
// to keep the primitive itself context-free.
package xxhash32

import (
	"hash"

	"github.com/pierrec/xxHash/xxHash32"
)

// Sum32 computes the one-shot xxHash32 checksum of data with the given
// seed. LZ4 uses this for the frame header checksum and, optionally,
// per-block checksums.
func Sum32(data []byte, seed uint32) uint32 {
	return xxHash32.Checksum(data, seed)
}

// Digest is a running xxHash32 computation, used for the frame's
// content checksum which accumulates across every decompressed block.
type Digest struct {
	h hash.Hash32
}

// New returns a Digest seeded for streaming use.
func New(seed uint32) *Digest {
	return &Digest{h: xxHash32.New(seed)}
}

// Write feeds more bytes into the running checksum. It never errors.
func (d *Digest) Write(p []byte) {
	_, _ = d.h.Write(p)
}

// Sum32 returns the checksum of all bytes written so far without
// resetting the digest.
func (d *Digest) Sum32() uint32 {
	return d.h.Sum32()
}

// Reset rearms the digest for a new stream at the given seed.
func (d *Digest) Reset(seed uint32) {
	d.h = xxHash32.New(seed)
}
