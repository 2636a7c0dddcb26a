// Package lz4platform selects copy widths for the block codec based on
// the CPU it runs on. It carries no SIMD code of its own: Go's compiler
// already turns small fixed-size copy loops into wide moves on capable
// hardware, so this package only decides how wide a "wild copy" chunk
// the encoder and decoder are allowed to assume is cheap.
package lz4platform

import "sync"

// Features describes what the current CPU offers the codec.
type Features struct {
	// WildCopyWidth is the widest fixed-size block copy the codec may
	// assume is cheap: the decoder shortcut copies a short literal run
	// as one block of this width. 8 is the conservative floor; 16 is
	// selected where unaligned 16-byte access is known-cheap.
	WildCopyWidth int

	// FastShortcut enables the fixed-width fast paths: the decoder's
	// short-sequence shortcut (one WildCopyWidth literal copy plus a
	// chunked match wild-copy) and the encoder's wild literal copy.
	// Where it is off, both sides use their general, still correct,
	// precise-copy paths.
	FastShortcut bool
}

var (
	detectOnce sync.Once
	detected   Features
)

// Detect returns the codec's per-architecture copy configuration. It is
// computed once and cached.
func Detect() Features {
	detectOnce.Do(func() {
		detected = detectFeatures()
	})
	return detected
}
