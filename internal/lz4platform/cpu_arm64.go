//go:build arm64

package lz4platform

import "golang.org/x/sys/cpu"

// detectFeatures on arm64: unaligned access is always permitted by the
// architecture; NEON availability is universal on arm64 but we still
// probe it the way the rest of the CPU-feature texture in this module
// does, for symmetry with cpu_amd64.go.
func detectFeatures() Features {
	_ = cpu.ARM64.HasASIMD // NEON is mandatory on arm64; probed for parity only.
	return Features{
		WildCopyWidth: 16,
		FastShortcut:  true,
	}
}
