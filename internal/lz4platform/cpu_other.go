//go:build !amd64 && !arm64

package lz4platform

// detectFeatures is the conservative fallback for architectures without
// a dedicated probe: assume only the always-safe 8-byte wild copy and
// skip the wider decoder shortcut.
func detectFeatures() Features {
	return Features{
		WildCopyWidth: 8,
		FastShortcut:  false,
	}
}
