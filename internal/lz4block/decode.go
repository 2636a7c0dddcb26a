package lz4block

import "github.com/corelz4/lz4/internal/lz4platform"

// Decoder fast-path geometry. The gate and the literal-copy width come
// from lz4platform: the shortcut moves literals in one fixed
// WildCopyWidth block and matches in 8-byte wild-copy chunks, so it is
// only enabled where unaligned 16-byte access is known cheap.
var (
	shortcutEnabled = lz4platform.Detect().FastShortcut &&
		lz4platform.Detect().WildCopyWidth >= 16
	shortcutLitCopy = lz4platform.Detect().WildCopyWidth
)

// Shortcut slack requirements. The literal block copy reads and writes
// shortcutLitCopy bytes from the current positions; the match wild-copy
// writes at most ceil(17/8)*8 = 24 bytes past the post-literal cursor,
// which itself is at most 15 bytes ahead. The source-side bound also
// covers the 2 offset bytes read after up-to-15 literals.
const (
	shortcutSrcSlack = 18
	shortcutDstSlack = 40
)

// Decompress decodes exactly one LZ4 block from src into dst with no
// dictionary history, returning the number of bytes written. dst must
// be sized to hold the full decompressed block; use DecompressPartial
// to stop early. This is the security-critical entry point: it never
// reads outside src or writes outside dst regardless of content.
func Decompress(src, dst []byte) (int, error) {
	return decompress(src, dst, nil, len(dst)+1)
}

// DecompressDict decodes src into dst using dict as the history that
// logically precedes dst, for offsets that reach before dst's start.
func DecompressDict(src, dst, dict []byte) (int, error) {
	return decompress(src, dst, dict, len(dst)+1)
}

// DecompressPartial decodes src into dst, stopping as soon as target
// bytes have been produced or src is exhausted, whichever comes first.
// Every sequence it consumes is still fully validated.
func DecompressPartial(src, dst []byte, target int) (int, error) {
	return decompress(src, dst, nil, target)
}

// decompress is the shared safe-decoder core. dict, if non-nil, holds
// up to 64 KiB of history immediately preceding dst[0]; offsets may
// reach into it. target bounds how many output bytes are produced
// before decoding stops early (len(dst)+1 means "never stop early").
func decompress(src, dst, dict []byte, target int) (int, error) {
	srcLen := len(src)
	dstCap := len(dst)
	dictLen := len(dict)

	srcPos := 0
	dstPos := 0
	hadMatch := false
	lastMatchStart := 0
	lastMatchEnd := 0

	for {
		if dstPos >= target {
			return dstPos, nil
		}
		if srcPos >= srcLen {
			if srcPos == 0 && dstPos == 0 {
				return 0, nil
			}
			return 0, ErrMalformedInput
		}

		token := src[srcPos]
		srcPos++

		litLen := int(token >> 4)
		matchLen := int(token & 0x0F)
		offset := 0
		haveMatchHeader := false

		// Shortcut for the common short sequence: both lengths fit
		// their nibbles and both buffers carry enough slack for
		// fixed-size copies. Effect is identical to the general path;
		// only the copy shapes differ. All reads and writes below stay
		// within the slack reserved by the two bound checks.
		if shortcutEnabled && litLen < 15 && matchLen < 14 &&
			srcLen-srcPos >= shortcutSrcSlack && dstCap-dstPos >= shortcutDstSlack {
			copy(dst[dstPos:dstPos+shortcutLitCopy], src[srcPos:srcPos+shortcutLitCopy])
			srcPos += litLen
			dstPos += litLen

			offset = int(src[srcPos]) | int(src[srcPos+1])<<8
			srcPos += 2
			matchLen += minMatch
			haveMatchHeader = true

			if offset >= wildCopyLength && offset <= dstPos {
				// In-dst match, far enough back that every 8-byte chunk
				// reads fully written output. matchLen <= 17, so the
				// wild copy stays within the reserved dst slack.
				matchPos := dstPos - offset
				wildCopy(dst[dstPos:dstPos+24], dst[matchPos:matchPos+24], matchLen)
				dstPos += matchLen
				hadMatch = true
				lastMatchStart = dstPos - matchLen
				lastMatchEnd = dstPos
				continue
			}
			// Close or dictionary-reaching offset: finish this sequence
			// on the general match path below.
		}

		if !haveMatchHeader {
			if litLen == 15 {
				for {
					if srcPos >= srcLen {
						return 0, ErrMalformedInput
					}
					b := src[srcPos]
					srcPos++
					litLen += int(b)
					if b != 255 {
						break
					}
				}
			}

			if litLen > srcLen-srcPos {
				return 0, ErrMalformedInput
			}
			if litLen > dstCap-dstPos {
				return 0, ErrOutputTooSmall
			}
			copy(dst[dstPos:dstPos+litLen], src[srcPos:srcPos+litLen])
			srcPos += litLen
			dstPos += litLen

			if srcPos >= srcLen {
				// Literals-only final sequence: valid end of block, but
				// only if the block-tail margins are intact whenever a
				// match has been written — enough closing literals, and
				// a final match that started far enough before the end.
				if hadMatch && (dstPos-lastMatchEnd < lastLiterals || dstPos-lastMatchStart < mfLimit) {
					return 0, ErrMalformedInput
				}
				return dstPos, nil
			}

			if srcLen-srcPos < 2 {
				return 0, ErrMalformedInput
			}
			offset = int(src[srcPos]) | int(src[srcPos+1])<<8
			srcPos += 2

			if matchLen == 15 {
				for {
					if srcPos >= srcLen {
						return 0, ErrMalformedInput
					}
					b := src[srcPos]
					srcPos++
					matchLen += int(b)
					if b != 255 {
						break
					}
				}
			}
			matchLen += minMatch
		}

		if offset == 0 {
			return 0, ErrMalformedInput
		}
		if offset > dstPos+dictLen {
			return 0, ErrMalformedInput
		}
		if matchLen > dstCap-dstPos {
			return 0, ErrOutputTooSmall
		}

		copyMatch(dst, dict, dstPos, offset, matchLen)
		dstPos += matchLen
		hadMatch = true
		lastMatchStart = dstPos - matchLen
		lastMatchEnd = dstPos
	}
}

// copyMatch writes matchLen bytes to dst starting at dstPos, reading
// from the back-reference offset bytes earlier in the logical stream
// (dict ++ dst[:dstPos]). It copies left to right one byte at a time
// within the self-referential region so overlapping matches (offset <
// matchLen, including the offset == 1 byte-fill / RLE case) reproduce
// correctly.
func copyMatch(dst, dict []byte, dstPos, offset, matchLen int) {
	matchPos := dstPos - offset
	writePos := dstPos
	remaining := matchLen

	if matchPos < 0 {
		dictIdx := len(dict) + matchPos
		n := -matchPos
		if n > remaining {
			n = remaining
		}
		copy(dst[writePos:writePos+n], dict[dictIdx:dictIdx+n])
		writePos += n
		matchPos += n
		remaining -= n
	}

	for remaining > 0 {
		dst[writePos] = dst[matchPos]
		writePos++
		matchPos++
		remaining--
	}
}
