package lz4frame

import (
	"encoding/binary"

	"github.com/corelz4/lz4/internal/xxhash32"
)

// Magic is the standard LZ4 frame magic number.
const Magic uint32 = 0x184D2204

// skippableMagicMask/skippableMagicValue identify the 0x184D2A5x family
// of skippable frames: any frame whose magic matches this pattern is
// skipped whole by the decoder.
const (
	skippableMagicMask  = 0xFFFFFFF0
	skippableMagicValue = 0x184D2A50
)

func isSkippableMagic(m uint32) bool {
	return m&skippableMagicMask == skippableMagicValue
}

// BlockMode selects whether blocks may reference earlier blocks' content.
type BlockMode int

const (
	// BlockLinked carries the last 64 KiB of decompressed output
	// forward as a dictionary for the next block.
	BlockLinked BlockMode = iota
	// BlockIndependent compresses/decompresses every block against no
	// history.
	BlockIndependent
)

// BlockSizeClass selects the maximum uncompressed size of one block.
// The wire value is this class itself (4..7); see blockSizeBytes.
type BlockSizeClass int

const (
	BlockSize64KB  BlockSizeClass = 4
	BlockSize256KB BlockSizeClass = 5
	BlockSize1MB   BlockSizeClass = 6
	BlockSize4MB   BlockSizeClass = 7
)

func blockSizeBytes(c BlockSizeClass) int {
	switch c {
	case BlockSize64KB:
		return 64 * 1024
	case BlockSize256KB:
		return 256 * 1024
	case BlockSize1MB:
		return 1 * 1024 * 1024
	case BlockSize4MB:
		return 4 * 1024 * 1024
	default:
		return 64 * 1024
	}
}

// Preferences configures one frame compression.
type Preferences struct {
	BlockSize        BlockSizeClass
	BlockMode        BlockMode
	BlockChecksum    bool
	ContentChecksum  bool
	ContentSize      uint64 // 0 = unknown/unset
	DictID           uint32 // 0 = none
	Level            int    // 0 = fast encoder; else HC level [2..12]
	Acceleration     int    // fast-encoder knob, ignored when Level > 0
	AutoFlush        bool
	FavorDecSpeed    bool   // HC-only: bias toward faster-to-decode blocks
}

func (p Preferences) blockSizeClass() BlockSizeClass {
	if p.BlockSize == 0 {
		return BlockSize64KB
	}
	return p.BlockSize
}

// FrameInfo is the parsed form of a frame's descriptor, produced by the
// decoder and consumed internally to drive block-level decode decisions.
type FrameInfo struct {
	BlockSize       BlockSizeClass
	BlockMode       BlockMode
	BlockChecksum   bool
	ContentChecksum bool
	ContentSize     uint64
	HasContentSize  bool
	DictID          uint32
	HasDictID       bool
}

// encodeHeader writes magic + FLG + BD + optional contentSize/dictID +
// header checksum to dst, returning the number of bytes written.
func encodeHeader(dst []byte, p Preferences) int {
	pos := 0
	binary.LittleEndian.PutUint32(dst[pos:], Magic)
	pos += 4

	descStart := pos

	var flg byte
	flg |= 1 << 6 // version = 01
	if p.BlockMode == BlockIndependent {
		flg |= 1 << 5
	}
	if p.BlockChecksum {
		flg |= 1 << 4
	}
	if p.ContentSize != 0 {
		flg |= 1 << 3
	}
	if p.ContentChecksum {
		flg |= 1 << 2
	}
	if p.DictID != 0 {
		flg |= 1 << 0
	}
	dst[pos] = flg
	pos++

	var bd byte
	bd |= byte(p.blockSizeClass()) << 4
	dst[pos] = bd
	pos++

	if p.ContentSize != 0 {
		binary.LittleEndian.PutUint64(dst[pos:], p.ContentSize)
		pos += 8
	}
	if p.DictID != 0 {
		binary.LittleEndian.PutUint32(dst[pos:], p.DictID)
		pos += 4
	}

	hc := byte((xxhash32.Sum32(dst[descStart:pos], 0) >> 8) & 0xFF)
	dst[pos] = hc
	pos++

	return pos
}

// headerSize returns the number of bytes encodeHeader will write for p,
// so callers can size their output buffer ahead of time.
func headerSize(p Preferences) int {
	n := 4 + 1 + 1 + 1 // magic + FLG + BD + HC
	if p.ContentSize != 0 {
		n += 8
	}
	if p.DictID != 0 {
		n += 4
	}
	return n
}

// decodeHeader parses a frame header from src, returning the parsed
// FrameInfo, the number of bytes consumed, and how many more bytes are
// needed if src was too short to make progress (0 if none).
func decodeHeader(src []byte) (info FrameInfo, consumed int, needMore int, err error) {
	if len(src) < 4 {
		return FrameInfo{}, 0, 4 - len(src), nil
	}
	magic := binary.LittleEndian.Uint32(src)
	if magic != Magic {
		return FrameInfo{}, 0, 0, newErr(ErrFrameTypeUnknown)
	}
	if len(src) < 6 {
		return FrameInfo{}, 0, 6 - len(src), nil
	}

	descStart := 4
	flg := src[4]
	bd := src[5]

	if flg>>6 != 1 {
		return FrameInfo{}, 0, 0, newErr(ErrHeaderVersionWrong)
	}

	pos := 6
	var info2 FrameInfo
	info2.BlockMode = BlockLinked
	if flg&(1<<5) != 0 {
		info2.BlockMode = BlockIndependent
	}
	info2.BlockChecksum = flg&(1<<4) != 0
	hasContentSize := flg&(1<<3) != 0
	info2.ContentChecksum = flg&(1<<2) != 0
	hasDictID := flg&(1<<0) != 0

	info2.BlockSize = BlockSizeClass((bd >> 4) & 0x07)
	if info2.BlockSize < BlockSize64KB || info2.BlockSize > BlockSize4MB {
		return FrameInfo{}, 0, 0, newErr(ErrMaxBlockSizeInvalid)
	}

	need := pos
	if hasContentSize {
		need += 8
	}
	if hasDictID {
		need += 4
	}
	need++ // header checksum byte
	if len(src) < need {
		return FrameInfo{}, 0, need - len(src), nil
	}

	if hasContentSize {
		info2.ContentSize = binary.LittleEndian.Uint64(src[pos:])
		info2.HasContentSize = true
		pos += 8
	}
	if hasDictID {
		info2.DictID = binary.LittleEndian.Uint32(src[pos:])
		info2.HasDictID = true
		pos += 4
	}

	wantHC := byte((xxhash32.Sum32(src[descStart:pos], 0) >> 8) & 0xFF)
	gotHC := src[pos]
	pos++
	if wantHC != gotHC {
		return FrameInfo{}, 0, 0, newErr(ErrHeaderChecksumInvalid)
	}

	return info2, pos, 0, nil
}
