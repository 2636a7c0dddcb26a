// Package lz4 is a pure-Go implementation of the LZ4 compression
// format: the raw block codec (fast and high-compression encoders plus
// a bounds-checked decoder) and the standard streaming frame format,
// wire-compatible with LZ4 v1.10.0.
package lz4

import (
	"github.com/corelz4/lz4/internal/lz4block"
	"github.com/corelz4/lz4/internal/lz4dict"
	"github.com/corelz4/lz4/internal/lz4frame"
	"github.com/corelz4/lz4/internal/lz4hc"
)

// Version constants
const (
	// Version of the library
	Version = "1.0.0"
	// VersionMajor is the major version number
	VersionMajor = 1
	// VersionMinor is the minor version number
	VersionMinor = 0
	// VersionPatch is the patch version number
	VersionPatch = 0
)

// Limits and defaults exposed at the API boundary.
const (
	// MaxInputSize is the largest input the block encoders accept.
	MaxInputSize = lz4block.MaxInputSize
	// MaxDistance is the largest back-reference offset the block format
	// can express.
	MaxDistance = lz4block.MaxDistance
	// DefaultAcceleration is the fast encoder's default speed/ratio
	// setting; higher values trade ratio for speed.
	DefaultAcceleration = lz4block.MinAcceleration
	// MaxAcceleration caps the acceleration knob.
	MaxAcceleration = lz4block.MaxAcceleration
	// MinHCLevel and MaxHCLevel bound the high-compression levels;
	// DefaultHCLevel is used when 0 is passed, and OptimalHCLevel is
	// the first level that runs the optimal parser.
	MinHCLevel     = lz4hc.MinLevel
	DefaultHCLevel = lz4hc.DefaultLevel
	OptimalHCLevel = lz4hc.OptimalMinLevel
	MaxHCLevel     = lz4hc.MaxLevel
)

// Block-codec error kinds.
var (
	ErrOutputTooSmall  = lz4block.ErrOutputTooSmall
	ErrInputTooLarge   = lz4block.ErrInputTooLarge
	ErrInvalidArgument = lz4block.ErrInvalidArgument
	ErrMalformedInput  = lz4block.ErrMalformedInput
)

// Frame types re-exported from the internal frame codec.
type (
	// Preferences configures frame compression.
	Preferences = lz4frame.Preferences
	// FrameInfo is a parsed frame descriptor.
	FrameInfo = lz4frame.FrameInfo
	// FrameError carries the frame error taxonomy code.
	FrameError = lz4frame.FrameError
	// BlockMode selects linked or independent blocks.
	BlockMode = lz4frame.BlockMode
	// BlockSizeClass selects the frame's maximum block size.
	BlockSizeClass = lz4frame.BlockSizeClass
	// CDict is a precomputed compression dictionary usable by both the
	// fast and HC encoders.
	CDict = lz4dict.CDict
)

// Frame preference values.
const (
	BlockLinked      = lz4frame.BlockLinked
	BlockIndependent = lz4frame.BlockIndependent
	BlockSize64KB    = lz4frame.BlockSize64KB
	BlockSize256KB   = lz4frame.BlockSize256KB
	BlockSize1MB     = lz4frame.BlockSize1MB
	BlockSize4MB     = lz4frame.BlockSize4MB
)

// CompressBound returns the worst-case compressed size of an n-byte
// input through the block encoders.
func CompressBound(n int) int { return lz4block.CompressBound(n) }

// sizedDst returns dst if it can hold need bytes, else a fresh buffer.
func sizedDst(dst []byte, need int) []byte {
	if cap(dst) >= need {
		return dst[:need]
	}
	return make([]byte, need)
}

// CompressBlock compresses src as a single raw LZ4 block using the fast
// encoder with default acceleration. It allocates a new destination
// slice if dst is nil or too small, and returns the compressed data.
func CompressBlock(src, dst []byte) ([]byte, error) {
	return CompressBlockAccel(src, dst, DefaultAcceleration)
}

// CompressBlockAccel compresses src as a single raw LZ4 block with the
// given acceleration (clamped to [1, MaxAcceleration]).
func CompressBlockAccel(src, dst []byte, acceleration int) ([]byte, error) {
	dst = sizedDst(dst, CompressBound(len(src)))
	n, err := lz4block.CompressBlock(src, dst, lz4block.CompressOptions{Acceleration: acceleration})
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// CompressBlockLevel compresses src as a single raw LZ4 block with the
// high-compression encoder at the given level. Levels range from
// MinHCLevel to MaxHCLevel; 0 means DefaultHCLevel.
func CompressBlockLevel(src, dst []byte, level int) ([]byte, error) {
	dst = sizedDst(dst, CompressBound(len(src)))
	n, err := lz4hc.CompressBlock(src, dst, lz4hc.CompressOptions{Level: level})
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// DecompressBlock decompresses a single raw LZ4 block. maxSize limits
// how much decompressed data will be produced; dst is reused when large
// enough.
func DecompressBlock(src, dst []byte, maxSize int) ([]byte, error) {
	if maxSize < 0 {
		return nil, ErrInvalidArgument
	}
	dst = sizedDst(dst, maxSize)
	n, err := lz4block.Decompress(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// DecompressBlockDict is DecompressBlock with up to 64 KiB of dict
// available as history for back-references that reach before the start
// of the block's own output.
func DecompressBlockDict(src, dst []byte, maxSize int, dict []byte) ([]byte, error) {
	if maxSize < 0 {
		return nil, ErrInvalidArgument
	}
	dst = sizedDst(dst, maxSize)
	n, err := lz4block.DecompressDict(src, dst, dict)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// NewCDict precomputes a compression dictionary from dictBytes. Only
// the trailing 64 KiB is used as match history.
func NewCDict(dictBytes []byte) *CDict { return lz4dict.New(dictBytes) }

// CompressFrame compresses src into a complete LZ4 frame with the given
// preferences.
func CompressFrame(src []byte, prefs Preferences) ([]byte, error) {
	return lz4frame.CompressFrame(src, prefs)
}

// DecompressFrame decompresses one complete LZ4 frame held in src.
func DecompressFrame(src []byte) ([]byte, error) {
	return lz4frame.DecompressFrame(src, nil)
}

// DecompressFrameDict decompresses one complete LZ4 frame that was
// compressed against the given dictionary.
func DecompressFrameDict(src, dict []byte) ([]byte, error) {
	return lz4frame.DecompressFrame(src, dict)
}
