package lz4frame

import (
	"encoding/binary"

	"github.com/corelz4/lz4/internal/lz4block"
	"github.com/corelz4/lz4/internal/lz4dict"
	"github.com/corelz4/lz4/internal/lz4hc"
	"github.com/corelz4/lz4/internal/xxhash32"
)

// maxBlockHeaderOverhead bounds the per-block framing cost: a 4-byte
// size field plus an optional 4-byte checksum.
const maxBlockHeaderOverhead = 8

type compressorState int

const (
	stateCreated compressorState = iota
	stateHeaderWritten
	stateEnded
)

// Compressor drives one frame's compression state machine: {created} ->
// begin -> {header_written} -> update* -> flush -> end -> {ended}.
type Compressor struct {
	prefs Preferences
	state compressorState

	fastStream *lz4block.Stream
	hcStream   *lz4hc.Stream
	dict       *lz4dict.CDict

	buf []byte // bytes buffered since the last emitted block

	contentHash *xxhash32.Digest
}

// NewCompressor creates a frame compressor for the given preferences.
func NewCompressor(prefs Preferences) *Compressor {
	return NewCompressorWithDict(prefs, nil)
}

// NewCompressorWithDict creates a frame compressor whose first block (in
// linked mode) or every block (in independent mode) may back-reference
// the given precomputed dictionary. dict may be nil. The CDict must
// outlive the compressor.
func NewCompressorWithDict(prefs Preferences, dict *lz4dict.CDict) *Compressor {
	c := &Compressor{prefs: prefs, dict: dict}
	if prefs.BlockMode != BlockIndependent {
		if prefs.Level > 0 {
			c.hcStream = lz4hc.NewStream()
			if dict != nil {
				c.hcStream.AttachDictionary(dict.HCStream())
			}
		} else {
			c.fastStream = lz4block.NewStream()
			if dict != nil {
				c.fastStream.AttachDictionary(dict.FastStream())
			}
		}
	}
	if prefs.ContentChecksum {
		c.contentHash = xxhash32.New(0)
	}
	return c
}

// Begin writes the frame header to dst, returning the number of bytes
// written.
func (c *Compressor) Begin(dst []byte) (int, error) {
	if c.state != stateCreated {
		return 0, newErr(ErrFrameDecodingAlreadyStarted)
	}
	need := headerSize(c.prefs)
	if len(dst) < need {
		return 0, newErr(ErrDstMaxSizeTooSmall)
	}
	n := encodeHeader(dst, c.prefs)
	c.state = stateHeaderWritten
	return n, nil
}

func (c *Compressor) blockBudget() int {
	return blockSizeBytes(c.prefs.blockSizeClass())
}

// BlockMaxSize is the configured maximum uncompressed size of one
// block, so byte-stream wrappers can size their scratch buffers.
func (c *Compressor) BlockMaxSize() int {
	return c.blockBudget()
}

// CompressBound is the worst-case size of compressing n bytes through
// this frame's configured block size, including per-block framing.
func (c *Compressor) CompressBound(n int) int {
	blockBudget := c.blockBudget()
	blocks := (n + blockBudget - 1) / blockBudget
	if blocks == 0 {
		blocks = 1
	}
	return headerSize(c.prefs) + blocks*(maxBlockHeaderOverhead+lz4block.CompressBound(blockBudget)) + 4
}

// Update buffers src and emits as many complete blocks as it can,
// writing compressed framing to dst. It returns the number of dst bytes
// written; 0 is valid when src was only buffered.
func (c *Compressor) Update(dst, src []byte) (int, error) {
	if c.state != stateHeaderWritten {
		return 0, newErr(ErrCompressionStateUninitialized)
	}
	if c.contentHash != nil {
		c.contentHash.Write(src)
	}

	c.buf = append(c.buf, src...)
	dstPos := 0
	budget := c.blockBudget()

	for len(c.buf) >= budget {
		n, err := c.emitBlock(dst[dstPos:], c.buf[:budget])
		if err != nil {
			return dstPos, err
		}
		dstPos += n
		c.buf = append([]byte(nil), c.buf[budget:]...)
	}

	if c.prefs.AutoFlush && len(c.buf) > 0 {
		n, err := c.emitBlock(dst[dstPos:], c.buf)
		if err != nil {
			return dstPos, err
		}
		dstPos += n
		c.buf = nil
	}
	return dstPos, nil
}

// Flush force-emits any buffered partial block. With nothing buffered it
// writes nothing and returns 0.
func (c *Compressor) Flush(dst []byte) (int, error) {
	if c.state != stateHeaderWritten {
		return 0, newErr(ErrCompressionStateUninitialized)
	}
	if len(c.buf) == 0 {
		return 0, nil
	}
	n, err := c.emitBlock(dst, c.buf)
	if err != nil {
		return 0, err
	}
	c.buf = nil
	return n, nil
}

// End flushes any remaining buffered data, writes the EndMark, and the
// content checksum if configured.
func (c *Compressor) End(dst []byte) (int, error) {
	if c.state != stateHeaderWritten {
		return 0, newErr(ErrCompressionStateUninitialized)
	}
	pos := 0
	if len(c.buf) > 0 {
		n, err := c.emitBlock(dst[pos:], c.buf)
		if err != nil {
			return pos, err
		}
		pos += n
		c.buf = nil
	}

	need := 4
	if c.prefs.ContentChecksum {
		need += 4
	}
	if len(dst)-pos < need {
		return pos, newErr(ErrDstMaxSizeTooSmall)
	}
	binary.LittleEndian.PutUint32(dst[pos:], 0) // EndMark
	pos += 4

	if c.prefs.ContentChecksum {
		binary.LittleEndian.PutUint32(dst[pos:], c.contentHash.Sum32())
		pos += 4
	}

	c.state = stateEnded
	return pos, nil
}

func (c *Compressor) emitBlock(dst, payload []byte) (int, error) {
	need := maxBlockHeaderOverhead + lz4block.CompressBound(len(payload))
	if len(dst) < need {
		return 0, newErr(ErrDstMaxSizeTooSmall)
	}

	compressed := dst[4 : 4+lz4block.CompressBound(len(payload))]
	n, err := c.compressPayload(payload, compressed)
	if err != nil {
		return 0, err
	}

	pos := 0
	uncompressed := n == 0 || n >= len(payload)
	if uncompressed {
		binary.LittleEndian.PutUint32(dst[pos:], uint32(len(payload))|0x80000000)
		pos += 4
		copy(dst[pos:], payload)
		pos += len(payload)
	} else {
		// compressPayload already wrote the compressed bytes directly
		// into dst[4:4+n] (compressed aliases that range); only the
		// size prefix is left to write.
		binary.LittleEndian.PutUint32(dst[pos:], uint32(n))
		pos += 4 + n
	}

	if c.prefs.BlockChecksum {
		var sum uint32
		if uncompressed {
			sum = xxhash32.Sum32(payload, 0)
		} else {
			sum = xxhash32.Sum32(dst[4:pos], 0)
		}
		binary.LittleEndian.PutUint32(dst[pos:], sum)
		pos += 4
	}
	return pos, nil
}

func (c *Compressor) compressPayload(payload, scratch []byte) (int, error) {
	hcOpts := lz4hc.CompressOptions{Level: c.prefs.Level, FavorDecSpeed: c.prefs.FavorDecSpeed}
	fastOpts := lz4block.CompressOptions{Acceleration: c.prefs.Acceleration}

	// Independent blocks carry no history from earlier blocks, so each
	// one is compressed from a clean state (against the dictionary only,
	// when one is set).
	if c.prefs.BlockMode == BlockIndependent {
		if c.dict != nil {
			if c.prefs.Level > 0 {
				return c.dict.CompressHC(payload, scratch, hcOpts)
			}
			return c.dict.CompressFast(payload, scratch, fastOpts)
		}
		if c.prefs.Level > 0 {
			return lz4hc.CompressBlock(payload, scratch, hcOpts)
		}
		return lz4block.CompressBlock(payload, scratch, fastOpts)
	}

	// Linked mode: the streams retain their own rolling 64 KiB history,
	// so continuing on the same stream is what links the blocks.
	if c.hcStream != nil {
		return c.hcStream.CompressContinue(payload, scratch, hcOpts)
	}
	return c.fastStream.CompressContinue(payload, scratch, fastOpts)
}

// CompressFrame is a one-shot convenience wrapper around the full
// begin/update/flush/end sequence for callers that have the whole input
// in memory (the common case the top-level package exposes).
func CompressFrame(src []byte, prefs Preferences) ([]byte, error) {
	c := NewCompressor(prefs)
	dst := make([]byte, c.CompressBound(len(src))+64)

	pos := 0
	n, err := c.Begin(dst[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	n, err = c.Update(dst[pos:], src)
	if err != nil {
		return nil, err
	}
	pos += n

	n, err = c.Flush(dst[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	n, err = c.End(dst[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	return dst[:pos], nil
}
