package lz4frame

import (
	"encoding/binary"

	"github.com/corelz4/lz4/internal/lz4block"
	"github.com/corelz4/lz4/internal/xxhash32"
)

// decodeStage is the decompression state-machine tag. The
// store* tags of the reference collapse into their get* counterparts
// here because every stage accumulates into a scratch buffer anyway;
// "getX with a partially filled buffer" is the store state.
type decodeStage int

const (
	stageGetFrameHeader decodeStage = iota
	stageSkipFrame
	stageGetBlockHeader
	stageGetBlockBody
	stageGetSuffix
)

// DecompressOptions tunes one Decompress call.
type DecompressOptions struct {
	// SkipChecksums disables header, block, and content xxHash32
	// verification.
	SkipChecksums bool

	// StableDst promises dst stays valid and unmodified between calls.
	// This implementation copies its history internally and never
	// retains dst, so the flag is accepted for API compatibility and
	// changes nothing.
	StableDst bool
}

// Decompressor drives one frame's decompression state machine across
// arbitrarily chunked input. Feed it compressed bytes with Decompress
// until the returned hint is 0; it buffers partial headers, partial
// blocks, and undrained output internally so any split of the input
// yields the same output.
type Decompressor struct {
	stage decodeStage

	info      FrameInfo
	infoValid bool

	scratch       []byte // header / block-header / suffix accumulation
	skipRemaining int    // payload bytes left to discard (skippable frame)

	blockSize         int
	blockUncompressed bool
	blockBuf          []byte // block payload (+ optional checksum) accumulation
	blockNeed         int

	dec         *lz4block.Decoder
	dict        []byte
	contentHash *xxhash32.Digest

	pending    []byte // decoded bytes not yet drained into a caller's dst
	pendingPos int
}

// NewDecompressor allocates a frame decompressor ready to read a frame
// header.
func NewDecompressor() *Decompressor {
	d := &Decompressor{dec: lz4block.NewDecoder()}
	d.Reset()
	return d
}

// Reset rearms the decompressor for a new frame, keeping any dictionary
// set with SetDict.
func (d *Decompressor) Reset() {
	d.stage = stageGetFrameHeader
	d.info = FrameInfo{}
	d.infoValid = false
	d.scratch = d.scratch[:0]
	d.skipRemaining = 0
	d.blockBuf = d.blockBuf[:0]
	d.blockNeed = 0
	d.dec.Reset()
	d.contentHash = nil
	d.pending = nil
	d.pendingPos = 0
}

// SetDict supplies the dictionary a dict-id-bearing frame was compressed
// against. Only its trailing 64 KiB can ever be referenced. Must be
// called before the first block is decoded.
func (d *Decompressor) SetDict(dict []byte) error {
	if d.infoValid {
		return newErr(ErrFrameDecodingAlreadyStarted)
	}
	d.dict = dict
	return nil
}

// FrameInfo returns the parsed frame descriptor once the header has
// been consumed; before that it reports frame-header-incomplete.
func (d *Decompressor) FrameInfo() (FrameInfo, error) {
	if !d.infoValid {
		return FrameInfo{}, newErr(ErrFrameHeaderIncomplete)
	}
	return d.info, nil
}

// Decompress consumes bytes from src and writes decoded bytes to dst,
// returning how much of each it used plus a hint of how many more src
// bytes are needed to make progress (0 when the frame is complete and
// all output has been drained). A short dst is never an error: the
// surplus is buffered and drained on the next call.
func (d *Decompressor) Decompress(dst, src []byte, opts DecompressOptions) (srcConsumed, dstWritten int, hint int, err error) {
	srcPos := 0
	dstPos := d.drain(dst, 0)
	if d.pending != nil {
		// dst filled up before the buffered output ran out; decoding
		// another block would overwrite it.
		return 0, dstPos, 1, nil
	}

	for {
		switch d.stage {
		case stageGetFrameHeader:
			consumed, hint, err := d.readHeader(src[srcPos:], opts)
			srcPos += consumed
			if err != nil || hint > 0 {
				return srcPos, dstPos, hint, err
			}

		case stageSkipFrame:
			n := len(src) - srcPos
			if n > d.skipRemaining {
				n = d.skipRemaining
			}
			srcPos += n
			d.skipRemaining -= n
			if d.skipRemaining > 0 {
				return srcPos, dstPos, d.skipRemaining, nil
			}
			d.stage = stageGetFrameHeader

		case stageGetBlockHeader:
			srcPos = d.fill(src, srcPos, 4)
			if len(d.scratch) < 4 {
				return srcPos, dstPos, 4 - len(d.scratch), nil
			}
			word := binary.LittleEndian.Uint32(d.scratch)
			d.scratch = d.scratch[:0]
			if word == 0 { // EndMark
				if d.info.ContentChecksum {
					d.stage = stageGetSuffix
					continue
				}
				d.finishFrame()
				return srcPos, dstPos, 0, nil
			}
			d.blockUncompressed = word&0x80000000 != 0
			d.blockSize = int(word & 0x7FFFFFFF)
			if d.blockSize > blockSizeBytes(d.info.BlockSize) {
				return srcPos, dstPos, 0, newErr(ErrMaxBlockSizeInvalid)
			}
			d.blockNeed = d.blockSize
			if d.info.BlockChecksum {
				d.blockNeed += 4
			}
			d.blockBuf = d.blockBuf[:0]
			d.stage = stageGetBlockBody

		case stageGetBlockBody:
			take := d.blockNeed - len(d.blockBuf)
			if avail := len(src) - srcPos; avail < take {
				take = avail
			}
			d.blockBuf = append(d.blockBuf, src[srcPos:srcPos+take]...)
			srcPos += take
			if len(d.blockBuf) < d.blockNeed {
				return srcPos, dstPos, d.blockNeed - len(d.blockBuf), nil
			}
			if err := d.processBlock(opts); err != nil {
				return srcPos, dstPos, 0, err
			}
			d.stage = stageGetBlockHeader
			dstPos = d.drain(dst, dstPos)
			if d.pending != nil {
				return srcPos, dstPos, 1, nil
			}

		case stageGetSuffix:
			srcPos = d.fill(src, srcPos, 4)
			if len(d.scratch) < 4 {
				return srcPos, dstPos, 4 - len(d.scratch), nil
			}
			want := binary.LittleEndian.Uint32(d.scratch)
			d.scratch = d.scratch[:0]
			if !opts.SkipChecksums && d.contentHash != nil && want != d.contentHash.Sum32() {
				return srcPos, dstPos, 0, newErr(ErrContentChecksumInvalid)
			}
			d.finishFrame()
			return srcPos, dstPos, 0, nil
		}
	}
}

// fill copies bytes from src[srcPos:] into d.scratch until it holds want
// bytes or src runs dry, returning the advanced srcPos.
func (d *Decompressor) fill(src []byte, srcPos, want int) int {
	take := want - len(d.scratch)
	if take <= 0 {
		return srcPos
	}
	if avail := len(src) - srcPos; avail < take {
		take = avail
	}
	d.scratch = append(d.scratch, src[srcPos:srcPos+take]...)
	return srcPos + take
}

// drain moves buffered decoded output into dst[dstPos:], returning the
// advanced dstPos.
func (d *Decompressor) drain(dst []byte, dstPos int) int {
	if d.pending == nil {
		return dstPos
	}
	n := copy(dst[dstPos:], d.pending[d.pendingPos:])
	d.pendingPos += n
	if d.pendingPos >= len(d.pending) {
		d.pending = nil
		d.pendingPos = 0
	}
	return dstPos + n
}

// finishFrame resets the machine so a following frame (or a retry after
// Reset) starts clean, keeping the caller-supplied dictionary.
func (d *Decompressor) finishFrame() {
	d.stage = stageGetFrameHeader
	d.infoValid = false
	d.contentHash = nil
	d.dec.Reset()
}

// readHeader accumulates and parses a frame header, including routing
// skippable frames into the skip stage. A truncated header returns the
// benign frame-header-incomplete error together with the positive
// bytes-needed hint; state is retained so the next
// call resumes where this one stopped.
func (d *Decompressor) readHeader(src []byte, opts DecompressOptions) (consumed, hint int, err error) {
	srcPos := d.fill(src, 0, 4)
	if len(d.scratch) < 4 {
		return srcPos, 4 - len(d.scratch), newErr(ErrFrameHeaderIncomplete)
	}

	magic := binary.LittleEndian.Uint32(d.scratch)
	if isSkippableMagic(magic) {
		srcPos = d.fill(src, srcPos, 8)
		if len(d.scratch) < 8 {
			return srcPos, 8 - len(d.scratch), newErr(ErrFrameHeaderIncomplete)
		}
		d.skipRemaining = int(binary.LittleEndian.Uint32(d.scratch[4:]))
		d.scratch = d.scratch[:0]
		d.stage = stageSkipFrame
		return srcPos, 0, nil
	}
	if magic != Magic {
		return srcPos, 0, newErr(ErrFrameTypeUnknown)
	}

	// Grow the scratch buffer until decodeHeader stops asking for more.
	for {
		info, _, needMore, err := decodeHeader(d.scratch)
		if err != nil {
			return srcPos, 0, err
		}
		if needMore == 0 {
			d.scratch = d.scratch[:0]
			d.startFrame(info, opts)
			return srcPos, 0, nil
		}
		if srcPos >= len(src) {
			return srcPos, needMore, newErr(ErrFrameHeaderIncomplete)
		}
		srcPos = d.fill(src, srcPos, len(d.scratch)+needMore)
	}
}

// startFrame latches a parsed descriptor and arms the per-frame state.
func (d *Decompressor) startFrame(info FrameInfo, opts DecompressOptions) {
	d.info = info
	d.infoValid = true
	if info.ContentChecksum && !opts.SkipChecksums {
		d.contentHash = xxhash32.New(0)
	}
	d.dec.Reset()
	if d.dict != nil && info.BlockMode == BlockLinked {
		d.dec.SetDict(d.dict)
	}
	d.stage = stageGetBlockHeader
}

// processBlock verifies and decodes one complete buffered block, leaving
// its output in d.pending for drain.
func (d *Decompressor) processBlock(opts DecompressOptions) error {
	payload := d.blockBuf[:d.blockSize]

	if d.info.BlockChecksum && !opts.SkipChecksums {
		want := binary.LittleEndian.Uint32(d.blockBuf[d.blockSize:])
		if xxhash32.Sum32(payload, 0) != want {
			return newErr(ErrBlockChecksumInvalid)
		}
	}

	var out []byte
	if d.blockUncompressed {
		out = append([]byte(nil), payload...)
		if d.info.BlockMode == BlockLinked {
			d.dec.AdvanceRaw(out)
		}
	} else {
		buf := make([]byte, blockSizeBytes(d.info.BlockSize))
		var n int
		var err error
		if d.info.BlockMode == BlockLinked {
			n, err = d.dec.DecompressContinue(payload, buf)
		} else {
			n, err = lz4block.DecompressDict(payload, buf, d.dict)
		}
		if err != nil {
			return WrapErr(ErrDecompressionFailed, err)
		}
		out = buf[:n]
	}

	if d.contentHash != nil {
		d.contentHash.Write(out)
	}
	d.pending = out
	d.pendingPos = 0
	return nil
}

// DecompressFrame is the one-shot convenience wrapper: it decodes one
// complete frame held fully in src, returning the decompressed content.
// dict may be nil.
func DecompressFrame(src, dict []byte) ([]byte, error) {
	d := NewDecompressor()
	if dict != nil {
		if err := d.SetDict(dict); err != nil {
			return nil, err
		}
	}

	var out []byte
	buf := make([]byte, 256*1024)
	srcPos := 0
	for {
		consumed, written, hint, err := d.Decompress(buf, src[srcPos:], DecompressOptions{})
		srcPos += consumed
		out = append(out, buf[:written]...)
		if err != nil {
			return nil, err
		}
		if hint == 0 {
			return out, nil
		}
		if consumed == 0 && written == 0 {
			// No progress and src exhausted: the frame is truncated.
			return nil, newErr(ErrFrameSizeWrong)
		}
	}
}
