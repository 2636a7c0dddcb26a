package lz4

import (
	"io"

	"github.com/corelz4/lz4/internal/lz4frame"
)

// Reader is an io.Reader that decompresses an LZ4 frame stream from the
// underlying reader. Concatenated frames (including skippable frames)
// are decoded back to back; Read reports io.EOF at the end of the last
// complete frame.
type Reader struct {
	r io.Reader
	d *lz4frame.Decompressor

	src     []byte
	srcPos  int
	srcFill int

	out    []byte
	outPos int
	outLen int

	midFrame bool
	srcEOF   bool
}

// NewReader returns a Reader decompressing from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:   r,
		d:   lz4frame.NewDecompressor(),
		src: make([]byte, 64*1024),
		out: make([]byte, 256*1024),
	}
}

// NewReaderDict returns a Reader for frames compressed against dict.
func NewReaderDict(r io.Reader, dict []byte) *Reader {
	z := NewReader(r)
	// SetDict cannot fail on a fresh decompressor.
	_ = z.d.SetDict(dict)
	return z
}

// Read implements io.Reader.
func (z *Reader) Read(p []byte) (int, error) {
	for {
		if z.outPos < z.outLen {
			n := copy(p, z.out[z.outPos:z.outLen])
			z.outPos += n
			return n, nil
		}

		if z.srcPos == z.srcFill && !z.srcEOF {
			n, err := z.r.Read(z.src)
			z.srcPos, z.srcFill = 0, n
			if err == io.EOF {
				z.srcEOF = true
			} else if err != nil {
				return 0, lz4frame.WrapErr(lz4frame.ErrIORead, err)
			}
		}

		consumed, written, hint, err := z.d.Decompress(z.out, z.src[z.srcPos:z.srcFill], lz4frame.DecompressOptions{})
		z.srcPos += consumed
		z.outPos, z.outLen = 0, written
		if consumed > 0 && hint > 0 {
			z.midFrame = true
		}
		if hint == 0 {
			z.midFrame = false
		}

		if err != nil {
			if lz4frame.CodeOf(err) == lz4frame.ErrFrameHeaderIncomplete && !z.srcEOF {
				// Benign: the next fill supplies the rest of the header.
				continue
			}
			if lz4frame.CodeOf(err) == lz4frame.ErrFrameHeaderIncomplete && z.srcEOF && !z.midFrame && written == 0 {
				return 0, io.EOF
			}
			return 0, err
		}

		if written > 0 {
			continue
		}

		if z.srcEOF && z.srcPos == z.srcFill {
			if z.midFrame || hint > 0 {
				return 0, lz4frame.WrapErr(lz4frame.ErrIORead, io.ErrUnexpectedEOF)
			}
			return 0, io.EOF
		}
	}
}
