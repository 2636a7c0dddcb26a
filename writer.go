package lz4

import (
	"io"

	"github.com/corelz4/lz4/internal/lz4frame"
)

// Writer is an io.WriteCloser that compresses data into an LZ4 frame on
// the underlying writer. Close must be called to write the frame's
// EndMark (and content checksum, if enabled).
//
// A Writer must not be used from multiple goroutines concurrently; it
// holds no internal lock.
type Writer struct {
	w           io.Writer
	c           *lz4frame.Compressor
	scratch     []byte
	wroteHeader bool
	closed      bool
}

// NewWriter returns a Writer compressing to w with default preferences:
// fast encoder, 64 KiB linked blocks, content checksum on.
func NewWriter(w io.Writer) *Writer {
	return NewWriterPreferences(w, Preferences{ContentChecksum: true})
}

// NewWriterLevel returns a Writer compressing to w with the
// high-compression encoder at the given level (MinHCLevel..MaxHCLevel).
func NewWriterLevel(w io.Writer, level int) *Writer {
	return NewWriterPreferences(w, Preferences{Level: level, ContentChecksum: true})
}

// NewWriterPreferences returns a Writer compressing to w with full
// control over the frame preferences.
func NewWriterPreferences(w io.Writer, prefs Preferences) *Writer {
	return &Writer{w: w, c: lz4frame.NewCompressor(prefs)}
}

// Write implements io.Writer. Input is buffered into frame blocks;
// compressed bytes reach the underlying writer as blocks fill.
func (z *Writer) Write(p []byte) (int, error) {
	if z.closed {
		return 0, lz4frame.WrapErr(lz4frame.ErrIOWrite, io.ErrClosedPipe)
	}
	if err := z.ensureHeader(); err != nil {
		return 0, err
	}

	z.grow(z.c.CompressBound(len(p) + z.c.BlockMaxSize()))
	n, err := z.c.Update(z.scratch, p)
	if err != nil {
		return 0, err
	}
	if err := z.emit(z.scratch[:n]); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush force-emits any buffered partial block so all data written so
// far is decodable by the receiver.
func (z *Writer) Flush() error {
	if z.closed {
		return lz4frame.WrapErr(lz4frame.ErrIOWrite, io.ErrClosedPipe)
	}
	if err := z.ensureHeader(); err != nil {
		return err
	}
	z.grow(z.c.CompressBound(z.c.BlockMaxSize()))
	n, err := z.c.Flush(z.scratch)
	if err != nil {
		return err
	}
	return z.emit(z.scratch[:n])
}

// Close finishes the frame. It does not close the underlying writer.
func (z *Writer) Close() error {
	if z.closed {
		return nil
	}
	if err := z.ensureHeader(); err != nil {
		return err
	}
	z.grow(z.c.CompressBound(z.c.BlockMaxSize()))
	n, err := z.c.End(z.scratch)
	if err != nil {
		return err
	}
	z.closed = true
	return z.emit(z.scratch[:n])
}

func (z *Writer) ensureHeader() error {
	if z.wroteHeader {
		return nil
	}
	z.grow(64) // comfortably above the largest possible frame header
	n, err := z.c.Begin(z.scratch)
	if err != nil {
		return err
	}
	z.wroteHeader = true
	return z.emit(z.scratch[:n])
}

func (z *Writer) emit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := z.w.Write(b); err != nil {
		return lz4frame.WrapErr(lz4frame.ErrIOWrite, err)
	}
	return nil
}

func (z *Writer) grow(n int) {
	if cap(z.scratch) < n {
		z.scratch = make([]byte, n)
	}
	z.scratch = z.scratch[:cap(z.scratch)]
}
