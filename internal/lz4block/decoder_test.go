package lz4block

import (
	"bytes"
	"testing"
)

// TestDecoderLinkedBlocks mirrors what the frame codec does in linked
// mode: each block is compressed with the previous blocks as history,
// and the streaming Decoder must resolve the cross-block references.
func TestDecoderLinkedBlocks(t *testing.T) {
	enc := NewStream()
	dec := NewDecoder()

	chunks := [][]byte{
		[]byte("linked block one carries the shared phrase. "),
		[]byte("block two repeats the shared phrase. "),
		[]byte("and block three still sees the shared phrase."),
	}

	for i, c := range chunks {
		dst := make([]byte, CompressBound(len(c)))
		n, err := enc.CompressContinue(c, dst, CompressOptions{})
		if err != nil {
			t.Fatalf("chunk %d: CompressContinue() error = %v", i, err)
		}

		out := make([]byte, len(c))
		m, err := dec.DecompressContinue(dst[:n], out)
		if err != nil {
			t.Fatalf("chunk %d: DecompressContinue() error = %v", i, err)
		}
		if !bytes.Equal(out[:m], c) {
			t.Fatalf("chunk %d: decoded %q, want %q", i, out[:m], c)
		}
	}
}

// TestDecoderAdvanceRaw interleaves a stored (never compressed) chunk
// into the stream; later compressed chunks may still reference it.
func TestDecoderAdvanceRaw(t *testing.T) {
	enc := NewStream()
	dec := NewDecoder()

	stored := []byte("stored-verbatim-section with reusable words ")
	enc.CompressContinue(stored, make([]byte, CompressBound(len(stored))), CompressOptions{})
	dec.AdvanceRaw(stored)

	next := []byte("reusable words again")
	dst := make([]byte, CompressBound(len(next)))
	n, err := enc.CompressContinue(next, dst, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	out := make([]byte, len(next))
	m, err := dec.DecompressContinue(dst[:n], out)
	if err != nil {
		t.Fatalf("DecompressContinue() error = %v", err)
	}
	if !bytes.Equal(out[:m], next) {
		t.Fatalf("decoded %q, want %q", out[:m], next)
	}
}

func TestDecoderHistoryCappedAt64KiB(t *testing.T) {
	d := NewDecoder()
	d.AdvanceRaw(make([]byte, 200*1024))
	if len(d.hist) > dictWindowLimit {
		t.Errorf("history length = %d, want <= %d", len(d.hist), dictWindowLimit)
	}

	d.Reset()
	if len(d.hist) != 0 {
		t.Errorf("history after Reset() = %d bytes, want 0", len(d.hist))
	}

	d.SetDict(make([]byte, 100*1024))
	if len(d.hist) != dictWindowLimit {
		t.Errorf("history after oversized SetDict() = %d, want %d", len(d.hist), dictWindowLimit)
	}
}
