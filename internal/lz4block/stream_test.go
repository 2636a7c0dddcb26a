package lz4block

import (
	"bytes"
	"testing"
)

// TestStreamCompressContinueAcrossCalls verifies that a Stream finds
// matches into data compressed by earlier CompressContinue calls on the
// same Stream. A chunk compressed this way cannot be decoded without
// its history, so chunk 1 is decoded with chunk 0's plaintext as the
// dictionary.
func TestStreamCompressContinueAcrossCalls(t *testing.T) {
	enc := NewStream()
	chunks := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog. "),
		[]byte("the quick brown fox jumps over the lazy dog again. "),
		[]byte("and once more, the quick brown fox jumps over the lazy dog."),
	}

	var compressed [][]byte
	for _, c := range chunks {
		dst := make([]byte, CompressBound(len(c)))
		n, err := enc.CompressContinue(c, dst, CompressOptions{})
		if err != nil {
			t.Fatalf("CompressContinue() error = %v", err)
		}
		compressed = append(compressed, dst[:n])
	}

	// Each chunk after the first should compress to noticeably fewer
	// bytes than its own length, since it can reference the earlier
	// chunks' shared phrase.
	for i := 1; i < len(compressed); i++ {
		if len(compressed[i]) >= len(chunks[i]) {
			t.Errorf("chunk %d: compressed %d bytes, want smaller than input %d", i, len(compressed[i]), len(chunks[i]))
		}
	}

	// Decode chunk 1 using chunk 0's plaintext as external dictionary.
	out := make([]byte, len(chunks[1]))
	if _, err := DecompressDict(compressed[1], out, chunks[0]); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if !bytes.Equal(out, chunks[1]) {
		t.Fatalf("DecompressDict() = %q, want %q", out, chunks[1])
	}
}

func TestStreamLoadDictThenCompress(t *testing.T) {
	dict := bytes.Repeat([]byte("reference-phrase-"), 100)

	s := NewStream()
	s.LoadDict(dict)

	input := append(append([]byte(nil), dict[len(dict)-64:]...), []byte("-trailer")...)
	dst := make([]byte, CompressBound(len(input)))
	n, err := s.CompressContinue(input, dst, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	out := make([]byte, len(input))
	if _, err := DecompressDict(dst[:n], out, dict); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch with loaded dict")
	}
}

func TestStreamSaveDictRoundTrip(t *testing.T) {
	s := NewStream()
	first := bytes.Repeat([]byte("abcdefgh"), 4096) // 32 KiB
	dst := make([]byte, CompressBound(len(first)))
	if _, err := s.CompressContinue(first, dst, CompressOptions{}); err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	saved := s.SaveDict(make([]byte, 65535))
	if len(saved) == 0 {
		t.Fatal("SaveDict() returned empty slice")
	}

	fresh := NewStream()
	fresh.LoadDict(saved)

	second := []byte("abcdefgh-tail")
	dst2 := make([]byte, CompressBound(len(second)))
	n, err := fresh.CompressContinue(second, dst2, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressContinue() on fresh stream error = %v", err)
	}

	out := make([]byte, len(second))
	if _, err := DecompressDict(dst2[:n], out, saved); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if !bytes.Equal(out, second) {
		t.Fatalf("DecompressDict() = %q, want %q", out, second)
	}
}

func TestStreamAttachDictionaryIsWeak(t *testing.T) {
	base := NewStream()
	baseData := []byte("shared-history-payload")
	dst := make([]byte, CompressBound(len(baseData)))
	if _, err := base.CompressContinue(baseData, dst, CompressOptions{}); err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	attached := NewStream()
	attached.AttachDictionary(base)

	input := []byte("shared-history-payload-tail")
	dst2 := make([]byte, CompressBound(len(input)))
	n, err := attached.CompressContinue(input, dst2, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressContinue() with attached dict error = %v", err)
	}
	if len(dst2[:n]) >= len(input) {
		t.Errorf("expected attached-dictionary match to shrink output, got %d bytes for %d-byte input", n, len(input))
	}

	attached.AttachDictionary(nil)
	if attached.win.attached != nil {
		t.Error("AttachDictionary(nil) did not clear the attachment")
	}
}

func TestStreamResetStartsFreshHistory(t *testing.T) {
	s := NewStream()
	first := bytes.Repeat([]byte("xyz123"), 1000)
	dst := make([]byte, CompressBound(len(first)))
	if _, err := s.CompressContinue(first, dst, CompressOptions{}); err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	s.Reset()
	if s.globalPos != 0 {
		t.Errorf("globalPos after Reset() = %d, want 0", s.globalPos)
	}

	second := []byte("a fresh unrelated payload")
	dst2 := make([]byte, CompressBound(len(second)))
	n, err := s.CompressContinue(second, dst2, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressContinue() after Reset() error = %v", err)
	}
	out := make([]byte, len(second))
	if _, err := Decompress(dst2[:n], out); err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(out, second) {
		t.Fatalf("round trip mismatch after Reset()")
	}
}
