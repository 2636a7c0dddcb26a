package lz4hc

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/corelz4/lz4/internal/lz4block"
)

func generateRandomData(size int) []byte {
	data := make([]byte, size)
	rand.Read(data)
	return data
}

func generateCompressibleData(size int) []byte {
	data := make([]byte, size)
	pattern := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	for i := 0; i < size; i += len(pattern) {
		n := copy(data[i:], pattern)
		if n < len(pattern) {
			break
		}
	}
	return data
}

func roundTrip(t *testing.T, input []byte, level int) []byte {
	t.Helper()
	dst := make([]byte, lz4block.CompressBound(len(input)))
	n, err := CompressBlock(input, dst, CompressOptions{Level: level})
	if err != nil {
		t.Fatalf("CompressBlock(level=%d) error = %v", level, err)
	}
	compressed := dst[:n]

	out := make([]byte, len(input))
	m, err := lz4block.Decompress(compressed, out)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if m != len(input) {
		t.Fatalf("Decompress() produced %d bytes, want %d", m, len(input))
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch at level %d for %d-byte input", level, len(input))
	}
	return compressed
}

func TestCompressBlockLevels(t *testing.T) {
	sizes := []int{0, 1, 12, 13, 1024, 64 * 1024}
	levels := []int{MinLevel, 4, DefaultLevel, OptimalMinLevel, MaxLevel}

	for _, level := range levels {
		for _, size := range sizes {
			roundTrip(t, generateRandomData(size), level)
			roundTrip(t, generateCompressibleData(size), level)
		}
	}
}

func TestCompressBlockBeatsFastEncoderRatio(t *testing.T) {
	input := generateCompressibleData(256 * 1024)

	fastDst := make([]byte, lz4block.CompressBound(len(input)))
	fastN, err := lz4block.CompressBlock(input, fastDst, lz4block.CompressOptions{})
	if err != nil {
		t.Fatalf("lz4block.CompressBlock() error = %v", err)
	}

	hcCompressed := roundTrip(t, input, DefaultLevel)

	if len(hcCompressed) > fastN {
		t.Errorf("HC level %d compressed to %d bytes, fast encoder got %d; expected HC to be at least as good on this highly compressible input", DefaultLevel, len(hcCompressed), fastN)
	}
}

func TestCompressBlockLevelClamping(t *testing.T) {
	input := generateCompressibleData(4096)

	low := roundTrip(t, input, -5)
	high := roundTrip(t, input, 999)
	if !bytes.Equal(low, roundTrip(t, input, MinLevel)) {
		t.Errorf("level -5 output differs from level %d output", MinLevel)
	}
	if !bytes.Equal(high, roundTrip(t, input, MaxLevel)) {
		t.Errorf("level 999 output differs from level %d output", MaxLevel)
	}
}

func TestStreamCompressContinueSharesHistory(t *testing.T) {
	s := NewStream()
	chunks := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog. "),
		[]byte("the quick brown fox jumps over the lazy dog again. "),
	}

	var compressed [][]byte
	for _, c := range chunks {
		dst := make([]byte, lz4block.CompressBound(len(c)))
		n, err := s.CompressContinue(c, dst, CompressOptions{Level: DefaultLevel})
		if err != nil {
			t.Fatalf("CompressContinue() error = %v", err)
		}
		compressed = append(compressed, dst[:n])
	}

	if len(compressed[1]) >= len(chunks[1]) {
		t.Errorf("second chunk compressed to %d bytes, want smaller than input %d", len(compressed[1]), len(chunks[1]))
	}

	out := make([]byte, len(chunks[1]))
	if _, err := lz4block.DecompressDict(compressed[1], out, chunks[0]); err != nil {
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
	dst := make([]byte, lz4block.CompressBound(len(input)))
	n, err := s.CompressContinue(input, dst, CompressOptions{Level: DefaultLevel})
	if err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	out := make([]byte, len(input))
	if _, err := lz4block.DecompressDict(dst[:n], out, dict); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch with loaded dict")
	}
}

func TestStreamAttachDictionaryNilClearsAttachment(t *testing.T) {
	base := NewStream()
	attached := NewStream()
	attached.AttachDictionary(base)
	if attached.win.attached == nil {
		t.Fatal("AttachDictionary(base) did not set the attachment")
	}
	attached.AttachDictionary(nil)
	if attached.win.attached != nil {
		t.Error("AttachDictionary(nil) did not clear the attachment")
	}
}

func TestFavorDecSpeedStillRoundTrips(t *testing.T) {
	input := generateCompressibleData(128 * 1024)

	for _, level := range []int{6, OptimalMinLevel, MaxLevel} {
		dst := make([]byte, lz4block.CompressBound(len(input)))
		n, err := CompressBlock(input, dst, CompressOptions{Level: level, FavorDecSpeed: true})
		if err != nil {
			t.Fatalf("CompressBlock(level=%d, favor) error = %v", level, err)
		}
		out := make([]byte, len(input))
		m, err := lz4block.Decompress(dst[:n], out)
		if err != nil {
			t.Fatalf("Decompress() error = %v", err)
		}
		if m != len(input) || !bytes.Equal(out, input) {
			t.Fatalf("favor-dec-speed round trip mismatch at level %d", level)
		}
	}
}

func TestOptimalLevelNotWorseThanChain(t *testing.T) {
	input := generateCompressibleData(64 * 1024)

	chain := roundTrip(t, input, DefaultLevel)
	optimal := roundTrip(t, input, MaxLevel)
	if len(optimal) > len(chain) {
		t.Errorf("optimal parser produced %d bytes, chain parser %d; expected the optimal parse to be at least as small here", len(optimal), len(chain))
	}
}

func TestMidLevelsCompressRepeats(t *testing.T) {
	input := bytes.Repeat([]byte("midparser-vocabulary "), 3000)

	for _, level := range []int{2, 3} {
		compressed := roundTrip(t, input, level)
		if len(compressed) >= len(input)/4 {
			t.Errorf("level %d compressed %d-byte repetitive input to %d bytes; expected a deep reduction", level, len(input), len(compressed))
		}
	}
}
