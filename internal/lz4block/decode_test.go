package lz4block

import "testing"

func TestDecompressMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		dst  int
	}{
		{"truncated literal length extension", []byte{0xF0, 0xFF}, 64},
		{"literal run longer than src", []byte{0x50, 'a', 'b'}, 64},
		{"missing offset bytes", []byte{0x10, 'a', 0xFF}, 64},
		{"zero offset", []byte{0x10, 'a', 0x00, 0x00}, 64},
		{"offset beyond output written so far", []byte{0x10, 'a', 0xFF, 0xFF}, 64},
		{"truncated match length extension", []byte{0x1F, 'a', 0x01, 0x00, 0xFF}, 64},
		// 8 literals, a 4-byte match at offset 8 ending 6 bytes before
		// the end of output, then a 6-byte closing literal run. The
		// closing run is long enough on its own, but the final match
		// starts only 10 bytes before end-of-block, inside the margin
		// every encoder must leave.
		{"final match too close to block end", []byte{
			0x80, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 0x08, 0x00,
			0x60, '1', '2', '3', '4', '5', '6',
		}, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.src, make([]byte, tt.dst))
			if err == nil {
				t.Errorf("Decompress(%v) error = nil, want error", tt.src)
			}
		})
	}
}

func TestDecompressOutputTooSmall(t *testing.T) {
	input := generateCompressibleData(4096)
	dst := make([]byte, CompressBound(len(input)))
	n, err := CompressBlock(input, dst, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressBlock() error = %v", err)
	}

	_, err = Decompress(dst[:n], make([]byte, 10))
	if err != ErrOutputTooSmall {
		t.Errorf("Decompress() into undersized dst error = %v, want ErrOutputTooSmall", err)
	}
}

func TestDecompressPartialStopsEarly(t *testing.T) {
	input := generateCompressibleData(64 * 1024)
	dst := make([]byte, CompressBound(len(input)))
	n, err := CompressBlock(input, dst, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressBlock() error = %v", err)
	}

	out := make([]byte, len(input))
	got, err := DecompressPartial(dst[:n], out, 100)
	if err != nil {
		t.Fatalf("DecompressPartial() error = %v", err)
	}
	if got < 100 {
		t.Errorf("DecompressPartial() produced %d bytes, want at least target 100", got)
	}
	for i := 0; i < 100; i++ {
		if out[i] != input[i] {
			t.Fatalf("DecompressPartial() byte %d = %x, want %x", i, out[i], input[i])
		}
	}
}

func TestDecompressDictResolvesBackReferenceBeforeStart(t *testing.T) {
	dict := []byte("the quick brown fox jumps over the lazy dog")

	src := append([]byte(nil), dict...)
	src = append(src, []byte("the quick brown fox")...)

	dst := make([]byte, CompressBound(len(src)))
	n, err := CompressBlock(src, dst, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressBlock() error = %v", err)
	}

	out := make([]byte, len(src))
	if _, err := Decompress(dst[:n], out); err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}

	stream := NewStream()
	stream.LoadDict(dict)
	dst2 := make([]byte, CompressBound(len(dict)))
	m, err := stream.CompressContinue([]byte("the quick brown fox"), dst2, CompressOptions{})
	if err != nil {
		t.Fatalf("CompressContinue() error = %v", err)
	}

	out2 := make([]byte, len("the quick brown fox"))
	if _, err := DecompressDict(dst2[:m], out2, dict); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if string(out2) != "the quick brown fox" {
		t.Errorf("DecompressDict() = %q, want %q", out2, "the quick brown fox")
	}
}
