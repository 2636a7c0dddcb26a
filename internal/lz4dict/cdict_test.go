package lz4dict

import (
	"bytes"
	"testing"

	"github.com/corelz4/lz4/internal/lz4block"
	"github.com/corelz4/lz4/internal/lz4hc"
)

func TestCDictCompressFastRoundTrip(t *testing.T) {
	dict := bytes.Repeat([]byte("shared-vocabulary-"), 200)
	cd := New(dict)

	input := append(append([]byte(nil), dict[len(dict)-128:]...), []byte("-payload-tail")...)
	dst := make([]byte, lz4block.CompressBound(len(input)))
	n, err := cd.CompressFast(input, dst, lz4block.CompressOptions{})
	if err != nil {
		t.Fatalf("CompressFast() error = %v", err)
	}

	out := make([]byte, len(input))
	if _, err := lz4block.DecompressDict(dst[:n], out, cd.RawDict()); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch via CompressFast")
	}
}

func TestCDictCompressHCRoundTrip(t *testing.T) {
	dict := bytes.Repeat([]byte("shared-vocabulary-"), 200)
	cd := New(dict)

	input := append(append([]byte(nil), dict[len(dict)-128:]...), []byte("-payload-tail")...)
	dst := make([]byte, lz4block.CompressBound(len(input)))
	n, err := cd.CompressHC(input, dst, lz4hc.CompressOptions{Level: lz4hc.DefaultLevel})
	if err != nil {
		t.Fatalf("CompressHC() error = %v", err)
	}

	out := make([]byte, len(input))
	if _, err := lz4block.DecompressDict(dst[:n], out, cd.RawDict()); err != nil {
		t.Fatalf("DecompressDict() error = %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch via CompressHC")
	}
}

func TestCDictReusableAcrossCalls(t *testing.T) {
	dict := bytes.Repeat([]byte("common-prefix-"), 50)
	cd := New(dict)

	for i := 0; i < 3; i++ {
		input := []byte("common-prefix-payload")
		dst := make([]byte, lz4block.CompressBound(len(input)))
		n, err := cd.CompressFast(input, dst, lz4block.CompressOptions{})
		if err != nil {
			t.Fatalf("call %d: CompressFast() error = %v", i, err)
		}
		out := make([]byte, len(input))
		if _, err := lz4block.DecompressDict(dst[:n], out, dict); err != nil {
			t.Fatalf("call %d: DecompressDict() error = %v", i, err)
		}
		if !bytes.Equal(out, input) {
			t.Fatalf("call %d: round trip mismatch", i)
		}
	}
}
