// Package lz4dict precomputes a compression dictionary once so that
// many independent block or frame compressions against the same
// dictionary don't each re-hash it.
package lz4dict

import (
	"github.com/corelz4/lz4/internal/lz4block"
	"github.com/corelz4/lz4/internal/lz4hc"
)

// CDict bundles a fast-encoder stream and an HC stream, both preloaded
// with the same dictionary bytes, so CompressFast/CompressHC can attach
// to either without redoing the dictionary's hash-table or hash-chain
// construction.
type CDict struct {
	raw  []byte
	fast *lz4block.Stream
	hc   *lz4hc.Stream
}

// New precomputes a CDict from dictBytes. The two preloaded streams keep
// only the trailing 64 KiB as history; RawDict returns dictBytes whole.
func New(dictBytes []byte) *CDict {
	fast := lz4block.NewStream()
	fast.LoadDict(dictBytes)

	hc := lz4hc.NewStream()
	hc.LoadDict(dictBytes)

	return &CDict{raw: dictBytes, fast: fast, hc: hc}
}

// RawDict returns the dictionary bytes this CDict was built from, for
// callers that need to pass them to a one-shot DecompressDict call.
func (d *CDict) RawDict() []byte { return d.raw }

// FastStream exposes the preloaded fast-encoder stream so the frame
// codec can attach its own encoder state to it. The returned stream
// must not be mutated.
func (d *CDict) FastStream() *lz4block.Stream { return d.fast }

// HCStream exposes the preloaded HC stream so the frame codec can
// attach its own encoder state to it. The returned stream must not be
// mutated.
func (d *CDict) HCStream() *lz4hc.Stream { return d.hc }

// CompressFast attaches a fresh fast-encoder Stream to this CDict's
// precomputed dictionary and compresses src against it.
func (d *CDict) CompressFast(src, dst []byte, opts lz4block.CompressOptions) (int, error) {
	s := lz4block.NewStream()
	s.AttachDictionary(d.fast)
	return s.CompressContinue(src, dst, opts)
}

// CompressHC attaches a fresh HC Stream to this CDict's precomputed
// dictionary and compresses src against it.
func (d *CDict) CompressHC(src, dst []byte, opts lz4hc.CompressOptions) (int, error) {
	s := lz4hc.NewStream()
	s.AttachDictionary(d.hc)
	return s.CompressContinue(src, dst, opts)
}
