package lz4block

// Decoder is the streaming counterpart of Decompress: it retains the
// last 64 KiB of decoded output so linked blocks can back-reference
// across call boundaries. The frame codec drives one of these per linked-mode frame.
type Decoder struct {
	hist []byte
}

// NewDecoder allocates a streaming block decoder with empty history.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset drops all history, starting a fresh logical stream.
func (d *Decoder) Reset() {
	d.hist = d.hist[:0]
}

// SetDict seeds the history with the trailing 64 KiB of dict, as if it
// had just been decoded. The bytes are copied; the caller may reuse
// dict afterward.
func (d *Decoder) SetDict(dict []byte) {
	if len(dict) > dictWindowLimit {
		dict = dict[len(dict)-dictWindowLimit:]
	}
	d.hist = append(d.hist[:0], dict...)
}

// DecompressContinue decodes one block from src into dst with the
// accumulated history available for back-references, then folds the new
// output into the history.
func (d *Decoder) DecompressContinue(src, dst []byte) (int, error) {
	n, err := decompress(src, dst, d.hist, len(dst)+1)
	if err != nil {
		return 0, err
	}
	d.push(dst[:n])
	return n, nil
}

// AdvanceRaw folds bytes that bypassed the decoder (a stored,
// uncompressed block) into the history so subsequent blocks can still
// reference them.
func (d *Decoder) AdvanceRaw(b []byte) {
	d.push(b)
}

func (d *Decoder) push(b []byte) {
	if len(b) >= dictWindowLimit {
		d.hist = append(d.hist[:0], b[len(b)-dictWindowLimit:]...)
		return
	}
	d.hist = append(d.hist, b...)
	if len(d.hist) > dictWindowLimit {
		d.hist = append(d.hist[:0:0], d.hist[len(d.hist)-dictWindowLimit:]...)
	}
}
