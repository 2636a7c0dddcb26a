package lz4hc

// dictWindowLimit is the largest history window any HC match offset can
// reach, matching the fast encoder's limit.
const dictWindowLimit = chainCapacity - 1

// Stream is the HC encoder's streaming state: persistent hash chains
// plus up to 64 KiB of rolling history, mirroring lz4block.Stream so
// CDict (package lz4dict) can preload a fast and an HC stream the same
// way.
type Stream struct {
	chain     *hashChain
	win       window
	globalPos int64
}

func NewStream() *Stream {
	s := &Stream{chain: newHashChain()}
	s.Reset()
	return s
}

func (s *Stream) Reset() {
	s.chain.reset()
	s.win = window{}
	s.globalPos = 0
}

// LoadDict ingests up to the last 64 KiB of d as a prefix dictionary,
// populating the hash chains so the first CompressContinue call can
// already find matches into it.
func (s *Stream) LoadDict(d []byte) {
	if len(d) > dictWindowLimit {
		d = d[len(d)-dictWindowLimit:]
	}
	s.win = window{hist: append([]byte(nil), d...), histStart: 0}
	s.globalPos = int64(len(d))
	e := &encoder{src: d, win: nil, chain: s.chain}
	for i := 0; i+4 <= len(d); i++ {
		if h, ok := e.hash4(i); ok {
			s.chain.insert(int64(i), h)
		}
	}
}

// AttachDictionary references another Stream's history for match
// lookups without copying its bytes. The other stream's hash chains are
// copied in (so its positions are actually findable) and this stream's
// logical clock is aligned to other's, but the dictionary bytes
// themselves stay owned by other: the caller must keep other alive and
// unmodified for as long as the attachment is in effect.
func (s *Stream) AttachDictionary(other *Stream) {
	if other == nil {
		s.win.attached = nil
		return
	}
	copy(s.chain.head, other.chain.head)
	copy(s.chain.chain, other.chain.chain)
	s.globalPos = other.globalPos
	s.win.hist = nil
	s.win.histStart = s.globalPos
	s.win.attached = &other.win
}

// CompressContinue compresses src into dst, treating everything consumed
// by earlier calls on this Stream (plus any loaded/attached dictionary)
// as history available for matches.
func (s *Stream) CompressContinue(src, dst []byte, opts CompressOptions) (int, error) {
	e := &encoder{src: src, dst: dst, basePos: s.globalPos, win: &s.win, chain: s.chain}
	n, err := e.run(paramsFor(opts.level()), opts.FavorDecSpeed)
	if err != nil {
		return 0, err
	}
	s.advance(src)
	return n, nil
}

func (s *Stream) advance(src []byte) {
	s.globalPos += int64(len(src))

	combined := make([]byte, 0, len(s.win.hist)+len(src))
	combined = append(combined, s.win.hist...)
	combined = append(combined, src...)
	if len(combined) > dictWindowLimit {
		combined = combined[len(combined)-dictWindowLimit:]
	}
	s.win.hist = combined
	s.win.histStart = s.globalPos - int64(len(combined))
}

// SaveDict copies the trailing up-to-64-KiB of history into dst and
// re-roots the stream to reference that copy.
func (s *Stream) SaveDict(dst []byte) []byte {
	hist := s.win.hist
	if len(hist) > len(dst) {
		hist = hist[len(hist)-len(dst):]
	}
	n := copy(dst, hist)
	s.win.hist = dst[:n:n]
	s.win.histStart = s.globalPos - int64(n)
	return dst[:n]
}
