package lz4block

// dictWindowLimit is the largest history window any LZ4 match offset
// can reach.
const dictWindowLimit = 65535

// Stream is the fast encoder's streaming state: a persistent hash
// table plus up to 64 KiB of rolling history, so CompressContinue can
// find matches in data compressed by earlier calls.
type Stream struct {
	table     []int64
	win       window
	globalPos int64
}

// NewStream allocates a zeroed streaming encoder state.
func NewStream() *Stream {
	s := &Stream{table: make([]int64, hashTableSize)}
	s.Reset()
	return s
}

// Reset clears the table and history, starting a fresh logical stream
// at position 0.
func (s *Stream) Reset() {
	for i := range s.table {
		s.table[i] = -1
	}
	s.win = window{}
	s.globalPos = 0
}

// ResetFast is the same as Reset: it clears the hash table, the history
// and the position counter. History and table state are unified in this
// implementation, so there is no cheaper partial reset; the name exists
// so callers mirroring the reference API have both names available.
func (s *Stream) ResetFast() {
	s.Reset()
}

// LoadDict ingests up to the last 64 KiB of d as a prefix dictionary,
// populating the hash table so the first CompressContinue call can
// already find matches into it.
func (s *Stream) LoadDict(d []byte) {
	if len(d) > dictWindowLimit {
		d = d[len(d)-dictWindowLimit:]
	}
	s.win = window{hist: append([]byte(nil), d...), histStart: 0}
	s.globalPos = int64(len(d))
	for i := 0; i+4 <= len(d); i++ {
		s.table[hashPosition(read32(d[i:]))] = int64(i)
	}
}

// AttachDictionary references another Stream's table and history for
// match lookups without copying the dictionary bytes. The other stream's
// hash table is copied in — candidate positions have to live in this
// stream's table to ever be probed — and the logical clock is aligned
// so those positions resolve through the attached window. The caller
// must keep other alive and unmodified for as long as the attachment
// is in effect.
func (s *Stream) AttachDictionary(other *Stream) {
	if other == nil {
		s.win.attached = nil
		return
	}
	copy(s.table, other.table)
	s.globalPos = other.globalPos
	s.win.hist = nil
	s.win.histStart = s.globalPos
	s.win.attached = &other.win
}

// CompressContinue compresses src into dst, treating the bytes
// consumed by every prior call on this Stream (plus any loaded or
// attached dictionary) as history available for matches.
func (s *Stream) CompressContinue(src, dst []byte, opts CompressOptions) (int, error) {
	if len(src) > MaxInputSize {
		return 0, ErrInputTooLarge
	}
	e := &encoder{src: src, dst: dst, basePos: s.globalPos, win: &s.win, table: s.table}
	n, err := e.run(opts.acceleration())
	if err != nil {
		return 0, err
	}
	s.advance(src)
	return n, nil
}

// advance folds src into the rolling history and moves the logical
// cursor forward, capping retained history at 64 KiB.
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
// re-roots the stream to reference that copy, so the caller may move
// or free whatever buffer previously backed the history. It returns the slice of dst actually written.
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
