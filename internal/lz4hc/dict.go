package lz4hc

// window is the HC encoder's view of history: the bytes currently being
// compressed plus up to 64 KiB of preceding context (an inline prefix, a
// loaded dictionary, or an attached stream's own history). It mirrors
// lz4block's window — logical positions are global and monotonically
// increasing across a Stream's lifetime — kept as a separate type here
// since the HC search state (hash chains, not a single hash table) isn't
// shared with the fast encoder.
type window struct {
	hist      []byte
	histStart int64
	attached  *window
}

func (w *window) at(p int64) (b []byte, ok bool) {
	if w == nil {
		return nil, false
	}
	if p >= w.histStart && p < w.histStart+int64(len(w.hist)) {
		return w.hist[p-w.histStart:], true
	}
	if w.attached != nil {
		return w.attached.at(p)
	}
	return nil, false
}

func (w *window) lowLimit() int64 {
	if w == nil {
		return 0
	}
	if w.attached != nil {
		return w.attached.lowLimit()
	}
	return w.histStart
}
