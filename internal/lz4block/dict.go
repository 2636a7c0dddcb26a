package lz4block

// window is the view the fast encoder searches for matches against: the
// bytes currently being compressed, plus up to 64 KiB of history that
// logically precedes them (an inline prefix, a loaded dictionary, or an
// attached stream's own history). Logical positions are global and monotonically increasing
// across an entire Stream's lifetime; histStart is the global position
// of hist[0], so any logical position p has its bytes at
// hist[p-histStart] when histStart <= p < histStart+len(hist).
type window struct {
	hist      []byte
	histStart int64

	// attached is a weak reference to another Stream's window, probed
	// for matches that fall before histStart. It is never mutated or owned by this window.
	attached *window
}

// at returns the byte slice starting at global logical position p,
// searching this window and then the attached window if p falls
// further back than local history reaches. ok is false if p is not
// covered by any reachable history.
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

// lowLimit is the oldest logical position reachable through this
// window (directly or via an attached window).
func (w *window) lowLimit() int64 {
	if w == nil {
		return 0
	}
	if w.attached != nil {
		return w.attached.lowLimit()
	}
	return w.histStart
}
