package lz4block

// CompressOptions configures a single fast-encoder invocation.
type CompressOptions struct {
	// Acceleration trades ratio for speed by widening the hash-miss
	// skip step. Values are clamped to [MinAcceleration,
	// MaxAcceleration]; 0 means "use the default" (1).
	Acceleration int
}

func (o CompressOptions) acceleration() int {
	a := o.Acceleration
	if a == 0 {
		a = MinAcceleration
	}
	if a < MinAcceleration {
		a = MinAcceleration
	}
	if a > MaxAcceleration {
		a = MaxAcceleration
	}
	return a
}

// CompressBlock performs a one-shot fast-encoder compression of src
// into dst with no dictionary history, returning the number of bytes
// written. This is the entry point the root package's
// CompressBlock/CompressBlockAccel wrappers and the frame codec's
// independent-block mode (fast encoder, no dictionary) use.
func CompressBlock(src, dst []byte, opts CompressOptions) (int, error) {
	if len(src) > MaxInputSize {
		return 0, ErrInputTooLarge
	}
	table := make([]int64, hashTableSize)
	for i := range table {
		table[i] = -1
	}
	e := &encoder{src: src, dst: dst, basePos: 0, win: nil, table: table}
	return e.run(opts.acceleration())
}

// encoder holds the mutable state of one compress_generic invocation.
// basePos is the global logical position of src[0]; win (if non-nil)
// exposes history at logical positions below basePos.
type encoder struct {
	src     []byte
	dst     []byte
	basePos int64
	win     *window
	table   []int64
}

func (e *encoder) hashAt(pos int) (uint32, bool) {
	if pos+4 > len(e.src) {
		return 0, false
	}
	return hashPosition(read32(e.src[pos:])), true
}

// match4 reports whether the 4 bytes at logical position ref equal the
// 4 bytes at src[ip:ip+4].
func (e *encoder) match4(ip int, ref int64) bool {
	if ref < e.win.lowLimit() {
		return false
	}
	if ref >= e.basePos {
		refPos := int(ref - e.basePos)
		if refPos+4 > len(e.src) || refPos < 0 {
			return false
		}
		return read32(e.src[ip:]) == read32(e.src[refPos:])
	}
	for i := 0; i < 4; i++ {
		b, ok := e.win.at(ref + int64(i))
		if !ok || len(b) == 0 || b[0] != e.src[ip+i] {
			return false
		}
	}
	return true
}

// matchForward counts how many bytes starting at src[ip] equal bytes
// starting at logical position ref, up to limit bytes.
func (e *encoder) matchForward(ip int, ref int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	if ref >= e.basePos {
		refPos := int(ref - e.basePos)
		n := limit
		if len(e.src)-refPos < n {
			n = len(e.src) - refPos
		}
		if len(e.src)-ip < n {
			n = len(e.src) - ip
		}
		if n <= 0 {
			return 0
		}
		return commonBytesForward(e.src[ip:ip+n], e.src[refPos:refPos+n])
	}
	count := 0
	for count < limit {
		b, ok := e.win.at(ref + int64(count))
		if !ok || len(b) == 0 || b[0] != e.src[ip+count] {
			break
		}
		count++
	}
	return count
}

// extendBackward walks ip and ref backward together while the bytes
// they point at match, stopping at anchor or the window's low limit.
func (e *encoder) extendBackward(ip int, ref int64, anchor int) (int, int64) {
	refPos := ref - e.basePos
	if refPos >= 0 {
		// Both sides are in-src: extend with a bulk backward scan
		// instead of a byte-at-a-time loop. This stops at ref==basePos
		// rather than crossing into window history; any further
		// backward match there is left as literals, which costs ratio
		// but never correctness.
		n := commonBytesBackward(e.src, e.src, ip, int(refPos), anchor, 0)
		return ip - n, ref - int64(n)
	}
	for ip > anchor && ref > e.win.lowLimit() {
		b, ok := e.win.at(ref - 1)
		if !ok || len(b) == 0 || e.src[ip-1] != b[0] {
			break
		}
		ip--
		ref--
	}
	return ip, ref
}

// withinDistance reports whether a back-reference from logical position
// ip to logical position ref is encodable (1..maxDistance).
func withinDistance(ip, ref int64) bool {
	d := ip - ref
	return d >= 1 && d <= maxDistance
}

// run executes the main compress_generic loop and returns the number
// of bytes written to e.dst.
func (e *encoder) run(acceleration int) (int, error) {
	n := len(e.src)
	if n == 0 {
		return 0, nil
	}
	if n < minLength {
		return e.emitLastLiterals(0, 0)
	}

	mflimit := n - mfLimit
	matchlimit := n - lastLiterals

	anchor := 0
	ip := 0
	dstPos := 0
	searchMatchNb := acceleration << skipTrigger

	for ip < mflimit {
		h, ok := e.hashAt(ip)
		if !ok {
			break
		}
		refLogical := e.table[h]
		e.table[h] = e.basePos + int64(ip)

		if refLogical < 0 || !withinDistance(e.basePos+int64(ip), refLogical) || !e.match4(ip, refLogical) {
			step := searchMatchNb >> skipTrigger
			searchMatchNb++
			ip += step
			continue
		}

		// Match found: extend backward into the pending literal run,
		// then forward past the confirmed 4 bytes. Backward extension
		// lengthens the match without moving its end, so the total
		// match length is the backward extent plus the forward one.
		matchStart, matchRef := e.extendBackward(ip, refLogical, anchor)
		forwardExtra := e.matchForward(ip+minMatch, refLogical+minMatch, matchlimit-(ip+minMatch))
		matchLen := (ip - matchStart) + minMatch + forwardExtra

		var err error
		dstPos, err = e.writeSequence(dstPos, anchor, matchStart, int(e.basePos+int64(matchStart)-matchRef), matchLen)
		if err != nil {
			return 0, err
		}

		ip = matchStart + matchLen
		anchor = ip
		if ip >= mflimit {
			break
		}

		// Insert the position right after the match and attempt a
		// back-to-back match before resuming the skip-scan.
		for {
			h2, ok2 := e.hashAt(ip)
			if !ok2 {
				break
			}
			ref2 := e.table[h2]
			e.table[h2] = e.basePos + int64(ip)
			if ref2 < 0 || !withinDistance(e.basePos+int64(ip), ref2) || !e.match4(ip, ref2) {
				break
			}
			ms, mr := e.extendBackward(ip, ref2, anchor)
			ml := minMatch + e.matchForward(ip+minMatch, ref2+minMatch, matchlimit-(ip+minMatch))
			dstPos, err = e.writeSequence(dstPos, anchor, ms, int(e.basePos+int64(ms)-mr), ml)
			if err != nil {
				return 0, err
			}
			ip = ms + ml
			anchor = ip
			if ip >= mflimit {
				break
			}
		}
		searchMatchNb = acceleration << skipTrigger
	}

	return e.emitLastLiterals(dstPos, anchor)
}

// writeSequence appends one literal run [anchor:matchStart) followed by
// a match of length matchLen at the given offset, returning the new
// dst position.
func (e *encoder) writeSequence(dstPos, anchor, matchStart, offset, matchLen int) (int, error) {
	return WriteSequence(e.dst, dstPos, e.src[anchor:matchStart], offset, matchLen)
}

// emitLastLiterals writes the trailing literals-only run from anchor to
// the end of e.src, which is always how an LZ4 block ends.
func (e *encoder) emitLastLiterals(dstPos, anchor int) (int, error) {
	return WriteLastLiterals(e.dst, dstPos, e.src[anchor:])
}

// extLenBytes returns how many extension bytes encoding length l needs
// beyond the 4-bit in-token code (0 if l < 15).
func extLenBytes(l int) int {
	if l < 15 {
		return 0
	}
	return (l-15)/255 + 1
}

// writeExtLen writes the chained 255-valued extension bytes for a
// length code that overflowed its 4-bit token nibble.
func writeExtLen(dst []byte, pos, l int) int {
	if l < 15 {
		return pos
	}
	rem := l - 15
	for rem >= 255 {
		dst[pos] = 255
		pos++
		rem -= 255
	}
	dst[pos] = byte(rem)
	pos++
	return pos
}
