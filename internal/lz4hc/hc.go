package lz4hc

import "github.com/corelz4/lz4/internal/lz4block"

// favorDecSpeedMinLen is the shortest close-offset match the encoder will
// still emit when the caller asked to favor decompression speed: matches
// at offsets below one copy width decode through the byte-fill trampoline,
// so they only pay off when long enough.
const favorDecSpeedMinLen = 18

// favorDecSpeedMinOffset is the offset below which favor-decompression-
// speed mode applies the favorDecSpeedMinLen floor.
const favorDecSpeedMinOffset = 8

// CompressOptions configures one HC encoder invocation. Level selects
// search effort; it is clamped to [MinLevel, MaxLevel], with 0 meaning
// DefaultLevel.
type CompressOptions struct {
	Level int

	// FavorDecSpeed biases match selection toward matches that decode
	// with full-width copies, trading a little ratio for decode speed.
	FavorDecSpeed bool
}

func (o CompressOptions) level() int {
	l := o.Level
	if l == 0 {
		l = DefaultLevel
	}
	if l < MinLevel {
		l = MinLevel
	}
	if l > MaxLevel {
		l = MaxLevel
	}
	return l
}

// CompressBlock performs a one-shot HC compression of src into dst with
// no dictionary history.
func CompressBlock(src, dst []byte, opts CompressOptions) (int, error) {
	if len(src) > lz4block.MaxInputSize {
		return 0, lz4block.ErrInputTooLarge
	}
	e := &encoder{src: src, dst: dst, basePos: 0, win: nil, chain: newHashChain()}
	return e.run(paramsFor(opts.level()), opts.FavorDecSpeed)
}

// encoder holds the mutable state of one HC compression invocation.
type encoder struct {
	src     []byte
	dst     []byte
	basePos int64
	win     *window
	chain   *hashChain
}

func (e *encoder) hash4(pos int) (uint32, bool) {
	if pos+4 > len(e.src) {
		return 0, false
	}
	return lz4block.Hash(lz4block.Read32(e.src[pos:]), hashLog), true
}

// byteAt returns the single byte at logical position p, consulting the
// in-flight src buffer first and then window history.
func (e *encoder) byteAt(p int64) (byte, bool) {
	if p >= e.basePos {
		i := int(p - e.basePos)
		if i < 0 || i >= len(e.src) {
			return 0, false
		}
		return e.src[i], true
	}
	b, ok := e.win.at(p)
	if !ok || len(b) == 0 {
		return 0, false
	}
	return b[0], true
}

// matchLenAt counts how many bytes starting at src[ip] equal bytes
// starting at logical position ref, up to limit bytes.
func (e *encoder) matchLenAt(ip int, ref int64, limit int) int {
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
		return lz4block.CommonBytesForward(e.src[ip:ip+n], e.src[refPos:refPos+n])
	}
	count := 0
	for count < limit {
		b, ok := e.byteAt(ref + int64(count))
		if !ok || b != e.src[ip+count] {
			break
		}
		count++
	}
	return count
}

func (e *encoder) extendBackward(ip int, ref int64, anchor int) (int, int64) {
	refPos := ref - e.basePos
	if refPos >= 0 {
		n := lz4block.CommonBytesBackward(e.src, e.src, ip, int(refPos), anchor, 0)
		return ip - n, ref - int64(n)
	}
	for ip > anchor && ref > e.win.lowLimit() {
		rb, ok := e.byteAt(ref - 1)
		if !ok || e.src[ip-1] != rb {
			break
		}
		ip--
		ref--
	}
	return ip, ref
}

func withinDistance(ip, ref int64) bool {
	d := ip - ref
	return d >= 1 && d <= lz4block.MaxDistance
}

// acceptable applies the favor-decompression-speed floor: very close
// offsets must clear a minimum length before they beat wider ones.
func acceptable(dist int64, length int, favorDecSpeed bool) bool {
	if !favorDecSpeed {
		return true
	}
	return dist >= favorDecSpeedMinOffset || length >= favorDecSpeedMinLen
}

// bestMatch probes up to params.maxAttempts hash-chain candidates at
// logical position e.basePos+int64(ip) and returns the longest one
// found, or ok==false if none reaches MinMatch. Ties prefer the lowest
// offset, which falls out of walking the chain most-recent-first and
// only replacing on a strictly longer match.
func (e *encoder) bestMatch(ip int, matchlimit int, params levelParams, favorDecSpeed bool) (ref int64, length int, ok bool) {
	h, valid := e.hash4(ip)
	if !valid {
		return 0, 0, false
	}
	curLogical := e.basePos + int64(ip)
	lowLimit := e.win.lowLimit()
	if curLogical-lz4block.MaxDistance > lowLimit {
		lowLimit = curLogical - lz4block.MaxDistance
	}

	best := 0
	var bestRef int64
	for _, cand := range e.chain.candidates(h, lowLimit, params.maxAttempts) {
		if !withinDistance(curLogical, cand) {
			continue
		}
		l := e.matchLenAt(ip, cand, matchlimit-ip)
		if l < lz4block.MinMatch {
			continue
		}
		if !acceptable(curLogical-cand, l, favorDecSpeed) {
			continue
		}
		if l > best {
			best = l
			bestRef = cand
			if l >= matchlimit-ip {
				break // can't possibly do better than the remaining input
			}
		}
	}
	e.chain.insert(curLogical, h)
	if best < lz4block.MinMatch {
		return 0, 0, false
	}
	return bestRef, best, true
}

// run dispatches to the parser the level table selected.
func (e *encoder) run(params levelParams, favorDecSpeed bool) (int, error) {
	switch params.parser {
	case parserMid:
		return e.runMid(params)
	case parserOptimal:
		return e.runOptimal(params, favorDecSpeed)
	default:
		return e.runChain(params, favorDecSpeed)
	}
}

// runChain executes the hash-chain match-finding loop: find the best
// candidate at the current position, peek one position ahead for a
// strictly better match before committing (lazy matching), then emit a
// sequence and continue from the match's end.
func (e *encoder) runChain(params levelParams, favorDecSpeed bool) (int, error) {
	n := len(e.src)
	if n == 0 {
		return 0, nil
	}
	if n < 13 { // mfLimit(12) + 1, same floor as the fast encoder
		return lz4block.WriteLastLiterals(e.dst, 0, e.src)
	}

	mflimit := n - 12
	matchlimit := n - lz4block.LastLiterals

	anchor := 0
	ip := 0
	dstPos := 0

	for ip < mflimit {
		ref, length, ok := e.bestMatch(ip, matchlimit, params, favorDecSpeed)
		if !ok {
			ip++
			continue
		}

		for ip+1 < mflimit {
			ref2, length2, ok2 := e.bestMatch(ip+1, matchlimit, params, favorDecSpeed)
			if !ok2 || length2 <= length {
				break
			}
			ip++
			ref, length = ref2, length2
		}

		matchStart, matchRef := e.extendBackward(ip, ref, anchor)
		totalLen := (ip - matchStart) + length

		var err error
		dstPos, err = lz4block.WriteSequence(e.dst, dstPos, e.src[anchor:matchStart], int(e.basePos+int64(matchStart)-matchRef), totalLen)
		if err != nil {
			return 0, err
		}

		newIP := matchStart + totalLen
		// Insert every position the match skipped over so later matches
		// can still reach into it.
		for p := ip + 1; p < newIP && p < mflimit; p++ {
			if h, valid := e.hash4(p); valid {
				e.chain.insert(e.basePos+int64(p), h)
			}
		}

		ip = newIP
		anchor = ip
	}

	return lz4block.WriteLastLiterals(e.dst, dstPos, e.src[anchor:])
}
