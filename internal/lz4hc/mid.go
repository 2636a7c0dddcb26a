package lz4hc

import (
	"encoding/binary"

	"github.com/corelz4/lz4/internal/lz4block"
)

// The mid parser trades the hash chains for two flat tables: a 4-byte
// prefix hash and an 8-byte prefix hash. The 8-byte table finds long
// matches in one probe; the 4-byte table catches the short ones the
// wider hash misses. No chain walking, no lazy lookahead.
const (
	midHash4Log = 14
	midHash8Log = 16
)

// midHash8 is the pointer-sized multiplicative hash used for the 8-byte
// prefix table.
func midHash8(x uint64) uint32 {
	const prime64 uint64 = 2870177450012600261
	return uint32((x * prime64) >> (64 - midHash8Log))
}

func midHash4(x uint32) uint32 {
	return lz4block.Hash(x, midHash4Log)
}

// runMid executes the dual-table greedy parse used by the lowest HC
// levels. Tables hold src-relative positions; -1 is empty. History from
// a streaming window is not probed here — the mid levels only match
// within the block, which keeps them table-only and branch-light.
func (e *encoder) runMid(params levelParams) (int, error) {
	n := len(e.src)
	if n == 0 {
		return 0, nil
	}
	if n < 13 {
		return lz4block.WriteLastLiterals(e.dst, 0, e.src)
	}

	t4 := make([]int, 1<<midHash4Log)
	t8 := make([]int, 1<<midHash8Log)
	for i := range t4 {
		t4[i] = -1
	}
	for i := range t8 {
		t8[i] = -1
	}

	mflimit := n - 12
	matchlimit := n - lz4block.LastLiterals

	anchor := 0
	ip := 0
	dstPos := 0
	misses := 0

	for ip < mflimit {
		cur4 := lz4block.Read32(e.src[ip:])
		var cand8 = -1
		if ip+8 <= n {
			h8 := midHash8(binary.LittleEndian.Uint64(e.src[ip:]))
			cand8 = t8[h8]
			t8[h8] = ip
		}
		h4 := midHash4(cur4)
		cand4 := t4[h4]
		t4[h4] = ip

		ref, length := e.midProbe(ip, cand8, matchlimit)
		if r4, l4 := e.midProbe(ip, cand4, matchlimit); l4 > length {
			ref, length = r4, l4
		}

		if length < lz4block.MinMatch {
			// Misses accelerate the scan the same way the fast
			// encoder's skip schedule does, just with a gentler curve
			// befitting a higher-effort level.
			ip += 1 + misses>>8
			misses++
			continue
		}
		misses = 0

		matchStart := ip
		for matchStart > anchor && ref > 0 && e.src[matchStart-1] == e.src[ref-1] {
			matchStart--
			ref--
		}
		length += ip - matchStart

		var err error
		dstPos, err = lz4block.WriteSequence(e.dst, dstPos, e.src[anchor:matchStart], matchStart-ref, length)
		if err != nil {
			return 0, err
		}

		ip = matchStart + length
		anchor = ip
		// Seed the tables with the position just before the match end so
		// back-to-back repeats are found on the next iteration.
		if p := ip - 2; p >= 0 && p+8 <= n {
			t8[midHash8(binary.LittleEndian.Uint64(e.src[p:]))] = p
			t4[midHash4(lz4block.Read32(e.src[p:]))] = p
		}
	}

	return lz4block.WriteLastLiterals(e.dst, dstPos, e.src[anchor:])
}

// midProbe validates a table candidate and returns its match length, or
// 0 when the candidate is empty, out of range, or not a real match.
func (e *encoder) midProbe(ip, cand, matchlimit int) (int, int) {
	if cand < 0 || ip-cand > lz4block.MaxDistance || cand >= ip {
		return 0, 0
	}
	if lz4block.Read32(e.src[cand:]) != lz4block.Read32(e.src[ip:]) {
		return 0, 0
	}
	limit := matchlimit - ip
	l := lz4block.MinMatch + e.matchLenAt(ip+lz4block.MinMatch, e.basePos+int64(cand)+lz4block.MinMatch, limit-lz4block.MinMatch)
	return cand, l
}
