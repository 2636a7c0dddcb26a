package lz4hc

import "github.com/corelz4/lz4/internal/lz4block"

// The optimal parser replaces the chain parser's local decisions with a
// forward dynamic-programming pass: every position records the cheapest
// way (in encoded bytes) it can be reached, either by extending the
// previous position's literal run or by a match ending there. A reverse
// walk over the arrival records then reconstructs the winning sequence
// chain before anything is emitted.

const (
	// optUnreachable marks a position no arrival has priced yet.
	optUnreachable = int32(1) << 30

	// optSufficientLen short-circuits the per-length pricing loop: a
	// match this long is taken whole, because nothing cheaper can reach
	// past it anyway.
	optSufficientLen = 4096
)

// arrival records the cheapest known way to reach one output position.
// mlen == 0 means "one more literal after from"; mlen > 0 means a match
// of that length at offset off ending here.
type arrival struct {
	price int32
	from  int32
	mlen  int32
	off   int32
}

// matchPrice is the encoded size of a match: token share, 2-byte offset,
// plus length-extension bytes once the 4-bit nibble overflows.
func matchPrice(mlen int) int32 {
	price := int32(1 + 2)
	code := mlen - lz4block.MinMatch
	if code >= 15 {
		price += int32((code-15)/255 + 1)
	}
	return price
}

// runOptimal executes the DP parse the highest levels use.
func (e *encoder) runOptimal(params levelParams, favorDecSpeed bool) (int, error) {
	n := len(e.src)
	if n == 0 {
		return 0, nil
	}
	if n < 13 {
		return lz4block.WriteLastLiterals(e.dst, 0, e.src)
	}

	mflimit := n - 12
	matchlimit := n - lz4block.LastLiterals

	opt := make([]arrival, n+1)
	for i := range opt {
		opt[i].price = optUnreachable
	}
	opt[0] = arrival{price: 0, from: -1}

	for p := 0; p < n; p++ {
		cur := opt[p]
		if cur.price == optUnreachable {
			continue
		}

		// Literal step. A literal byte costs itself; its token and
		// extension overhead is shared across the whole run and settles
		// once the run's closing match (or the block tail) is priced.
		if litPrice := cur.price + 1; litPrice < opt[p+1].price {
			opt[p+1] = arrival{price: litPrice, from: int32(p)}
		}

		if p >= mflimit {
			continue
		}

		ref, length, ok := e.bestMatch(p, matchlimit, params, favorDecSpeed)
		if !ok {
			continue
		}
		dist := e.basePos + int64(p) - ref

		if length >= optSufficientLen {
			ml := length
			if price := cur.price + matchPrice(ml); price < opt[p+ml].price {
				opt[p+ml] = arrival{price: price, from: int32(p), mlen: int32(ml), off: int32(dist)}
			}
			continue
		}

		// Price every usable truncation of the match. Shorter endings
		// matter because a cheap arrival two bytes earlier can unlock a
		// better follow-up match; matchPrice counts extension bytes, so
		// every length is priced exactly.
		for ml := lz4block.MinMatch; ml <= length; ml++ {
			if price := cur.price + matchPrice(ml); price < opt[p+ml].price {
				opt[p+ml] = arrival{price: price, from: int32(p), mlen: int32(ml), off: int32(dist)}
			}
		}
	}

	// Reverse walk: collect the match arrivals on the winning path.
	type pick struct {
		start, mlen, off int
	}
	var picks []pick
	for pos := n; pos > 0; {
		a := opt[pos]
		if a.mlen > 0 {
			picks = append(picks, pick{start: pos - int(a.mlen), mlen: int(a.mlen), off: int(a.off)})
		}
		pos = int(a.from)
	}

	// Emit forward.
	anchor := 0
	dstPos := 0
	for i := len(picks) - 1; i >= 0; i-- {
		pk := picks[i]
		var err error
		dstPos, err = lz4block.WriteSequence(e.dst, dstPos, e.src[anchor:pk.start], pk.off, pk.mlen)
		if err != nil {
			return 0, err
		}
		anchor = pk.start + pk.mlen
	}
	return lz4block.WriteLastLiterals(e.dst, dstPos, e.src[anchor:])
}
