package lz4hc

import "github.com/corelz4/lz4/internal/lz4block"

// hashLog sizes the HC hash-head table wider than the fast encoder's;
// chain search probes many candidates per bucket.
const hashLog = 16

const hashTableSize = 1 << hashLog

// chainCapacity bounds how far back a hash chain is tracked; it is one
// more than the largest encodable offset, so every position a usable
// match can reach has its own chain slot.
const chainCapacity = lz4block.MaxDistance + 1

// hashChain is the HC encoder's match-finding index: head[h] is the most
// recent logical position whose 4 bytes hashed to h, and chain[p %
// chainCapacity] is the logical position of the previous occurrence of
// that same hash before p.
type hashChain struct {
	head  []int64
	chain []int64
}

func newHashChain() *hashChain {
	h := &hashChain{
		head:  make([]int64, hashTableSize),
		chain: make([]int64, chainCapacity),
	}
	h.reset()
	return h
}

func (h *hashChain) reset() {
	for i := range h.head {
		h.head[i] = -1
	}
	for i := range h.chain {
		h.chain[i] = -1
	}
}

func (h *hashChain) insert(pos int64, hash uint32) {
	prev := h.head[hash]
	h.chain[pos%chainCapacity] = prev
	h.head[hash] = pos
}

// candidates returns the chain of prior logical positions sharing pos's
// hash, most recent first, stopping after maxAttempts hops or once a
// position falls below lowLimit.
func (h *hashChain) candidates(hash uint32, lowLimit int64, maxAttempts int) []int64 {
	out := make([]int64, 0, maxAttempts)
	p := h.head[hash]
	for attempts := 0; attempts < maxAttempts && p >= lowLimit; attempts++ {
		out = append(out, p)
		next := h.chain[p%chainCapacity]
		if next >= p {
			break // defends against a corrupted/cyclic chain
		}
		p = next
	}
	return out
}
