package lz4hc

// parserKind selects the match-finding strategy a compression level uses.
type parserKind int

const (
	// parserMid probes two fixed hash tables (a 4-byte and an 8-byte
	// prefix hash) and greedily takes the longer hit; no chains.
	parserMid parserKind = iota
	// parserChain walks hash chains and lazily defers emission by one
	// position when the next position holds a strictly longer match.
	parserChain
	// parserOptimal runs a dynamic-programming pass over the block and
	// reconstructs the cheapest sequence chain.
	parserOptimal
)

// levelParams configures one compression level's search effort, mirroring
// the real LZ4 HC level table (lz4hc.c's clevel-to-cparam mapping): the
// lowest levels use the dual-table mid parser, the middle band walks hash
// chains with progressively deeper searches, and the top band layers the
// optimal parser on top.
type levelParams struct {
	maxAttempts int
	parser      parserKind
}

const (
	MinLevel        = 2
	DefaultLevel    = 9
	OptimalMinLevel = 10
	MaxLevel        = 12
)

var levelTable = [MaxLevel + 1]levelParams{
	2:  {maxAttempts: 4, parser: parserMid},
	3:  {maxAttempts: 8, parser: parserMid},
	4:  {maxAttempts: 16, parser: parserChain},
	5:  {maxAttempts: 24, parser: parserChain},
	6:  {maxAttempts: 32, parser: parserChain},
	7:  {maxAttempts: 48, parser: parserChain},
	8:  {maxAttempts: 64, parser: parserChain},
	9:  {maxAttempts: 96, parser: parserChain},
	10: {maxAttempts: 96, parser: parserOptimal},
	11: {maxAttempts: 192, parser: parserOptimal},
	12: {maxAttempts: 384, parser: parserOptimal},
}

func paramsFor(level int) levelParams {
	if level < MinLevel {
		level = MinLevel
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelTable[level]
}
