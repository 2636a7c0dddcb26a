package lz4block

import "errors"

// Sentinel error values for the block codec, matchable with
// errors.Is.
var (
	// ErrOutputTooSmall indicates the destination could not hold the
	// required output.
	ErrOutputTooSmall = errors.New("lz4block: output buffer too small")
	// ErrInputTooLarge indicates the input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("lz4block: input larger than MaxInputSize")
	// ErrInvalidArgument indicates a nonsensical parameter.
	ErrInvalidArgument = errors.New("lz4block: invalid argument")
	// ErrMalformedInput indicates a wire-format invariant violation
	// detected by the decoder.
	ErrMalformedInput = errors.New("lz4block: malformed compressed block")
)
