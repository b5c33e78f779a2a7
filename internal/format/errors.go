package format

import "errors"

var (
	// ErrInvalidData indicates a serialized index had an unexpected magic
	// or version byte, or a zero fanout. Parsing stops at the first
	// mismatched byte.
	ErrInvalidData = errors.New("format: invalid data")

	// ErrTruncated indicates the input lacked the bytes required for a
	// complete serialized index.
	ErrTruncated = errors.New("format: truncated data")

	// ErrItemOutOfRange indicates a requested item ID is not a valid
	// insertion ID for this index.
	ErrItemOutOfRange = errors.New("format: item id out of range")
)
