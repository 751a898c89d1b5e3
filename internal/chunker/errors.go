package chunker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChunkSize is returned when the target chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than 0")
	// ErrInvalidGapPolicy is returned by ParseGapPolicy for unknown names.
	ErrInvalidGapPolicy = errors.New("unknown gap policy")
)

func invalidSize(size int) error {
	return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
}
