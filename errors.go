package img2ascii

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGrid reports a grid with zero rows or columns: the glyph
	// stamp is larger than the (scaled) frame.
	ErrEmptyGrid = errors.New("grid has no cells")

	// ErrInvalidRamp reports a density ramp that cannot index a palette.
	ErrInvalidRamp = errors.New("invalid density ramp")

	// ErrNoFrames reports a frame source that produced nothing.
	ErrNoFrames = errors.New("no frames processed")
)

// GridError describes a configuration that yields an empty grid. It
// wraps ErrEmptyGrid.
type GridError struct {
	FrameWidth, FrameHeight int
	StampWidth, StampHeight int
}

func (e *GridError) Error() string {
	return fmt.Sprintf("%v: %dx%d frame cannot hold a %dx%d glyph stamp",
		ErrEmptyGrid, e.FrameWidth, e.FrameHeight, e.StampWidth, e.StampHeight)
}

func (e *GridError) Unwrap() error { return ErrEmptyGrid }
