package img2ascii

import "fmt"

// Rotation is a clockwise display rotation in degrees: 0, 90, 180 or 270.
type Rotation int

// Supported rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NormalizeRotation folds any multiple of 90 degrees, including negative
// angles, into [0, 360).
func NormalizeRotation(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("unsupported rotation %d (must be a multiple of 90)", degrees)
	}
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	return Rotation(d), nil
}

// SwapsAxes reports whether the rotation exchanges width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotate90 || r == Rotate270
}

// Grid is the coarse cell partition of a frame: one cell per output glyph.
type Grid struct {
	Cols, Rows int
}

// Cells returns the number of grid cells.
func (g Grid) Cells() int { return g.Cols * g.Rows }

// ComputeGrid returns how many whole stamps of the palette fit across a
// frame of width x height pixels as stored. When rotation swaps axes the
// frame is displayed with width and height exchanged, and the grid is
// computed from the displayed size. Remainder pixels are dropped.
//
// A grid with no rows or columns is a configuration error (*GridError).
func ComputeGrid(width, height int, rotation Rotation, p *GlyphPalette) (Grid, error) {
	if rotation.SwapsAxes() {
		width, height = height, width
	}
	g := Grid{
		Cols: width / p.StampWidth(),
		Rows: height / p.StampHeight(),
	}
	if width <= 0 || height <= 0 || g.Cols <= 0 || g.Rows <= 0 {
		return Grid{}, &GridError{
			FrameWidth:  width,
			FrameHeight: height,
			StampWidth:  p.StampWidth(),
			StampHeight: p.StampHeight(),
		}
	}
	return g, nil
}

// OutputSize returns the composed frame size for grid g with palette p.
func (g Grid) OutputSize(p *GlyphPalette) (width, height int) {
	return g.Cols * p.StampWidth(), g.Rows * p.StampHeight()
}
