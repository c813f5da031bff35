package img2ascii

import (
	"fmt"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// IndexGrid holds one palette index per grid cell in row-major order.
type IndexGrid struct {
	Cols, Rows int
	Index      []int
}

// At returns the palette index of the cell at column col, row row.
func (g IndexGrid) At(col, row int) int {
	return g.Index[row*g.Cols+col]
}

// Text renders the grid as lines of ramp glyphs, one line per row, each
// terminated by a newline.
func (g IndexGrid) Text(ramp DensityRamp) string {
	var b strings.Builder
	b.Grow((g.Cols + 1) * g.Rows)
	for r := 0; r < g.Rows; r++ {
		for _, i := range g.Index[r*g.Cols : (r+1)*g.Cols] {
			b.WriteRune(ramp.Glyph(i))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Compositor turns frames into glyph renderings for a fixed grid. It only
// reads its palette, so one Compositor may be shared by any number of
// goroutines.
type Compositor struct {
	palette *GlyphPalette
	grid    Grid
	lut     [256]int
}

// NewCompositor returns a compositor that renders g with palette p.
func NewCompositor(p *GlyphPalette, g Grid) (*Compositor, error) {
	if p == nil {
		return nil, fmt.Errorf("nil glyph palette")
	}
	if g.Cols <= 0 || g.Rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, g.Cols, g.Rows)
	}
	return &Compositor{
		palette: p,
		grid:    g,
		lut:     p.Ramp().QuantizeTable(),
	}, nil
}

// Palette returns the compositor's glyph palette.
func (c *Compositor) Palette() *GlyphPalette { return c.palette }

// Grid returns the compositor's grid.
func (c *Compositor) Grid() Grid { return c.grid }

// OutputSize returns the size of every composed frame.
func (c *Compositor) OutputSize() (width, height int) {
	return c.grid.OutputSize(c.palette)
}

// Brightness reduces a frame to luma and samples it down to one value
// per grid cell with nearest-neighbor interpolation, so each cell keeps
// a single representative pixel.
func (c *Compositor) Brightness(frame *imageutil.RGBImage) *imageutil.GrayImage {
	gray := imageutil.ToGrayscale(frame)
	return imageutil.ResizeGray(gray, c.grid.Cols, c.grid.Rows, imageutil.InterpolationNearest)
}

// Quantize maps every cell of a brightness grid to a palette index.
func (c *Compositor) Quantize(bright *imageutil.GrayImage) IndexGrid {
	cols, rows := bright.Width(), bright.Height()
	idx := IndexGrid{Cols: cols, Rows: rows, Index: make([]int, cols*rows)}
	for y := 0; y < rows; y++ {
		row := bright.Pix[y*bright.Stride : y*bright.Stride+cols]
		out := idx.Index[y*cols : (y+1)*cols]
		for x, v := range row {
			out[x] = c.lut[v]
		}
	}
	return idx
}

// Indices runs the brightness and quantization steps for a frame.
func (c *Compositor) Indices(frame *imageutil.RGBImage) (IndexGrid, error) {
	if frame.Width() <= 0 || frame.Height() <= 0 {
		return IndexGrid{}, fmt.Errorf("empty %dx%d frame", frame.Width(), frame.Height())
	}
	return c.Quantize(c.Brightness(frame)), nil
}

// Tile places the stamp for every cell of idx at that cell's position.
// The result is exactly Rows*StampHeight x Cols*StampWidth pixels.
//
// Output rows are written in order: for each cell row and each stamp
// row, the matching row of every stamp along the cell row is copied
// side by side. This is the (rows, stampHeight, cols, stampWidth, 3)
// interleave of the gathered stamps, built with one contiguous copy per
// stamp row and no per-pixel work.
func (c *Compositor) Tile(idx IndexGrid) (*imageutil.RGBImage, error) {
	if idx.Cols != c.grid.Cols || idx.Rows != c.grid.Rows || len(idx.Index) != c.grid.Cells() {
		return nil, fmt.Errorf("index grid is %dx%d, compositor grid is %dx%d",
			idx.Cols, idx.Rows, c.grid.Cols, c.grid.Rows)
	}
	n := c.palette.Len()
	for cell, i := range idx.Index {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("cell %d has palette index %d outside [0, %d)", cell, i, n)
		}
	}

	sw, sh := c.palette.StampWidth(), c.palette.StampHeight()
	out := imageutil.NewRGBImage(c.grid.Cols*sw, c.grid.Rows*sh)
	rowBytes := sw * 3

	for r := 0; r < idx.Rows; r++ {
		cells := idx.Index[r*idx.Cols : (r+1)*idx.Cols]
		for y := 0; y < sh; y++ {
			line := out.Pix[(r*sh+y)*out.Stride:]
			for col, i := range cells {
				copy(line[col*rowBytes:(col+1)*rowBytes], c.palette.stampRow(i, y))
			}
		}
	}
	return out, nil
}

// Compose renders one frame. The frame may be any size; it is sampled to
// the compositor's grid and the output always has the grid's size.
func (c *Compositor) Compose(frame *imageutil.RGBImage) (*imageutil.RGBImage, error) {
	idx, err := c.Indices(frame)
	if err != nil {
		return nil, err
	}
	return c.Tile(idx)
}
