package img2ascii

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/img2ascii/imageutil"
)

// GlyphPalette holds one pre-rasterized RGB stamp per ramp glyph. All
// stamps share the same size, so a grid of stamps tiles uniformly.
//
// The stamps live in a single buffer laid out as an (N, height, width, 3)
// array: stamp i starts at i*height*width*3 and its rows are contiguous.
// A palette is immutable once built and safe for concurrent readers.
type GlyphPalette struct {
	ramp       DensityRamp
	width      int
	height     int
	stampBytes int
	pix        []uint8
}

// NewGlyphPalette rasterizes every glyph in ramp with face.
//
// The stamp size is the pixel bounding box of the ramp's reference glyph.
// Each glyph is drawn white on a black canvas with the reference glyph's
// top-left ink corner at the canvas origin; glyphs are not centered, so
// proportional faces misalign while monospaced faces line up. Every stamp
// is therefore offset from a draw at the pen origin (0, 0) by the
// reference glyph's left bearing and its ascent above the ink box.
func NewGlyphPalette(face font.Face, ramp DensityRamp) (*GlyphPalette, error) {
	if ramp.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 glyphs, got %d",
			ErrInvalidRamp, ramp.Len())
	}

	bounds, _ := font.BoundString(face, string(ramp.Reference()))
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	width := bounds.Max.X.Ceil() - minX
	height := bounds.Max.Y.Ceil() - minY
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("reference glyph %q has an empty bounding box",
			ramp.Reference())
	}

	p := newPalette(ramp, width, height)
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: face,
	}

	for i := 0; i < ramp.Len(); i++ {
		draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)
		drawer.Dot = fixed.P(-minX, -minY)
		drawer.DrawString(string(ramp.Glyph(i)))
		p.setStamp(i, canvas.Pix, canvas.Stride, 4)
	}

	return p, nil
}

// NewGlyphPaletteFromStamps builds a palette from pre-rendered stamps,
// one per ramp glyph in ramp order. Every stamp must have the same
// non-zero size.
func NewGlyphPaletteFromStamps(ramp DensityRamp, stamps []*imageutil.RGBImage) (*GlyphPalette, error) {
	if ramp.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 glyphs, got %d",
			ErrInvalidRamp, ramp.Len())
	}
	if len(stamps) != ramp.Len() {
		return nil, fmt.Errorf("ramp has %d glyphs but %d stamps were given",
			ramp.Len(), len(stamps))
	}

	width, height := stamps[0].Width(), stamps[0].Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("stamp 0 is empty")
	}

	p := newPalette(ramp, width, height)
	for i, s := range stamps {
		if s.Width() != width || s.Height() != height {
			return nil, fmt.Errorf("stamp %d is %dx%d, want %dx%d",
				i, s.Width(), s.Height(), width, height)
		}
		p.setStamp(i, s.Pix[s.PixOffset(s.Rect.Min.X, s.Rect.Min.Y):], s.Stride, 3)
	}
	return p, nil
}

func newPalette(ramp DensityRamp, width, height int) *GlyphPalette {
	stampBytes := width * height * 3
	return &GlyphPalette{
		ramp:       ramp,
		width:      width,
		height:     height,
		stampBytes: stampBytes,
		pix:        make([]uint8, ramp.Len()*stampBytes),
	}
}

// setStamp copies the RGB channels of a width x height pixel block with
// the given row stride and bytes per pixel into stamp i.
func (p *GlyphPalette) setStamp(i int, src []uint8, stride, bpp int) {
	dst := p.pix[i*p.stampBytes : (i+1)*p.stampBytes]
	rowBytes := p.width * 3
	for y := 0; y < p.height; y++ {
		s := src[y*stride:]
		d := dst[y*rowBytes : (y+1)*rowBytes]
		for x := 0; x < p.width; x++ {
			d[x*3] = s[x*bpp]
			d[x*3+1] = s[x*bpp+1]
			d[x*3+2] = s[x*bpp+2]
		}
	}
}

// Len returns the number of stamps N.
func (p *GlyphPalette) Len() int { return p.ramp.Len() }

// Ramp returns the density ramp the palette was built from.
func (p *GlyphPalette) Ramp() DensityRamp { return p.ramp }

// StampWidth returns the width in pixels shared by every stamp.
func (p *GlyphPalette) StampWidth() int { return p.width }

// StampHeight returns the height in pixels shared by every stamp.
func (p *GlyphPalette) StampHeight() int { return p.height }

// Stamp returns a copy of stamp i as an image.
func (p *GlyphPalette) Stamp(i int) *imageutil.RGBImage {
	img := imageutil.NewRGBImage(p.width, p.height)
	copy(img.Pix, p.stampPix(i))
	return img
}

// stampRow returns row y of stamp i without copying.
func (p *GlyphPalette) stampRow(i, y int) []uint8 {
	rowBytes := p.width * 3
	off := i*p.stampBytes + y*rowBytes
	return p.pix[off : off+rowBytes]
}

func (p *GlyphPalette) stampPix(i int) []uint8 {
	return p.pix[i*p.stampBytes : (i+1)*p.stampBytes]
}
