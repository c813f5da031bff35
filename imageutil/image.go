// Package imageutil provides the pixel buffers and pure Go image
// processing used by the ASCII renderer: a packed 3-channel RGB frame,
// a single-channel brightness buffer, luma conversion, resizing and
// image file I/O.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBImage is a packed, opaque, 3-channel frame buffer. Pixel (x, y)
// occupies Pix[y*Stride+x*3 : y*Stride+x*3+3] in R, G, B order, so a
// frame of height H and width W is exactly an (H, W, 3) byte array.
// The rectangle always starts at the origin.
type RGBImage struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewRGBImage creates a black RGBImage with the specified dimensions.
func NewRGBImage(width, height int) *RGBImage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &RGBImage{
		Pix:    make([]uint8, width*height*3),
		Stride: width * 3,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// RGBImageFromImage converts any image.Image to an RGBImage. Alpha is
// dropped: non-premultiplied sources keep their straight color values.
func RGBImageFromImage(img image.Image) *RGBImage {
	bounds := img.Bounds()
	dst := NewRGBImage(bounds.Dx(), bounds.Dy())

	switch src := img.(type) {
	case *RGBImage:
		for y := 0; y < dst.Height(); y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[si:si+dst.Stride])
		}
	case *image.RGBA:
		copyFourChannel(dst, src.Pix, src.Stride, src.PixOffset(bounds.Min.X, bounds.Min.Y))
	case *image.NRGBA:
		copyFourChannel(dst, src.Pix, src.Stride, src.PixOffset(bounds.Min.X, bounds.Min.Y))
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				dst.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGBFromColor(img.At(x, y)))
			}
		}
	}
	return dst
}

func copyFourChannel(dst *RGBImage, pix []uint8, stride, offset int) {
	w := dst.Width()
	for y := 0; y < dst.Height(); y++ {
		s := pix[offset+y*stride : offset+y*stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*3]
		for x := 0; x < w; x++ {
			d[x*3] = s[x*4]
			d[x*3+1] = s[x*4+1]
			d[x*3+2] = s[x*4+2]
		}
	}
}

// ColorModel implements image.Image.
func (img *RGBImage) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (img *RGBImage) Bounds() image.Rectangle { return img.Rect }

// At implements image.Image.
func (img *RGBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return color.RGBA{}
	}
	return img.GetRGB(x, y).ToColor()
}

// Set implements draw.Image.
func (img *RGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	img.SetRGB(x, y, RGBFromColor(c))
}

// Opaque reports that every pixel is fully opaque.
func (img *RGBImage) Opaque() bool { return true }

// PixOffset returns the index of the first element of Pix that
// corresponds to the pixel at (x, y).
func (img *RGBImage) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Stride + (x-img.Rect.Min.X)*3
}

// Width returns the image width.
func (img *RGBImage) Width() int {
	return img.Rect.Dx()
}

// Height returns the image height.
func (img *RGBImage) Height() int {
	return img.Rect.Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBImage) GetRGB(x, y int) RGB {
	i := img.PixOffset(x, y)
	return RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBImage) SetRGB(x, y int, c RGB) {
	i := img.PixOffset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c.R, c.G, c.B
}

// Clone creates a deep copy of the image.
func (img *RGBImage) Clone() *RGBImage {
	clone := NewRGBImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// Equal reports whether both images have the same size and pixels.
func (img *RGBImage) Equal(other *RGBImage) bool {
	if img.Width() != other.Width() || img.Height() != other.Height() {
		return false
	}
	for y := 0; y < img.Height(); y++ {
		a := img.Pix[y*img.Stride : y*img.Stride+img.Width()*3]
		b := other.Pix[y*other.Stride : y*other.Stride+other.Width()*3]
		if string(a) != string(b) {
			return false
		}
	}
	return true
}

// ToRGBA expands the image into a standard library *image.RGBA.
func (img *RGBImage) ToRGBA() *image.RGBA {
	w, h := img.Width(), img.Height()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		s := img.Pix[y*img.Stride : y*img.Stride+w*3]
		d := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			d[x*4] = s[x*3]
			d[x*4+1] = s[x*3+1]
			d[x*4+2] = s[x*3+2]
			d[x*4+3] = 0xff
		}
	}
	return rgba
}

// GrayImage wraps image.Gray for single-channel brightness buffers.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	clone := NewGrayImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}
