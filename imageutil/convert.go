package imageutil

// Fixed-point BT.601 luma weights with 14 fractional bits, the same
// constants OpenCV uses for COLOR_RGB2GRAY.
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaRound = 1 << (lumaShift - 1)
)

// Luma returns the BT.601 luminance of a single RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((lumaR*uint32(r) + lumaG*uint32(g) + lumaB*uint32(b) + lumaRound) >> lumaShift)
}

// ToGrayscale converts an RGB image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
func ToGrayscale(img *RGBImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width*3]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x := range dst {
			dst[x] = Luma(src[x*3], src[x*3+1], src[x*3+2])
		}
	}

	return gray
}
