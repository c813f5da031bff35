package imageutil

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation with
	// OpenCV's INTER_NEAREST indexing: destination pixel i copies source
	// pixel floor(i*src/dst), the top-left sample of its cell. No
	// neighboring values blend.
	InterpolationNearest
)

func scalerFor(interp Interpolation) draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGB image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBImage, width, height int, interp Interpolation) *RGBImage {
	if width == img.Width() && height == img.Height() {
		return img.Clone()
	}
	if interp == InterpolationNearest {
		return resizeNearestRGB(img, width, height)
	}
	// Scale through *image.RGBA so x/image/draw takes its fast paths.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scalerFor(interp).Scale(dst, dst.Bounds(), img.ToRGBA(), img.Bounds(), draw.Src, nil)
	return RGBImageFromImage(dst)
}

// ResizeGray resizes a grayscale image to the specified dimensions.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	if interp == InterpolationNearest {
		return resizeNearestGray(img, width, height)
	}
	dst := NewGrayImage(width, height)
	scalerFor(interp).Scale(dst.Gray, dst.Bounds(), img.Gray, img.Bounds(), draw.Src, nil)
	return dst
}

// ScaleBy resizes an image by a uniform factor using bilinear
// interpolation. Dimensions are truncated toward zero.
func ScaleBy(img *RGBImage, factor float64) *RGBImage {
	if factor == 1.0 {
		return img
	}
	w, h := ScaledSize(img.Width(), img.Height(), factor)
	return Resize(img, w, h, InterpolationLinear)
}

// ScaledSize returns the dimensions ScaleBy produces for a width and
// height.
func ScaledSize(width, height int, factor float64) (int, int) {
	return int(float64(width) * factor), int(float64(height) * factor)
}

// NearestIndices returns the source index sampled for each of dst
// destination positions along an axis of src pixels. The arithmetic
// follows OpenCV's resizeNN in double precision, so results agree with
// cv::resize(INTER_NEAREST) bit for bit.
func NearestIndices(src, dst int) []int {
	idx := make([]int, dst)
	if src <= 0 || dst <= 0 {
		return idx
	}
	scale := 1 / (float64(dst) / float64(src))
	for i := range idx {
		sx := int(math.Floor(float64(i) * scale))
		if sx > src-1 {
			sx = src - 1
		}
		idx[i] = sx
	}
	return idx
}

func resizeNearestGray(img *GrayImage, width, height int) *GrayImage {
	dst := NewGrayImage(width, height)
	xs := NearestIndices(img.Width(), width)
	ys := NearestIndices(img.Height(), height)
	for y, sy := range ys {
		srow := img.Pix[sy*img.Stride:]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+width]
		for x, sx := range xs {
			drow[x] = srow[sx]
		}
	}
	return dst
}

func resizeNearestRGB(img *RGBImage, width, height int) *RGBImage {
	dst := NewRGBImage(width, height)
	xs := NearestIndices(img.Width(), width)
	ys := NearestIndices(img.Height(), height)
	for y, sy := range ys {
		srow := img.Pix[sy*img.Stride:]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+width*3]
		for x, sx := range xs {
			copy(drow[x*3:x*3+3], srow[sx*3:sx*3+3])
		}
	}
	return dst
}
