package imageutil

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// ExifOrientation returns the EXIF orientation tag (1-8) stored in r, or
// 1 when the data carries no usable EXIF block.
func ExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err == nil && x != nil {
		orient, err := x.Get(exif.Orientation)
		if err == nil && orient != nil && orient.Count != 0 {
			if i, err := orient.Int(0); err == nil && i >= 1 && i <= 8 {
				return i
			}
		}
	}
	return 1
}

// OrientedSize returns the displayed width and height for an image whose
// stored size is w x h under the given EXIF orientation.
func OrientedSize(orient int, w, h int) (int, int) {
	switch orient {
	case 5, 6, 7, 8:
		w, h = h, w
	}
	return w, h
}

// ApplyOrientation transforms img so that it displays upright for the
// given EXIF orientation. Orientation 1 returns img unchanged.
func ApplyOrientation(img image.Image, orient int) image.Image {
	switch orient {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
