package img2ascii

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontDPI is the resolution glyph faces are rasterized at. At 72 DPI a
// point size equals a pixel size.
const FontDPI = 72

// LoadFace loads a TrueType font file and returns a face at the given
// point size. TrueType collections (.ttc) are not supported by the
// parser and fail here.
func LoadFace(path string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ttf, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     FontDPI,
		Hinting: font.HintingFull,
	}), nil
}

// LoadFirstFace tries each path in order and returns the first face that
// loads, along with its path. If none loads, the returned error joins
// every failure; choosing a fallback is left to the caller.
func LoadFirstFace(paths []string, size float64) (font.Face, string, error) {
	var errs []error
	for _, path := range paths {
		face, err := LoadFace(path, size)
		if err == nil {
			return face, path, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	if len(errs) == 0 {
		return nil, "", errors.New("no font paths given")
	}
	return nil, "", errors.Join(errs...)
}

// DefaultFace returns the built-in 7x13 bitmap face. It covers printable
// ASCII and needs no font file.
func DefaultFace() font.Face {
	return basicfont.Face7x13
}
