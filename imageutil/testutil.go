package imageutil

// CreateGradientImage creates a horizontal gray gradient running from 0
// at the left edge to 255 at the right edge. Intermediate levels are
// rounded to nearest.
func CreateGradientImage(width, height int) *RGBImage {
	img := NewRGBImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := gradientLevel(x, width)
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return img
}

// CreateVerticalGradientImage creates a vertical gradient test image.
func CreateVerticalGradientImage(width, height int) *RGBImage {
	img := NewRGBImage(width, height)
	for y := 0; y < height; y++ {
		v := gradientLevel(y, height)
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return img
}

func gradientLevel(i, n int) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8((255*i + (n-1)/2) / (n - 1))
}

// CreateSteppedGradientImage creates a horizontal gradient made of
// `steps` equal-width bands, band i filled with level ceil(255*i/(steps-1)).
func CreateSteppedGradientImage(width, height, steps int) *RGBImage {
	img := NewRGBImage(width, height)
	bandWidth := width / steps
	for x := 0; x < width; x++ {
		band := x / bandWidth
		if band >= steps {
			band = steps - 1
		}
		v := uint8((255*band + steps - 2) / (steps - 1))
		for y := 0; y < height; y++ {
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *RGBImage {
	img := NewRGBImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBImage {
	img := NewRGBImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *RGBImage {
	img := NewRGBImage(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := width / len(colors)
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := x / barWidth
			if colorIdx >= len(colors) {
				colorIdx = len(colors) - 1
			}
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CalculateMaxDiff calculates the maximum per-channel difference between
// two images, or 256 when their sizes differ.
func CalculateMaxDiff(img1, img2 *RGBImage) int {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return 256
	}

	maxDiff := 0
	for y := 0; y < img1.Height(); y++ {
		for x := 0; x < img1.Width(); x++ {
			c1, c2 := img1.GetRGB(x, y), img2.GetRGB(x, y)
			for _, d := range [3]int{
				int(c1.R) - int(c2.R),
				int(c1.G) - int(c2.G),
				int(c1.B) - int(c2.B),
			} {
				if d < 0 {
					d = -d
				}
				if d > maxDiff {
					maxDiff = d
				}
			}
		}
	}
	return maxDiff
}
