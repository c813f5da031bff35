package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

func runImage(out *console, cmd *ImageCmd) error {
	cfg, err := settings(cmd.RenderOptions)
	if err != nil {
		return err
	}
	palette, err := buildPalette(out, cfg)
	if err != nil {
		return err
	}

	frame, err := imageutil.LoadImage(cmd.Input)
	if err != nil {
		return err
	}
	frame = imageutil.ScaleBy(frame, cfg.Scale)

	grid, err := img2ascii.ComputeGrid(frame.Width(), frame.Height(), img2ascii.Rotate0, palette)
	if err != nil {
		return err
	}
	c, err := img2ascii.NewCompositor(palette, grid)
	if err != nil {
		return err
	}

	output := cmd.Output
	if output == "" {
		output = defaultOutput(cmd.Input, "")
	}

	start := time.Now()
	if strings.EqualFold(filepath.Ext(output), ".txt") {
		err = writeText(c, frame, output)
	} else {
		err = writeImage(c, frame, output)
	}
	if err != nil {
		return err
	}

	w, h := c.OutputSize()
	out.Printf("Saved %s: %dx%d glyphs, %dx%d pixels in %v\n",
		output, grid.Cols, grid.Rows, w, h, time.Since(start).Round(time.Millisecond))
	return nil
}

func writeImage(c *img2ascii.Compositor, frame *imageutil.RGBImage, output string) error {
	composed, err := c.Compose(frame)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(composed, output)
}

func writeText(c *img2ascii.Compositor, frame *imageutil.RGBImage, output string) error {
	idx, err := c.Indices(frame)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, []byte(idx.Text(c.Palette().Ramp())), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
