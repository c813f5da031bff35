package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/config"
)

// RenderOptions are shared by every subcommand. Pointer fields are only
// applied when given, so they override the config file.
type RenderOptions struct {
	Output   string   `arg:"-o,--output" help:"output path (default: input stem + _ascii)"`
	FontSize *float64 `arg:"-f,--fontsize" help:"font point size [default: 10]"`
	Scale    *float64 `arg:"-s,--scale" help:"resize factor applied to the source before rendering [default: 1.0]"`
	Config   string   `arg:"-c,--config" help:"TOML settings file"`
	Fonts    []string `arg:"--font,separate" help:"TrueType font to try first, may be repeated"`
	Ramp     string   `arg:"--ramp" help:"light, dense or a literal glyph ramp"`
	Policy   string   `arg:"--policy" help:"quantization policy: linear or bucket"`
}

type ImageCmd struct {
	Input string `arg:"positional,required" help:"input image"`
	RenderOptions
}

type VideoCmd struct {
	Input string `arg:"positional,required" help:"input video"`
	RenderOptions
	Workers *int   `arg:"-w,--workers" help:"frames composed in parallel [default: 1]"`
	Codec   string `arg:"--codec" help:"output FourCC [default: mp4v]"`
	NoAudio bool   `arg:"--no-audio" help:"do not copy the source audio"`
}

type Args struct {
	Image *ImageCmd `arg:"subcommand:image" help:"render a still image"`
	Video *VideoCmd `arg:"subcommand:video" help:"render a video"`
}

func (Args) Description() string {
	return "img2ascii renders images and videos as grids of text glyphs."
}

func main() {
	var args Args
	p := arg.MustParse(&args)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand: image or video")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := newConsole(os.Stdout)
	var err error
	switch {
	case args.Image != nil:
		err = runImage(out, args.Image)
	case args.Video != nil:
		err = runVideo(ctx, out, args.Video, nil)
	}
	if err != nil {
		if errors.Is(err, img2ascii.ErrNoFrames) {
			out.Printf("No frames processed.\n")
		} else {
			out.Errorf("%v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// settings merges defaults, the optional config file and flags.
func settings(opts RenderOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if opts.FontSize != nil {
		cfg.FontSize = *opts.FontSize
	}
	if opts.Scale != nil {
		cfg.Scale = *opts.Scale
	}
	if len(opts.Fonts) > 0 {
		cfg.Fonts = append(append([]string(nil), opts.Fonts...), cfg.Fonts...)
	}
	if opts.Ramp != "" {
		cfg.Ramp = opts.Ramp
		cfg.Policy = ""
	}
	if opts.Policy != "" {
		cfg.Policy = opts.Policy
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildPalette loads the first usable font, falling back to the built-in
// face with a warning, and rasterizes the configured ramp.
func buildPalette(out *console, cfg config.Config) (*img2ascii.GlyphPalette, error) {
	ramp, err := cfg.DensityRamp()
	if err != nil {
		return nil, err
	}
	face, path, err := img2ascii.LoadFirstFace(cfg.Fonts, cfg.FontSize)
	if err != nil {
		out.Warnf("no font could be loaded, using the built-in 7x13 font\n")
		for _, line := range strings.Split(err.Error(), "\n") {
			out.Printf("  %s\n", line)
		}
		face = img2ascii.DefaultFace()
	} else {
		out.Printf("Font: %s (%gpt)\n", path, cfg.FontSize)
	}
	defer face.Close()

	palette, err := img2ascii.NewGlyphPalette(face, ramp)
	if err != nil {
		return nil, fmt.Errorf("failed to build glyph palette: %w", err)
	}
	out.Printf("Ramp: %q (%s), stamp %dx%d\n", ramp.String(), ramp.Policy(),
		palette.StampWidth(), palette.StampHeight())
	return palette, nil
}

// defaultOutput derives "<dir>/<stem>_ascii<ext>" from input. An empty
// ext keeps the input's extension.
func defaultOutput(input, ext string) string {
	inExt := filepath.Ext(input)
	if ext == "" {
		ext = inExt
	}
	return strings.TrimSuffix(input, inExt) + "_ascii" + ext
}
