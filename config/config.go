// Package config holds renderer settings loaded from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/wbrown/img2ascii"
)

// Config is the full set of renderer settings. Zero values in a loaded
// file are not special: a key that is absent keeps its default.
type Config struct {
	// Fonts are TrueType files tried in order. When none loads, the
	// built-in bitmap face is used.
	Fonts    []string `toml:"font"`
	FontSize float64  `toml:"font_size"`
	// Scale resizes source frames before the grid is computed.
	Scale float64 `toml:"scale"`
	// Ramp is "light", "dense" or a literal glyph string ordered by
	// brightness index.
	Ramp string `toml:"ramp"`
	// Policy overrides the ramp's quantization policy. It is required
	// for literal ramps.
	Policy string `toml:"policy"`
	// Reference is the glyph measured to size stamps.
	Reference string `toml:"reference"`
	Workers   int    `toml:"workers"`
	// Codec is the FourCC of the output video.
	Codec string `toml:"codec"`
	// Audio copies the source audio into rendered videos.
	Audio   bool   `toml:"audio"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// DefaultFonts are common monospaced fonts on Linux and macOS.
var DefaultFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/Library/Fonts/Courier New.ttf",
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Fonts:    append([]string(nil), DefaultFonts...),
		FontSize: 10,
		Scale:    1.0,
		Ramp:     "light",
		Workers:  1,
		Codec:    "mp4v",
		Audio:    true,
		FFmpeg:   "ffmpeg",
		FFprobe:  "ffprobe",
	}
}

// Load reads path over the defaults and validates the result. Unknown
// keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and that the ramp settings resolve.
func (c Config) Validate() error {
	var errs []error
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font_size must be positive, got %v", c.FontSize))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %v", c.Scale))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Codec != "" && len(c.Codec) != 4 {
		errs = append(errs, fmt.Errorf("codec must be a FourCC, got %q", c.Codec))
	}
	if _, err := c.DensityRamp(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DensityRamp resolves Ramp, Policy and Reference into a ramp.
func (c Config) DensityRamp() (img2ascii.DensityRamp, error) {
	var reference rune
	if c.Reference != "" {
		if utf8.RuneCountInString(c.Reference) != 1 {
			return img2ascii.DensityRamp{}, fmt.Errorf("reference must be a single glyph, got %q", c.Reference)
		}
		reference, _ = utf8.DecodeRuneInString(c.Reference)
	}

	if builtin, ok := img2ascii.RampByName(c.Ramp); ok {
		if c.Policy == "" && reference == 0 {
			return builtin, nil
		}
		policy := builtin.Policy()
		if c.Policy != "" {
			p, err := img2ascii.ParsePolicy(c.Policy)
			if err != nil {
				return img2ascii.DensityRamp{}, err
			}
			policy = p
		}
		if reference == 0 {
			reference = builtin.Reference()
		}
		return img2ascii.NewDensityRamp(builtin.String(), policy, reference)
	}

	if c.Policy == "" {
		return img2ascii.DensityRamp{}, fmt.Errorf("%w: custom ramp %q needs a policy",
			img2ascii.ErrInvalidRamp, c.Ramp)
	}
	policy, err := img2ascii.ParsePolicy(c.Policy)
	if err != nil {
		return img2ascii.DensityRamp{}, err
	}
	return img2ascii.NewDensityRamp(c.Ramp, policy, reference)
}
