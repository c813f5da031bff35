package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wbrown/img2ascii"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img2ascii.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.FontSize != 10 || cfg.Scale != 1.0 {
		t.Errorf("Expected font_size 10 and scale 1.0, got %v and %v", cfg.FontSize, cfg.Scale)
	}
	ramp, _ := cfg.DensityRamp()
	if ramp.String() != img2ascii.LightRamp().String() || ramp.Policy() != img2ascii.PolicyLinear {
		t.Errorf("Expected light linear ramp, got %q %v", ramp, ramp.Policy())
	}
}

func TestDefaultFontsNotShared(t *testing.T) {
	cfg := Default()
	cfg.Fonts[0] = "changed.ttf"
	if Default().Fonts[0] == "changed.ttf" {
		t.Error("Default() should return an independent font list")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
font = ["/fonts/Mono.ttf"]
font_size = 14
ramp = "dense"
workers = 4
audio = false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Fonts) != 1 || cfg.Fonts[0] != "/fonts/Mono.ttf" {
		t.Errorf("Expected one font, got %v", cfg.Fonts)
	}
	if cfg.FontSize != 14 || cfg.Workers != 4 || cfg.Audio {
		t.Errorf("Expected overrides applied, got %+v", cfg)
	}
	if cfg.Scale != 1.0 || cfg.Codec != "mp4v" {
		t.Errorf("Expected untouched keys to keep defaults, got scale %v codec %q", cfg.Scale, cfg.Codec)
	}
	ramp, _ := cfg.DensityRamp()
	if ramp.Policy() != img2ascii.PolicyBucket {
		t.Errorf("Expected dense ramp to keep bucket policy, got %v", ramp.Policy())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "fontsize = 12\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "fontsize") {
		t.Errorf("Expected unknown key error naming fontsize, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "scale = \n")); err == nil {
		t.Error("Expected parse error")
	}
	if _, err := Load(writeConfig(t, "scale = -1.0\n")); err == nil {
		t.Error("Expected validation error for negative scale")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero font size", func(c *Config) { c.FontSize = 0 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"bad codec", func(c *Config) { c.Codec = "h264x" }},
		{"bad policy", func(c *Config) { c.Policy = "log" }},
		{"custom ramp without policy", func(c *Config) { c.Ramp = " .:#" }},
		{"one glyph ramp", func(c *Config) { c.Ramp = "#"; c.Policy = "linear" }},
		{"long reference", func(c *Config) { c.Reference = "@@" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestDensityRamp(t *testing.T) {
	cfg := Default()
	cfg.Ramp = " .:#"
	cfg.Policy = "bucket"
	ramp, err := cfg.DensityRamp()
	if err != nil {
		t.Fatal(err)
	}
	if ramp.Len() != 4 || ramp.Policy() != img2ascii.PolicyBucket || ramp.Reference() != ' ' {
		t.Errorf("Expected 4-glyph bucket ramp with reference ' ', got %q %v %q",
			ramp, ramp.Policy(), ramp.Reference())
	}

	cfg = Default()
	cfg.Policy = "bucket"
	cfg.Reference = "#"
	ramp, err = cfg.DensityRamp()
	if err != nil {
		t.Fatal(err)
	}
	if ramp.String() != img2ascii.LightRamp().String() || ramp.Policy() != img2ascii.PolicyBucket || ramp.Reference() != '#' {
		t.Errorf("Expected light glyphs with bucket policy and '#', got %q %v %q",
			ramp, ramp.Policy(), ramp.Reference())
	}

	cfg = Default()
	cfg.Ramp = "ab"
	_, err = cfg.DensityRamp()
	if !errors.Is(err, img2ascii.ErrInvalidRamp) {
		t.Errorf("Expected ErrInvalidRamp, got %v", err)
	}
}
