package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

func quietConsole() *console {
	return &console{w: io.Discard}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input, ext, want string
	}{
		{"photo.jpg", "", "photo_ascii.jpg"},
		{"dir/clip.mov", ".mp4", "dir/clip_ascii.mp4"},
		{"noext", "", "noext_ascii"},
		{"a.b/c.png", "", "a.b/c_ascii.png"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input, tt.ext); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
		}
	}
}

func TestSettingsFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	body := "font_size = 14\nscale = 0.5\nramp = \"dense\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	size := 20.0
	cfg, err := settings(RenderOptions{Config: path, FontSize: &size, Fonts: []string{"mine.ttf"}})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FontSize != 20 {
		t.Errorf("Expected flag font size 20, got %v", cfg.FontSize)
	}
	if cfg.Scale != 0.5 {
		t.Errorf("Expected config scale 0.5, got %v", cfg.Scale)
	}
	if cfg.Fonts[0] != "mine.ttf" || len(cfg.Fonts) < 2 {
		t.Errorf("Expected flag font tried first, got %v", cfg.Fonts)
	}
	if cfg.Ramp != "dense" {
		t.Errorf("Expected config ramp, got %q", cfg.Ramp)
	}
}

func TestSettingsRejectsInvalid(t *testing.T) {
	zero := 0.0
	if _, err := settings(RenderOptions{Scale: &zero}); err == nil {
		t.Error("Expected error for zero scale")
	}
	if _, err := settings(RenderOptions{Ramp: "ab"}); !errors.Is(err, img2ascii.ErrInvalidRamp) {
		t.Errorf("Expected ErrInvalidRamp for custom ramp without policy, got %v", err)
	}
}

// fallbackConfig writes a config whose only font does not exist, so the
// built-in 6x13 face is used.
func fallbackConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cfg.toml")
	body := "font = [\"" + filepath.ToSlash(filepath.Join(dir, "missing.ttf")) + "\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "black.png")
	if err := imageutil.SaveImage(imageutil.CreateSolidImage(63, 30, imageutil.RGB{}), input); err != nil {
		t.Fatal(err)
	}

	cmd := &ImageCmd{Input: input, RenderOptions: RenderOptions{Config: fallbackConfig(t, dir)}}
	if err := runImage(quietConsole(), cmd); err != nil {
		t.Fatal(err)
	}

	out, err := imageutil.LoadImage(filepath.Join(dir, "black_ascii.png"))
	if err != nil {
		t.Fatal(err)
	}
	// 63x30 fits 10x2 stamps of 6x13.
	if out.Width() != 60 || out.Height() != 26 {
		t.Errorf("Expected 60x26 output, got %dx%d", out.Width(), out.Height())
	}
}

func TestRunImageText(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "white.png")
	white := imageutil.RGB{R: 255, G: 255, B: 255}
	if err := imageutil.SaveImage(imageutil.CreateSolidImage(24, 26, white), input); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "white.txt")
	cmd := &ImageCmd{Input: input, RenderOptions: RenderOptions{Output: output, Config: fallbackConfig(t, dir)}}
	if err := runImage(quietConsole(), cmd); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Repeat("$$$$\n", 2); string(data) != want {
		t.Errorf("Expected %q, got %q", want, data)
	}
}

func TestRunImageTooSmall(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tiny.png")
	if err := imageutil.SaveImage(imageutil.CreateSolidImage(4, 4, imageutil.RGB{}), input); err != nil {
		t.Fatal(err)
	}
	cmd := &ImageCmd{Input: input, RenderOptions: RenderOptions{Config: fallbackConfig(t, dir)}}
	err := runImage(quietConsole(), cmd)
	var gridErr *img2ascii.GridError
	if !errors.As(err, &gridErr) {
		t.Fatalf("Expected *GridError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "tiny_ascii.png")); !os.IsNotExist(statErr) {
		t.Error("Expected no output for an empty grid")
	}
}

func TestRunImageMissingInput(t *testing.T) {
	dir := t.TempDir()
	cmd := &ImageCmd{Input: filepath.Join(dir, "nope.png"), RenderOptions: RenderOptions{Config: fallbackConfig(t, dir)}}
	if err := runImage(quietConsole(), cmd); err == nil {
		t.Error("Expected error for missing input")
	}
}

func TestProgressCountsFrames(t *testing.T) {
	var b strings.Builder
	c := &console{w: &b}
	p := c.progress(10)
	for i := 1; i <= 7; i++ {
		p.Update(i)
	}
	p.Done()
	if got := b.String(); got != "Frames written: 7\n" {
		t.Errorf("Expected only the summary off a terminal, got %q", got)
	}
}
