package media

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/wbrown/img2ascii"
)

// RotationProbe reports the display rotation of the video at path.
type RotationProbe func(ctx context.Context, path string) (img2ascii.Rotation, error)

// FFprobe reads stream metadata with the ffprobe tool.
type FFprobe struct {
	// Binary is the ffprobe executable, "ffprobe" when empty.
	Binary string
	// Runner executes the command, ExecRunner when nil.
	Runner CommandRunner
}

func (p FFprobe) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := p.Binary
	if bin == "" {
		bin = "ffprobe"
	}
	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return runner.Output(ctx, bin, args...)
}

type probeOutput struct {
	Streams []struct {
		Index int `json:"index"`
		Tags  struct {
			Rotate string `json:"rotate"`
		} `json:"tags"`
		SideData []struct {
			Rotation *float64 `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
}

// Rotation returns the clockwise rotation a player applies to the first
// video stream. It satisfies RotationProbe.
func (p FFprobe) Rotation(ctx context.Context, path string) (img2ascii.Rotation, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream_tags=rotate:stream_side_data=rotation",
		"-of", "json",
		path)
	if err != nil {
		return 0, fmt.Errorf("failed to probe rotation: %w", err)
	}
	return parseRotation(out)
}

// parseRotation reads ffprobe JSON. The legacy "rotate" tag is clockwise;
// the display matrix side data is counter-clockwise.
func parseRotation(data []byte) (img2ascii.Rotation, error) {
	var probe probeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return img2ascii.Rotate0, nil
	}

	stream := probe.Streams[0]
	if stream.Tags.Rotate != "" {
		deg, err := strconv.Atoi(stream.Tags.Rotate)
		if err != nil {
			return 0, fmt.Errorf("invalid rotate tag %q", stream.Tags.Rotate)
		}
		return img2ascii.NormalizeRotation(deg)
	}
	for _, sd := range stream.SideData {
		if sd.Rotation != nil {
			return img2ascii.NormalizeRotation(-int(math.Round(*sd.Rotation)))
		}
	}
	return img2ascii.Rotate0, nil
}

// HasAudio reports whether the file at path contains an audio stream.
func (p FFprobe) HasAudio(ctx context.Context, path string) (bool, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "json",
		path)
	if err != nil {
		return false, fmt.Errorf("failed to probe audio: %w", err)
	}
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return false, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return len(probe.Streams) > 0, nil
}
