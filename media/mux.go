package media

import (
	"context"
	"fmt"
	"strconv"
)

// Muxer combines a rendered video with the audio of its source using the
// ffmpeg tool.
type Muxer struct {
	// Binary is the ffmpeg executable, "ffmpeg" when empty.
	Binary string
	// Runner executes the command, ExecRunner when nil.
	Runner CommandRunner
	// AudioCodec is the output audio codec, "aac" when empty.
	AudioCodec string
}

// AudioDuration returns how many seconds of audio match frames frames at
// fps frames per second.
func AudioDuration(frames int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frames) / fps
}

func (m Muxer) args(video, audioSource, output string, seconds float64) []string {
	codec := m.AudioCodec
	if codec == "" {
		codec = "aac"
	}
	return []string{
		"-y",
		"-v", "error",
		"-i", video,
		"-i", audioSource,
		"-map", "0:v:0",
		"-map", "1:a:0?",
		"-c:v", "copy",
		"-c:a", codec,
		"-t", strconv.FormatFloat(seconds, 'f', 3, 64),
		output,
	}
}

// AttachAudio writes output with the video stream of video and the first
// audio stream of audioSource, both cut to seconds. The video stream is
// copied without re-encoding.
func (m Muxer) AttachAudio(ctx context.Context, video, audioSource, output string, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("invalid audio duration %v", seconds)
	}
	bin := m.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	runner := m.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	if _, err := runner.Output(ctx, bin, m.args(video, audioSource, output, seconds)...); err != nil {
		return fmt.Errorf("failed to attach audio: %w", err)
	}
	return nil
}
