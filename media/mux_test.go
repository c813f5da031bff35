package media

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestAudioDuration(t *testing.T) {
	tests := []struct {
		frames int
		fps    float64
		want   float64
	}{
		{300, 30, 10},
		{12, 24, 0.5},
		{0, 30, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := AudioDuration(tt.frames, tt.fps); got != tt.want {
			t.Errorf("AudioDuration(%d, %v) = %v, want %v", tt.frames, tt.fps, got, tt.want)
		}
	}
}

func TestAttachAudioArgs(t *testing.T) {
	runner := &fakeRunner{}
	m := Muxer{Runner: runner}
	if err := m.AttachAudio(context.Background(), "video.mp4", "source.mov", "out.mp4", 12.5); err != nil {
		t.Fatal(err)
	}
	if runner.name != "ffmpeg" {
		t.Errorf("Expected ffmpeg, got %s", runner.name)
	}
	want := "-y -v error -i video.mp4 -i source.mov -map 0:v:0 -map 1:a:0? -c:v copy -c:a aac -t 12.500 out.mp4"
	if got := strings.Join(runner.args, " "); got != want {
		t.Errorf("Expected args\n  %s\ngot\n  %s", want, got)
	}
}

func TestAttachAudioCodec(t *testing.T) {
	runner := &fakeRunner{}
	m := Muxer{Binary: "ffmpeg6", Runner: runner, AudioCodec: "libopus"}
	if err := m.AttachAudio(context.Background(), "v.mp4", "s.mp4", "o.mp4", 1); err != nil {
		t.Fatal(err)
	}
	if runner.name != "ffmpeg6" || !strings.Contains(strings.Join(runner.args, " "), "-c:a libopus") {
		t.Errorf("Expected ffmpeg6 with libopus, got %s %v", runner.name, runner.args)
	}
}

func TestAttachAudioErrors(t *testing.T) {
	m := Muxer{Runner: &fakeRunner{}}
	if err := m.AttachAudio(context.Background(), "v", "s", "o", 0); err == nil {
		t.Error("Expected error for zero duration")
	}

	m = Muxer{Runner: &fakeRunner{err: errors.New("exit status 1")}}
	if err := m.AttachAudio(context.Background(), "v", "s", "o", 2); err == nil {
		t.Error("Expected error when ffmpeg fails")
	}
}
