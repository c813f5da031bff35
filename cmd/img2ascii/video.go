package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/media"
)

// runVideo renders cmd.Input frame by frame. A nil probe reads rotation
// with the configured ffprobe.
func runVideo(ctx context.Context, out *console, cmd *VideoCmd, probe media.RotationProbe) error {
	cfg, err := settings(cmd.RenderOptions)
	if err != nil {
		return err
	}
	if cmd.Workers != nil {
		cfg.Workers = *cmd.Workers
	}
	if cmd.Codec != "" {
		cfg.Codec = cmd.Codec
	}
	if cmd.NoAudio {
		cfg.Audio = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	palette, err := buildPalette(out, cfg)
	if err != nil {
		return err
	}

	src, err := media.OpenVideo(cmd.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	ffprobe := media.FFprobe{Binary: cfg.FFprobe}
	if probe == nil {
		probe = ffprobe.Rotation
	}
	w, h := src.Size()
	rotation, grid, err := videoGrid(ctx, out, probe, cmd.Input, w, h, cfg.Scale, palette)
	if err != nil {
		return err
	}
	src.SetRotation(rotation)

	c, err := img2ascii.NewCompositor(palette, grid)
	if err != nil {
		return err
	}
	ow, oh := c.OutputSize()

	output := cmd.Output
	if output == "" {
		output = defaultOutput(cmd.Input, ".mp4")
	}
	out.Printf("Video: %dx%d at %.2f fps, rotation %d, %d frames\n",
		w, h, src.FPS(), rotation, src.FrameCount())
	out.Printf("Output: %s, %dx%d glyphs, %dx%d pixels\n", output, grid.Cols, grid.Rows, ow, oh)

	videoPath := output
	if cfg.Audio {
		tmp, err := os.CreateTemp(filepath.Dir(output), ".img2ascii-*"+filepath.Ext(output))
		if err != nil {
			return fmt.Errorf("failed to create temporary video: %w", err)
		}
		tmp.Close()
		videoPath = tmp.Name()
		defer os.Remove(videoPath)
	}

	sink, err := media.CreateVideo(videoPath, cfg.Codec, src.FPS(), ow, oh)
	if err != nil {
		return err
	}

	opts := []img2ascii.PipelineOption{img2ascii.WithWorkers(cfg.Workers)}
	if cfg.Scale != 1.0 {
		scale := cfg.Scale
		opts = append(opts, img2ascii.WithPreprocess(func(f *imageutil.RGBImage) *imageutil.RGBImage {
			return imageutil.ScaleBy(f, scale)
		}))
	}
	bar := out.progress(src.FrameCount())
	opts = append(opts, img2ascii.WithProgress(bar.Update))

	start := time.Now()
	res, runErr := img2ascii.NewPipeline(c, opts...).Run(ctx, src, sink)
	bar.Done()
	if err := finishRun(res, runErr, sink, videoPath); err != nil {
		return err
	}
	if res.Interrupted {
		out.Warnf("interrupted, keeping the first %d frames\n", res.Frames)
	}
	elapsed := time.Since(start)
	out.Printf("Rendered %d frames in %v (%.1f fps)\n", res.Frames,
		elapsed.Round(time.Millisecond), float64(res.Frames)/elapsed.Seconds())

	if cfg.Audio {
		// The run context may already be cancelled; muxing finalizes the
		// frames produced so far.
		err := attachAudio(context.Background(), out, cfg.FFmpeg, ffprobe, cmd.Input, videoPath, output,
			media.AudioDuration(res.Frames, src.FPS()))
		if err != nil {
			if errors.Is(err, errNoAudio) {
				out.Printf("Source has no audio\n")
			} else {
				out.Warnf("%v; saving video without audio\n", err)
			}
			if err := os.Rename(videoPath, output); err != nil {
				return fmt.Errorf("failed to move %s to %s: %w", videoPath, output, err)
			}
		}
	}
	out.Printf("Saved %s\n", output)
	return nil
}

// videoGrid probes the display rotation of input and computes the grid
// for its w x h coded frames after scaling. A failed probe is reported
// and treated as no rotation.
func videoGrid(ctx context.Context, out *console, probe media.RotationProbe, input string,
	w, h int, scale float64, palette *img2ascii.GlyphPalette) (img2ascii.Rotation, img2ascii.Grid, error) {
	rotation, err := probe(ctx, input)
	if err != nil {
		out.Warnf("%v; assuming no rotation\n", err)
		rotation = img2ascii.Rotate0
	}
	sw, sh := imageutil.ScaledSize(w, h, scale)
	grid, err := img2ascii.ComputeGrid(sw, sh, rotation, palette)
	if err != nil {
		return rotation, img2ascii.Grid{}, err
	}
	return rotation, grid, nil
}

// finishRun closes sink after a pipeline run. The file at path is
// removed unless the run succeeded with at least one frame.
func finishRun(res img2ascii.Result, runErr error, sink io.Closer, path string) error {
	closeErr := sink.Close()
	switch {
	case runErr != nil:
		os.Remove(path)
		return runErr
	case closeErr != nil:
		os.Remove(path)
		return fmt.Errorf("failed to finish %s: %w", path, closeErr)
	case res.Frames == 0:
		os.Remove(path)
		return img2ascii.ErrNoFrames
	}
	return nil
}

var errNoAudio = errors.New("no audio stream")

// attachAudio muxes the source audio into output. It returns errNoAudio
// when the source has no audio so the caller keeps the silent render.
func attachAudio(ctx context.Context, out *console, ffmpeg string, probe media.FFprobe,
	input, video, output string, seconds float64) error {
	has, err := probe.HasAudio(ctx, input)
	if err != nil {
		return err
	}
	if !has {
		return errNoAudio
	}
	out.Printf("Copying %.2fs of audio\n", seconds)
	return media.Muxer{Binary: ffmpeg}.AttachAudio(ctx, video, input, output, seconds)
}
