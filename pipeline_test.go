package img2ascii

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/wbrown/img2ascii/imageutil"
)

// sliceSource serves frames from memory. onNext runs before frame i is
// returned; failAt makes Next fail at that index.
type sliceSource struct {
	frames []*imageutil.RGBImage
	next   int
	onNext func(i int)
	failAt int
}

func (s *sliceSource) Next() (*imageutil.RGBImage, error) {
	if s.failAt > 0 && s.next == s.failAt {
		return nil, errors.New("corrupt packet")
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	i := s.next
	s.next++
	if s.onNext != nil {
		s.onNext(i)
	}
	return s.frames[i], nil
}

type collectSink struct {
	frames []*imageutil.RGBImage
	failAt int
}

func (s *collectSink) WriteFrame(frame *imageutil.RGBImage) error {
	if s.failAt > 0 && len(s.frames) == s.failAt {
		return errors.New("disk full")
	}
	s.frames = append(s.frames, frame)
	return nil
}

// levelFrames returns n solid frames, frame i at gray level 25*i.
func levelFrames(n, width, height int) []*imageutil.RGBImage {
	frames := make([]*imageutil.RGBImage, n)
	for i := range frames {
		v := uint8(25 * (i % 11))
		frames[i] = imageutil.CreateSolidImage(width, height, imageutil.RGB{R: v, G: v, B: v})
	}
	return frames
}

func pipelineCompositor(t *testing.T) *Compositor {
	p := mustStampPalette(t, DenseRamp(), 2, 2)
	return mustCompositor(t, p, 8, 4)
}

func TestPipelineOrderedOutput(t *testing.T) {
	c := pipelineCompositor(t)
	frames := levelFrames(40, 8, 4)

	for _, workers := range []int{1, 2, 8} {
		src := &sliceSource{frames: frames}
		sink := &collectSink{}
		progress := 0
		res, err := NewPipeline(c,
			WithWorkers(workers),
			WithProgress(func(done int) { progress = done }),
		).Run(context.Background(), src, sink)
		if err != nil {
			t.Fatalf("workers=%d: Run failed: %v", workers, err)
		}
		if res.Frames != len(frames) || res.Interrupted {
			t.Errorf("workers=%d: expected %d frames uninterrupted, got %+v",
				workers, len(frames), res)
		}
		if progress != len(frames) {
			t.Errorf("workers=%d: expected progress %d, got %d", workers, len(frames), progress)
		}
		for i, out := range sink.frames {
			want, _ := c.Compose(frames[i])
			if !out.Equal(want) {
				t.Fatalf("workers=%d: frame %d out of order or wrong", workers, i)
			}
		}
	}
}

func TestPipelineInterruptKeepsPrefix(t *testing.T) {
	c := pipelineCompositor(t)
	frames := levelFrames(30, 8, 4)
	const keep = 12

	for _, workers := range []int{1, 4} {
		ctx, cancel := context.WithCancel(context.Background())
		src := &sliceSource{frames: frames, onNext: func(i int) {
			if i == keep-1 {
				cancel()
			}
		}}
		sink := &collectSink{}

		res, err := NewPipeline(c, WithWorkers(workers)).Run(ctx, src, sink)
		cancel()
		if err != nil {
			t.Fatalf("workers=%d: interruption should not be an error, got %v", workers, err)
		}
		if !res.Interrupted {
			t.Errorf("workers=%d: expected Interrupted", workers)
		}
		if res.Frames != keep || len(sink.frames) != keep {
			t.Errorf("workers=%d: expected %d frames, got %d (sink %d)",
				workers, keep, res.Frames, len(sink.frames))
		}
		for i, out := range sink.frames {
			want, _ := c.Compose(frames[i])
			if !out.Equal(want) {
				t.Fatalf("workers=%d: frame %d is not source frame %d", workers, i, i)
			}
		}
	}
}

func TestPipelineSourceError(t *testing.T) {
	c := pipelineCompositor(t)
	for _, workers := range []int{1, 3} {
		src := &sliceSource{frames: levelFrames(10, 8, 4), failAt: 4}
		sink := &collectSink{}
		res, err := NewPipeline(c, WithWorkers(workers)).Run(context.Background(), src, sink)
		if err == nil {
			t.Fatalf("workers=%d: expected decode error", workers)
		}
		if res.Frames != 4 {
			t.Errorf("workers=%d: expected 4 frames before the error, got %d", workers, res.Frames)
		}
	}
}

func TestPipelineSinkError(t *testing.T) {
	c := pipelineCompositor(t)
	for _, workers := range []int{1, 3} {
		src := &sliceSource{frames: levelFrames(20, 8, 4)}
		sink := &collectSink{failAt: 5}
		res, err := NewPipeline(c, WithWorkers(workers)).Run(context.Background(), src, sink)
		if err == nil {
			t.Fatalf("workers=%d: expected write error", workers)
		}
		if res.Frames != 5 {
			t.Errorf("workers=%d: expected 5 frames written, got %d", workers, res.Frames)
		}
	}
}

func TestPipelinePreprocess(t *testing.T) {
	c := pipelineCompositor(t)
	// Source frames are twice the grid's pixel size; halving them first
	// must not change the output size.
	src := &sliceSource{frames: levelFrames(3, 16, 8)}
	sink := &collectSink{}
	calls := 0
	_, err := NewPipeline(c, WithPreprocess(func(f *imageutil.RGBImage) *imageutil.RGBImage {
		calls++
		return imageutil.ScaleBy(f, 0.5)
	})).Run(context.Background(), src, sink)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("Expected preprocess per frame, got %d calls", calls)
	}
	w, h := c.OutputSize()
	for _, f := range sink.frames {
		if f.Width() != w || f.Height() != h {
			t.Errorf("Expected %dx%d output, got %dx%d", w, h, f.Width(), f.Height())
		}
	}
}

func TestPipelineEmptySource(t *testing.T) {
	c := pipelineCompositor(t)
	res, err := NewPipeline(c, WithWorkers(4)).Run(context.Background(), &sliceSource{}, &collectSink{})
	if err != nil || res.Frames != 0 || res.Interrupted {
		t.Errorf("Expected zero frames and no error, got %+v, %v", res, err)
	}
}
