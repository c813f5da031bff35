package img2ascii

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/wbrown/img2ascii/imageutil"
)

// FrameSource yields decoded frames in display order. Next returns
// io.EOF after the last frame.
type FrameSource interface {
	Next() (*imageutil.RGBImage, error)
}

// FrameSink consumes composed frames in display order.
type FrameSink interface {
	WriteFrame(frame *imageutil.RGBImage) error
}

// Result summarizes a pipeline run.
type Result struct {
	// Frames is the number of composed frames written to the sink. They
	// are always the first Frames frames of the source, in order.
	Frames int
	// Interrupted is set when the context was cancelled before the
	// source was exhausted.
	Interrupted bool
}

// Pipeline streams frames from a source through a Compositor into a sink.
type Pipeline struct {
	compositor *Compositor
	workers    int
	preprocess func(*imageutil.RGBImage) *imageutil.RGBImage
	progress   func(done int)
}

// PipelineOption is a functional option for configuring a Pipeline.
type PipelineOption func(*Pipeline)

// WithWorkers sets how many frames are composed concurrently. Values
// below 2 compose frames one at a time on the calling goroutine.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithPreprocess sets a transform applied to every source frame before
// composition, such as the --scale resize.
func WithPreprocess(fn func(*imageutil.RGBImage) *imageutil.RGBImage) PipelineOption {
	return func(p *Pipeline) {
		p.preprocess = fn
	}
}

// WithProgress sets a callback invoked after each frame is written with
// the running frame count. It is always called from the goroutine
// running Run.
func WithProgress(fn func(done int)) PipelineOption {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// NewPipeline creates a pipeline around c.
func NewPipeline(c *Compositor, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{compositor: c, workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type frameJob struct {
	seq   int
	frame *imageutil.RGBImage
	err   error
}

func (p *Pipeline) compose(frame *imageutil.RGBImage) (*imageutil.RGBImage, error) {
	if p.preprocess != nil {
		frame = p.preprocess(frame)
	}
	return p.compositor.Compose(frame)
}

func (p *Pipeline) written(n int) {
	if p.progress != nil {
		p.progress(n)
	}
}

// Run composes frames until the source is exhausted, the context is
// cancelled, or an error occurs. Cancellation is not an error: frames
// already composed are written and the result is marked Interrupted. A
// source or sink error stops the run and is returned together with the
// count of frames written before it.
func (p *Pipeline) Run(ctx context.Context, src FrameSource, sink FrameSink) (Result, error) {
	if p.workers < 2 {
		return p.runSequential(ctx, src, sink)
	}
	return p.runParallel(ctx, src, sink)
}

func (p *Pipeline) runSequential(ctx context.Context, src FrameSource, sink FrameSink) (Result, error) {
	var res Result
	for {
		if ctx.Err() != nil {
			res.Interrupted = true
			return res, nil
		}
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("failed to read frame %d: %w", res.Frames, err)
		}
		out, err := p.compose(frame)
		if err != nil {
			return res, fmt.Errorf("failed to compose frame %d: %w", res.Frames, err)
		}
		if err := sink.WriteFrame(out); err != nil {
			return res, fmt.Errorf("failed to write frame %d: %w", res.Frames, err)
		}
		res.Frames++
		p.written(res.Frames)
	}
}

// runParallel reads frames on one goroutine, composes them on
// p.workers goroutines and writes them back in source order.
func (p *Pipeline) runParallel(ctx context.Context, src FrameSource, sink FrameSink) (Result, error) {
	jobs := make(chan frameJob, p.workers)
	results := make(chan frameJob, p.workers)
	stop := make(chan struct{})

	var readErr error
	var exhausted bool
	go func() {
		defer close(jobs)
		for seq := 0; ; seq++ {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			default:
			}
			frame, err := src.Next()
			if errors.Is(err, io.EOF) {
				exhausted = true
				return
			}
			if err != nil {
				readErr = fmt.Errorf("failed to read frame %d: %w", seq, err)
				return
			}
			// Frames already decoded are composed even after cancellation.
			select {
			case jobs <- frameJob{seq: seq, frame: frame}:
			case <-stop:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				job.frame, job.err = p.compose(job.frame)
				results <- job
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var res Result
	var runErr error
	pending := make(map[int]frameJob)
	for job := range results {
		if runErr != nil {
			continue
		}
		pending[job.seq] = job
		for {
			next, ok := pending[res.Frames]
			if !ok {
				break
			}
			delete(pending, res.Frames)
			if next.err != nil {
				runErr = fmt.Errorf("failed to compose frame %d: %w", next.seq, next.err)
			} else if err := sink.WriteFrame(next.frame); err != nil {
				runErr = fmt.Errorf("failed to write frame %d: %w", next.seq, err)
			}
			if runErr != nil {
				close(stop)
				break
			}
			res.Frames++
			p.written(res.Frames)
		}
	}

	if runErr != nil {
		return res, runErr
	}
	if readErr != nil {
		return res, readErr
	}
	res.Interrupted = !exhausted && ctx.Err() != nil
	return res, nil
}
