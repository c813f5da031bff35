package media

import (
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

// captureOrientationAuto is CAP_PROP_ORIENTATION_AUTO. OpenCV would
// otherwise apply the display matrix itself on some backends and not on
// others; rotation is applied explicitly instead.
const captureOrientationAuto = gocv.VideoCaptureProperties(49)

// VideoSource decodes the frames of a video file as RGB images.
type VideoSource struct {
	path     string
	capture  *gocv.VideoCapture
	frame    gocv.Mat
	rotated  gocv.Mat
	rgb      gocv.Mat
	rotation img2ascii.Rotation
	fps      float64
	count    int
	width    int
	height   int
}

// OpenVideo opens the video at path for decoding.
func OpenVideo(path string) (*VideoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}
	capture.Set(captureOrientationAuto, 0)

	s := &VideoSource{
		path:    path,
		capture: capture,
		frame:   gocv.NewMat(),
		rotated: gocv.NewMat(),
		rgb:     gocv.NewMat(),
		fps:     capture.Get(gocv.VideoCaptureFPS),
		count:   int(capture.Get(gocv.VideoCaptureFrameCount)),
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}
	if s.fps <= 0 {
		s.Close()
		return nil, fmt.Errorf("video %s reports no frame rate", path)
	}
	return s, nil
}

// FPS returns the frame rate reported by the container.
func (s *VideoSource) FPS() float64 { return s.fps }

// FrameCount returns the container's frame count estimate. It may be zero
// or inexact for some formats.
func (s *VideoSource) FrameCount() int { return s.count }

// Size returns the coded frame size, before rotation.
func (s *VideoSource) Size() (width, height int) { return s.width, s.height }

// Rotation returns the rotation applied to decoded frames.
func (s *VideoSource) Rotation() img2ascii.Rotation { return s.rotation }

// SetRotation makes Next return frames rotated clockwise by r.
func (s *VideoSource) SetRotation(r img2ascii.Rotation) {
	s.rotation = r
}

// DisplaySize returns the frame size after rotation.
func (s *VideoSource) DisplaySize() (width, height int) {
	if s.rotation.SwapsAxes() {
		return s.height, s.width
	}
	return s.width, s.height
}

// Next decodes the next frame. It returns io.EOF after the last frame.
func (s *VideoSource) Next() (*imageutil.RGBImage, error) {
	if !s.capture.Read(&s.frame) || s.frame.Empty() {
		return nil, io.EOF
	}

	src := s.frame
	if flag, ok := rotateFlag(s.rotation); ok {
		gocv.Rotate(s.frame, &s.rotated, flag)
		src = s.rotated
	}
	gocv.CvtColor(src, &s.rgb, gocv.ColorBGRToRGB)
	return matToRGB(s.rgb)
}

// Close releases the decoder.
func (s *VideoSource) Close() error {
	s.frame.Close()
	s.rotated.Close()
	s.rgb.Close()
	return s.capture.Close()
}

func rotateFlag(r img2ascii.Rotation) (gocv.RotateFlag, bool) {
	switch r {
	case img2ascii.Rotate90:
		return gocv.Rotate90Clockwise, true
	case img2ascii.Rotate180:
		return gocv.Rotate180Clockwise, true
	case img2ascii.Rotate270:
		return gocv.Rotate90CounterClockwise, true
	}
	return 0, false
}

// matToRGB copies a continuous 3-channel Mat into a new RGBImage.
func matToRGB(m gocv.Mat) (*imageutil.RGBImage, error) {
	if m.Channels() != 3 {
		return nil, fmt.Errorf("expected 3-channel frame, got %d channels", m.Channels())
	}
	img := imageutil.NewRGBImage(m.Cols(), m.Rows())
	data := m.ToBytes()
	if len(data) != len(img.Pix) {
		return nil, fmt.Errorf("frame buffer has %d bytes, want %d", len(data), len(img.Pix))
	}
	copy(img.Pix, data)
	return img, nil
}

// VideoSink encodes RGB frames into a video file.
type VideoSink struct {
	writer *gocv.VideoWriter
	bgr    gocv.Mat
	width  int
	height int
	frames int
}

// DefaultCodec is the FourCC used when none is configured.
const DefaultCodec = "mp4v"

// ErrFrameSize is returned when a frame does not match the sink's size.
var ErrFrameSize = errors.New("frame size does not match video")

// CreateVideo opens path for writing width x height frames at fps.
func CreateVideo(path, codec string, fps float64, width, height int) (*VideoSink, error) {
	if codec == "" {
		codec = DefaultCodec
	}
	if len(codec) != 4 {
		return nil, fmt.Errorf("codec %q is not a FourCC", codec)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %v", fps)
	}
	writer, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create video %s: %w", path, err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("failed to create video %s with codec %s", path, codec)
	}
	return &VideoSink{
		writer: writer,
		bgr:    gocv.NewMat(),
		width:  width,
		height: height,
	}, nil
}

// WriteFrame encodes one frame.
func (s *VideoSink) WriteFrame(frame *imageutil.RGBImage) error {
	if frame.Width() != s.width || frame.Height() != s.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize,
			frame.Width(), frame.Height(), s.width, s.height)
	}
	mat, err := gocv.NewMatFromBytes(s.height, s.width, gocv.MatTypeCV8UC3, frame.Pix[:s.height*s.width*3])
	if err != nil {
		return fmt.Errorf("failed to wrap frame: %w", err)
	}
	defer mat.Close()

	gocv.CvtColor(mat, &s.bgr, gocv.ColorRGBToBGR)
	if err := s.writer.Write(s.bgr); err != nil {
		return err
	}
	s.frames++
	return nil
}

// Frames returns how many frames have been written.
func (s *VideoSink) Frames() int { return s.frames }

// Close flushes and closes the file.
func (s *VideoSink) Close() error {
	s.bgr.Close()
	return s.writer.Close()
}
