package export

import (
	"bytes"
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"

	"github.com/disintegration/imaging"
)

// GIFSink encodes an animated GIF in memory. Frames are downscaled to fit
// maxSize and only every step-th frame is kept.
type GIFSink struct {
	maxSize int
	step    int
	delay   int
	n       int
	anim    gif.GIF
}

func NewGIFSink(maxSize, step, fps int) *GIFSink {
	if maxSize <= 0 {
		maxSize = 320
	}
	if step <= 0 {
		step = 1
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	// GIF delays are in hundredths of a second; browsers clamp below 2.
	delay := max(2, int(math.Round(100*float64(step)/float64(fps))))
	return &GIFSink{maxSize: maxSize, step: step, delay: delay}
}

func (s *GIFSink) SubmitFrame(img *image.RGBA) error {
	i := s.n
	s.n++
	if i%s.step != 0 {
		return nil
	}

	var src image.Image = img
	b := img.Bounds()
	if b.Dx() > s.maxSize || b.Dy() > s.maxSize {
		src = imaging.Fit(img, s.maxSize, s.maxSize, imaging.Lanczos)
	}

	sb := src.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, sb.Dx(), sb.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(frame, frame.Bounds(), src, sb.Min)

	s.anim.Image = append(s.anim.Image, frame)
	s.anim.Delay = append(s.anim.Delay, s.delay)
	return nil
}

// Frames is the number of frames kept so far.
func (s *GIFSink) Frames() int {
	return len(s.anim.Image)
}

func (s *GIFSink) Finalize() ([]byte, error) {
	if len(s.anim.Image) == 0 {
		return nil, errors.New("gif: no frames")
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, &s.anim); err != nil {
		return nil, err
	}
	s.anim = gif.GIF{}
	return buf.Bytes(), nil
}

func (s *GIFSink) Abort() {
	s.anim = gif.GIF{}
}
