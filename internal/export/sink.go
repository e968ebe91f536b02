package export

import "image"

// FrameSink consumes painted frames in order and produces the encoded
// artifact. A sink is used by one goroutine at a time and must not keep a
// submitted image after SubmitFrame returns.
type FrameSink interface {
	SubmitFrame(img *image.RGBA) error
	Finalize() ([]byte, error)
	// Abort discards everything written so far. It is safe to call after
	// Finalize or more than once.
	Abort()
}

// SinkFactory opens a sink for one job.
type SinkFactory func(f Format, plan Plan) (FrameSink, error)

type SinkOptions struct {
	FFmpeg       string
	GIFMaxSize   int
	GIFFrameStep int
}

// NewSinkFactory returns a factory that encodes built-in formats in
// process and everything else through ffmpeg.
func NewSinkFactory(opts SinkOptions) SinkFactory {
	return func(f Format, plan Plan) (FrameSink, error) {
		if f.Encoder == "" {
			return NewGIFSink(opts.GIFMaxSize, opts.GIFFrameStep, plan.FPS), nil
		}
		return StartFFmpeg(opts.FFmpeg, f, plan)
	}
}
