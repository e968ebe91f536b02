package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FFmpegSink pipes raw RGBA frames into an ffmpeg process that encodes to a
// temporary file.
type FFmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	dir    string
	out    string
	w, h   int

	done    chan struct{}
	waitErr error
	closed  bool
}

func ffmpegArgs(f Format, plan Plan, out string) []string {
	size := fmt.Sprintf("%dx%d", plan.Resolution, plan.Resolution)
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo", "-pix_fmt", "rgba", "-s", size, "-r", strconv.Itoa(plan.FPS),
		"-i", "-",
		"-c:v", f.Encoder, "-b:v", strconv.Itoa(plan.Bitrate), "-pix_fmt", "yuv420p",
	}
	if f.Ext == "mp4" {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, out)
}

// StartFFmpeg launches the encoder. The process runs until Finalize or
// Abort; if it exits early the next SubmitFrame reports why.
func StartFFmpeg(path string, f Format, plan Plan) (*FFmpegSink, error) {
	dir, err := os.MkdirTemp("", "morphcontours-")
	if err != nil {
		return nil, err
	}

	s := &FFmpegSink{
		dir:  dir,
		out:  filepath.Join(dir, "out."+f.Ext),
		w:    plan.Resolution,
		h:    plan.Resolution,
		done: make(chan struct{}),
	}
	s.cmd = exec.Command(path, ffmpegArgs(f, plan, s.out)...)
	s.cmd.Stderr = &s.stderr

	if s.stdin, err = s.cmd.StdinPipe(); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	if err := s.cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	go func() {
		s.waitErr = s.cmd.Wait()
		close(s.done)
	}()
	return s, nil
}

func (s *FFmpegSink) SubmitFrame(img *image.RGBA) error {
	select {
	case <-s.done:
		return s.exitError()
	default:
	}

	b := img.Bounds()
	if b.Dx() != s.w || b.Dy() != s.h {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), s.w, s.h)
	}

	var err error
	if img.Stride == 4*s.w {
		_, err = s.stdin.Write(img.Pix[:4*s.w*s.h])
	} else {
		for y := b.Min.Y; y < b.Max.Y && err == nil; y++ {
			i := img.PixOffset(b.Min.X, y)
			_, err = s.stdin.Write(img.Pix[i : i+4*s.w])
		}
	}
	if err == nil {
		return nil
	}

	// A broken pipe means the process died; prefer its own message.
	select {
	case <-s.done:
		return s.exitError()
	case <-time.After(time.Second):
		return err
	}
}

func (s *FFmpegSink) Finalize() ([]byte, error) {
	if s.closed {
		return nil, errors.New("ffmpeg sink already closed")
	}
	s.closed = true
	defer os.RemoveAll(s.dir)

	s.stdin.Close()
	<-s.done
	if s.waitErr != nil {
		return nil, s.exitError()
	}
	return os.ReadFile(s.out)
}

func (s *FFmpegSink) Abort() {
	if s.closed {
		return
	}
	s.closed = true

	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	<-s.done
	os.RemoveAll(s.dir)
}

// exitError must only be called after done is closed.
func (s *FFmpegSink) exitError() error {
	msg := strings.TrimSpace(s.stderr.String())
	if s.waitErr == nil {
		if msg == "" {
			return errors.New("ffmpeg exited before the last frame")
		}
		return fmt.Errorf("ffmpeg exited before the last frame: %s", msg)
	}
	if msg == "" {
		return fmt.Errorf("ffmpeg: %w", s.waitErr)
	}
	return fmt.Errorf("ffmpeg: %w: %s", s.waitErr, msg)
}
