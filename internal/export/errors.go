package export

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedEncoder indicates that none of the preferred formats can
	// be encoded on this machine.
	ErrUnsupportedEncoder = errors.New("export: no supported video format")

	// ErrEncoderRuntime indicates a sink failure after recording started.
	ErrEncoderRuntime = errors.New("export: encoder failed")

	// ErrBusy is returned by Start while another export is in flight.
	ErrBusy = errors.New("export: an export is already in progress")

	// ErrCanceled indicates the job was stopped by Cancel or its context.
	ErrCanceled = errors.New("export: canceled")
)

// UnsupportedEncoderError lists the formats that were queried.
type UnsupportedEncoderError struct {
	Tried []string
}

func (e *UnsupportedEncoderError) Error() string {
	if len(e.Tried) == 0 {
		return "export: no video formats configured"
	}
	return fmt.Sprintf("export: no supported video format found (tried %s)", strings.Join(e.Tried, ", "))
}

func (e *UnsupportedEncoderError) Unwrap() error {
	return ErrUnsupportedEncoder
}

// EncoderRuntimeError wraps a sink error with the frame it happened on.
// Frame is -1 when the failure surfaced while finalizing.
type EncoderRuntimeError struct {
	Frame int
	Err   error
}

func (e *EncoderRuntimeError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("export: encoder failed while finalizing: %v", e.Err)
	}
	return fmt.Sprintf("export: encoder failed at frame %d: %v", e.Frame, e.Err)
}

func (e *EncoderRuntimeError) Unwrap() []error {
	return []error{ErrEncoderRuntime, e.Err}
}
