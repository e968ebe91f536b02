package export

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Format is one entry of the output preference list. Encoder names the
// ffmpeg encoder; it is empty for formats encoded in process.
type Format struct {
	Name    string
	MIME    string
	Ext     string
	Encoder string
}

var (
	WebMVP9 = Format{Name: "webm-vp9", MIME: "video/webm; codecs=vp9", Ext: "webm", Encoder: "libvpx-vp9"}
	WebMVP8 = Format{Name: "webm-vp8", MIME: "video/webm; codecs=vp8", Ext: "webm", Encoder: "libvpx"}
	MP4H264 = Format{Name: "mp4-h264", MIME: "video/mp4", Ext: "mp4", Encoder: "libx264"}
	GIF     = Format{Name: "gif", MIME: "image/gif", Ext: "gif"}
)

var knownFormats = []Format{WebMVP9, WebMVP8, MP4H264, GIF}

// DefaultFormats is the preference order: royalty-free codecs first.
func DefaultFormats() []Format {
	out := make([]Format, len(knownFormats))
	copy(out, knownFormats)
	return out
}

func LookupFormat(name string) (Format, bool) {
	for _, f := range knownFormats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// ParseFormats resolves a preference list by name.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, ok := LookupFormat(strings.TrimSpace(n))
		if !ok {
			return nil, fmt.Errorf("export: unknown format %q", n)
		}
		out = append(out, f)
	}
	return out, nil
}

// Capabilities answers whether a format can be encoded here.
type Capabilities interface {
	Supports(f Format) bool
}

// SelectFormat returns the first format in prefs that caps supports.
func SelectFormat(prefs []Format, caps Capabilities) (Format, error) {
	tried := make([]string, 0, len(prefs))
	for _, f := range prefs {
		if caps.Supports(f) {
			return f, nil
		}
		tried = append(tried, f.Name)
	}
	return Format{}, &UnsupportedEncoderError{Tried: tried}
}

// Builtin supports the formats encoded without external tools.
type Builtin struct{}

func (Builtin) Supports(f Format) bool {
	return f.Encoder == "" && f.Ext == "gif"
}

// AnyOf supports a format if any member does.
type AnyOf []Capabilities

func (a AnyOf) Supports(f Format) bool {
	for _, c := range a {
		if c.Supports(f) {
			return true
		}
	}
	return false
}

// FFmpegCapabilities lists the encoders of an ffmpeg binary. The binary is
// queried once, on first use.
type FFmpegCapabilities struct {
	Path    string
	Timeout time.Duration

	once     sync.Once
	encoders map[string]bool
	err      error
}

func NewFFmpegCapabilities(path string) *FFmpegCapabilities {
	return &FFmpegCapabilities{Path: path, Timeout: 5 * time.Second}
}

func (c *FFmpegCapabilities) Supports(f Format) bool {
	if f.Encoder == "" {
		return false
	}
	c.once.Do(c.probe)
	return c.encoders[f.Encoder]
}

// Err reports why probing failed, if it did.
func (c *FFmpegCapabilities) Err() error {
	c.once.Do(c.probe)
	return c.err
}

func (c *FFmpegCapabilities) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.Path, "-hide_banner", "-encoders").Output()
	if err != nil {
		c.err = fmt.Errorf("export: query %s encoders: %w", c.Path, err)
		return
	}
	c.encoders = parseEncoders(out)
}

// parseEncoders reads the table printed by ffmpeg -encoders: a legend, a
// dashed separator, then one "FLAGS name description" line per encoder.
func parseEncoders(out []byte) map[string]bool {
	encoders := make(map[string]bool)
	inTable := false

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !inTable {
			inTable = strings.HasPrefix(line, "---")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}
