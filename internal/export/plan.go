package export

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/params"
)

const (
	DefaultMaxFrames = 1800
	DefaultFPS       = 60
)

// Tier selects output resolution and bitrate. It is supplied by the caller
// instead of being guessed from the runtime environment.
type Tier string

const (
	Standard    Tier = "standard"
	Constrained Tier = "constrained"
)

func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Standard, "":
		return Standard, nil
	case Constrained:
		return Constrained, nil
	}
	return "", fmt.Errorf("export: unknown tier %q (want %s or %s)", s, Standard, Constrained)
}

// Resolution is the side of the square output in pixels.
func (t Tier) Resolution() int {
	if t == Constrained {
		return 1080
	}
	return 1440
}

// Bitrate is the target video bitrate in bits per second.
func (t Tier) Bitrate() int {
	if t == Constrained {
		return 8_000_000
	}
	return 15_000_000
}

// Plan fixes everything a job needs before the first frame is drawn.
type Plan struct {
	Tier       Tier
	Resolution int
	Bitrate    int
	Scale      float64

	// NaturalFrames is the number of live ticks in one full loop. Frames
	// is that count capped at the configured maximum, and Step is the time
	// advance per captured frame so that Frames steps still cover one loop.
	NaturalFrames int
	Frames        int
	Step          float64

	FPS      int
	Duration time.Duration
}

func NewPlan(p params.Parameters, tier Tier, maxFrames, fps int) Plan {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	if fps <= 0 {
		fps = DefaultFPS
	}

	res := tier.Resolution()
	natural := p.NaturalPeriodFrames()
	frames := min(natural, maxFrames)
	step := 0.0
	if frames > 0 {
		step = p.TimeStep() * float64(natural) / float64(frames)
	}

	return Plan{
		Tier:          tier,
		Resolution:    res,
		Bitrate:       tier.Bitrate(),
		Scale:         float64(res) / contour.LogicalSize,
		NaturalFrames: natural,
		Frames:        frames,
		Step:          step,
		FPS:           fps,
		Duration:      time.Duration(frames) * time.Second / time.Duration(fps),
	}
}

// Time is the export clock at captured frame i.
func (pl Plan) Time(i int) float64 {
	return float64(i) * pl.Step
}

// Seconds is the rounded clip length shown to the user.
func (pl Plan) Seconds() int {
	if pl.FPS <= 0 {
		return 0
	}
	return int(math.Round(float64(pl.Frames) / float64(pl.FPS)))
}

// FileName is the artifact name for a job finished at now.
func (pl Plan) FileName(f Format, now time.Time) string {
	return fmt.Sprintf("morphing-contours-%dp-%d.%s", pl.Resolution, now.UnixMilli(), f.Ext)
}
