package params

import (
	"math"
)

const (
	DefaultTheme         = "Ocean Currents"
	DefaultShapeCount    = 3
	DefaultDetailLevel   = 0.6
	DefaultSize          = 1.5
	DefaultSpread        = 1.0
	DefaultLineThickness = 1.0
	DefaultTimeIncrement = 0.003
)

// Parameters is one immutable snapshot of the animation and appearance
// controls. Edit it through the value-returning methods.
type Parameters struct {
	Theme string `yaml:"theme" json:"theme"`

	ShapeCount  int     `yaml:"shapeCount" json:"shapeCount"`
	DetailLevel float64 `yaml:"detailLevel" json:"detailLevel"`
	Size        float64 `yaml:"size" json:"size"`
	Spread      float64 `yaml:"spread" json:"spread"`

	BackgroundColor  Color   `yaml:"backgroundColor" json:"backgroundColor"`
	LineColor        Color   `yaml:"lineColor" json:"lineColor"`
	LineTransparency float64 `yaml:"lineTransparency" json:"lineTransparency"`
	LineThickness    float64 `yaml:"lineThickness" json:"lineThickness"`

	AnimationSpeed    float64 `yaml:"animationSpeed" json:"animationSpeed"`
	FourDInfluence    float64 `yaml:"fourDInfluence" json:"fourDInfluence"`
	MorphingIntensity float64 `yaml:"morphingIntensity" json:"morphingIntensity"`
	TimeIncrement     float64 `yaml:"timeIncrement" json:"timeIncrement"`
}

// Defaults returns the initial parameter set: the "Ocean Currents" theme on
// top of the default shape controls.
func Defaults() Parameters {
	p := Parameters{
		LineThickness: DefaultLineThickness,
		TimeIncrement: DefaultTimeIncrement,
	}
	return p.Reset()
}

// Reset restores the default theme and shape controls. Line thickness and
// the time increment are left as they are.
func (p Parameters) Reset() Parameters {
	p = p.withTheme(DefaultTheme, themes[DefaultTheme])
	p.ShapeCount = DefaultShapeCount
	p.DetailLevel = DefaultDetailLevel
	p.Size = DefaultSize
	p.Spread = DefaultSpread
	return p
}

// ContourCount is the number of contours per shape.
func (p Parameters) ContourCount() int {
	return int(math.Floor(10 + p.DetailLevel*30))
}

// PointCount is the number of angular steps per contour; the closing point
// makes it PointCount()+1 vertices.
func (p Parameters) PointCount() int {
	return int(math.Floor(50 + p.DetailLevel*100))
}

// TimeStep is the time advance of one display frame.
func (p Parameters) TimeStep() float64 {
	return p.TimeIncrement * p.AnimationSpeed
}

// NaturalPeriodFrames is the number of frames in one 2π loop of the
// animation phase, or 0 when the animation is frozen.
func (p Parameters) NaturalPeriodFrames() int {
	step := p.TimeStep()
	if step <= 0 || math.IsNaN(step) {
		return 0
	}
	return int(math.Ceil(2 * math.Pi / step))
}

// Validate reports the first field outside its range.
func (p Parameters) Validate() error {
	for i := range fields {
		f := &fields[i]
		if err := f.check(f.get(&p)); err != nil {
			return err
		}
	}
	return nil
}
