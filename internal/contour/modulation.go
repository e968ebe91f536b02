package contour

import (
	"math"

	"github.com/san-kum/morphcontours/internal/params"
	"seehuhn.de/go/geom/vec"
)

// Modulation is the perturbation applied at one evaluation site.
type Modulation struct {
	// Radius is a relative radius change: r *= 1 + Radius.
	Radius float64
	// Shift is a position offset in logical (scale 1) units.
	Shift vec.Vec2
	// Opacity is added to the base line transparency.
	Opacity float64
}

// ComputeModulation evaluates the 4D-influence functions. The generator
// calls it at three kinds of sites with different angle conventions: the
// shape center (angle 0, contour 0), each contour (angle = contour index)
// and each point (angle = sweep angle).
func ComputeModulation(angle, t float64, shapeIndex, contourIndex int, p params.Parameters) Modulation {
	f := p.FourDInfluence

	wPhase := t*0.06*f + float64(shapeIndex)*0.7 + float64(contourIndex)*0.05
	wInfluence := math.Sin(angle*2+wPhase) * 0.15 * f

	xwRotation := t * 0.04 * f
	xwInfluence := math.Cos(angle+xwRotation) * math.Sin(wPhase) * 0.2 * f

	ywRotation := t * 0.03 * f
	ywInfluence := math.Sin(angle*1.5+ywRotation) * math.Cos(wPhase*0.7) * 0.18 * f

	return Modulation{
		Radius: (wInfluence + xwInfluence*0.5) * p.MorphingIntensity,
		Shift: vec.Vec2{
			X: xwInfluence * 5.8 * p.Size,
			Y: ywInfluence * 5.8 * p.Size,
		},
		Opacity: math.Abs(wInfluence) * 0.3 * f,
	}
}

// RadiusProfile samples the point-site radius modulation over n angles of
// one contour.
func RadiusProfile(t float64, p params.Parameters, shapeIndex, contourIndex, n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		angle := float64(i) / float64(n) * math.Pi * 2
		out[i] = ComputeModulation(angle, t, shapeIndex, contourIndex, p).Radius
	}
	return out
}
