package contour

import (
	"image/color"
	"math"

	"github.com/san-kum/morphcontours/internal/params"
	"seehuhn.de/go/geom/vec"
)

const (
	// LogicalSize is the side of the live canvas in logical units.
	LogicalSize = 400.0

	// OriginX and OriginY place the field inside the logical canvas.
	OriginX = 170.0
	OriginY = 200.0

	minOpacity = 0.1
	maxOpacity = 0.9
)

// Contour is one closed polyline with its resolved stroke.
type Contour struct {
	Index   int
	Points  []vec.Vec2
	Color   params.Color
	Opacity float64
	Width   float64
}

// NRGBA is the stroke color with the contour's opacity as alpha.
func (c Contour) NRGBA() color.NRGBA {
	return c.Color.NRGBA(c.Opacity)
}

type Shape struct {
	Index    int
	Center   vec.Vec2
	Contours []Contour
}

// Frame is the complete geometry of one animation frame, in device units
// of a Size×Size surface.
type Frame struct {
	Time       float64
	Scale      float64
	Size       int
	Background params.Color
	Shapes     []Shape
}

// NumContours counts the contours over all shapes.
func (f Frame) NumContours() int {
	n := 0
	for _, s := range f.Shapes {
		n += len(s.Contours)
	}
	return n
}

// GenerateFrame computes every shape and contour for time t. All distances
// are multiplied by scale; phases are not. Invalid counts or scales yield a
// frame with no shapes.
func GenerateFrame(t float64, p params.Parameters, scale float64) Frame {
	frame := Frame{
		Time:       t,
		Scale:      scale,
		Background: p.BackgroundColor,
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return frame
	}
	frame.Size = int(math.Round(LogicalSize * scale))

	contours, points := p.ContourCount(), p.PointCount()
	if p.ShapeCount < 1 || contours < 1 || points < 1 {
		return frame
	}

	originX, originY := OriginX*scale, OriginY*scale
	unit := p.Size * scale
	width := p.LineThickness * scale

	frame.Shapes = make([]Shape, p.ShapeCount)
	for s := range frame.Shapes {
		shapePhase := t + float64(s)*math.Pi*2/float64(p.ShapeCount)

		m := ComputeModulation(0, t, s, 0, p)
		offsetX := (math.Sin(shapePhase*0.2)*29*p.Size*p.Spread + m.Shift.X) * scale
		offsetY := (math.Cos(shapePhase*0.3)*29*p.Size*p.Spread + m.Shift.Y) * scale

		shape := Shape{
			Index:    s,
			Center:   vec.Vec2{X: originX + offsetX, Y: originY + offsetY},
			Contours: make([]Contour, contours),
		}

		for c := range shape.Contours {
			fc := float64(c)
			baseRadius := (22 + fc*2.2) * unit
			contourX := math.Sin(fc*0.2+shapePhase) * 7.3 * unit
			contourY := math.Cos(fc*0.2+shapePhase) * 7.3 * unit

			cm := ComputeModulation(fc, t, s, c, p)
			opacity := math.Max(minOpacity, math.Min(maxOpacity, p.LineTransparency+cm.Opacity))

			pts := make([]vec.Vec2, points+1)
			for i := range pts {
				angle := float64(i) / float64(points) * math.Pi * 2

				radius := baseRadius
				radius += 11 * math.Sin(angle*3+shapePhase*2) * unit
				radius += 7.3 * math.Cos(angle*5-shapePhase) * unit
				radius += 3.7 * math.Sin(angle*8+fc*0.1) * unit
				radius *= 1 + ComputeModulation(angle, t, s, c, p).Radius

				pts[i] = vec.Vec2{
					X: originX + offsetX + contourX + math.Cos(angle)*radius,
					Y: originY + offsetY + contourY + math.Sin(angle)*radius,
				}
			}

			shape.Contours[c] = Contour{
				Index:   c,
				Points:  pts,
				Color:   p.LineColor,
				Opacity: opacity,
				Width:   width,
			}
		}
		frame.Shapes[s] = shape
	}
	return frame
}
