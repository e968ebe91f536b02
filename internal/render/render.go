// Package render turns frame geometry into paint commands on a surface.
package render

import (
	"image/color"

	"github.com/san-kum/morphcontours/internal/contour"
	"seehuhn.de/go/geom/vec"
)

// Surface receives paint commands. Coordinates are device units of the
// frame being painted.
type Surface interface {
	Size() (w, h int)
	Fill(c color.NRGBA)
	StrokePolyline(pts []vec.Vec2, c color.NRGBA, width float64)
}

// Paint fills the background and strokes every contour in generation
// order, so later contours land on top of earlier ones.
func Paint(s Surface, f contour.Frame) {
	s.Fill(f.Background.NRGBA(1))
	for _, shape := range f.Shapes {
		for _, c := range shape.Contours {
			s.StrokePolyline(c.Points, c.NRGBA(), c.Width)
		}
	}
}
