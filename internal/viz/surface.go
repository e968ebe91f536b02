package viz

import (
	"image/color"
	"math"

	"github.com/san-kum/morphcontours/internal/params"
	"seehuhn.de/go/geom/vec"
)

// Surface paints frames onto a Canvas. A logical square of side Logical is
// fitted into the canvas dots and centered; Braille dots are close enough
// to square that no aspect correction is applied. Strokes are one dot wide
// whatever width is requested.
type Surface struct {
	c       *Canvas
	logical float64
	scale   float64
	offX    float64
	offY    float64
}

func NewSurface(c *Canvas, logical float64) *Surface {
	w, h := float64(c.Width*2), float64(c.Height*4)
	scale := math.Min(w, h) / logical
	return &Surface{
		c:       c,
		logical: logical,
		scale:   scale,
		offX:    (w - logical*scale) / 2,
		offY:    (h - logical*scale) / 2,
	}
}

// Size is the canvas size in dots.
func (s *Surface) Size() (int, int) {
	return s.c.Width * 2, s.c.Height * 4
}

func (s *Surface) Fill(c color.NRGBA) {
	s.c.Background = params.Color{R: c.R, G: c.G, B: c.B}
	s.c.Clear()
}

func (s *Surface) StrokePolyline(pts []vec.Vec2, c color.NRGBA, width float64) {
	if len(pts) == 0 || c.A == 0 {
		return
	}
	s.c.BeginStroke(params.Color{R: c.R, G: c.G, B: c.B}, float64(c.A)/255)

	x0, y0 := s.dot(pts[0])
	if len(pts) == 1 {
		s.c.Set(x0, y0)
		return
	}
	for _, p := range pts[1:] {
		x1, y1 := s.dot(p)
		s.c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

func (s *Surface) dot(p vec.Vec2) (int, int) {
	return int(math.Floor(p.X*s.scale + s.offX)), int(math.Floor(p.Y*s.scale + s.offY))
}
