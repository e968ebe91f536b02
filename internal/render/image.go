package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// joinSegments is the polygon resolution of round joins.
const joinSegments = 12

// Image is a raster Surface backed by an RGBA image. Strokes are
// anti-aliased and composited with draw.Over.
//
// An Image is not safe for concurrent use.
type Image struct {
	img   *image.RGBA
	ras   *vector.Rasterizer
	quads [4]vec.Vec2
}

func NewImage(w, h int) *Image {
	return &Image{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		ras: vector.NewRasterizer(1, 1),
	}
}

func (m *Image) RGBA() *image.RGBA { return m.img }

func (m *Image) Size() (int, int) {
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

func (m *Image) Fill(c color.NRGBA) {
	draw.Draw(m.img, m.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// StrokePolyline strokes pts as one path: a quad per segment plus a round
// join at every vertex, all wound the same way so overlaps merge instead
// of cancelling.
func (m *Image) StrokePolyline(pts []vec.Vec2, c color.NRGBA, width float64) {
	if len(pts) < 2 || !(width > 0) || c.A == 0 {
		return
	}
	hw := width / 2

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	box := image.Rect(
		int(math.Floor(minX-hw-1)), int(math.Floor(minY-hw-1)),
		int(math.Ceil(maxX+hw+1)), int(math.Ceil(maxY+hw+1)),
	).Intersect(m.img.Bounds())
	if box.Empty() {
		return
	}

	m.ras.Reset(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)

	for i := 1; i < len(pts); i++ {
		m.segment(pts[i-1], pts[i], hw, ox, oy)
	}
	if hw >= 0.75 {
		for _, p := range pts {
			m.disc(p, hw, ox, oy)
		}
	}

	m.ras.Draw(m.img, box, image.NewUniform(c), image.Point{})
}

func (m *Image) segment(a, b vec.Vec2, hw, ox, oy float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw

	m.quads[0] = vec.Vec2{X: a.X + nx, Y: a.Y + ny}
	m.quads[1] = vec.Vec2{X: b.X + nx, Y: b.Y + ny}
	m.quads[2] = vec.Vec2{X: b.X - nx, Y: b.Y - ny}
	m.quads[3] = vec.Vec2{X: a.X - nx, Y: a.Y - ny}
	m.polygon(m.quads[:], ox, oy)
}

// disc winds clockwise in y-up terms, matching segment quads.
func (m *Image) disc(p vec.Vec2, r, ox, oy float64) {
	m.ras.MoveTo(float32(p.X+r-ox), float32(p.Y-oy))
	for k := 1; k < joinSegments; k++ {
		a := -2 * math.Pi * float64(k) / joinSegments
		m.ras.LineTo(float32(p.X+r*math.Cos(a)-ox), float32(p.Y+r*math.Sin(a)-oy))
	}
	m.ras.ClosePath()
}

func (m *Image) polygon(pts []vec.Vec2, ox, oy float64) {
	m.ras.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		m.ras.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	m.ras.ClosePath()
}
