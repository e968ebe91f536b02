package viz

import (
	"image/color"
	"testing"

	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/params"
	"github.com/san-kum/morphcontours/internal/render"
	"seehuhn.de/go/geom/vec"
)

func TestSurfaceFit(t *testing.T) {
	c := NewCanvas(20, 5)
	s := NewSurface(c, 100)

	if w, h := s.Size(); w != 40 || h != 20 {
		t.Fatalf("Size = %dx%d", w, h)
	}
	tests := []struct {
		p      vec.Vec2
		wx, wy int
	}{
		{vec.Vec2{X: 0, Y: 0}, 10, 0},
		{vec.Vec2{X: 50, Y: 50}, 20, 10},
		{vec.Vec2{X: 99, Y: 99}, 29, 19},
	}
	for _, tt := range tests {
		x, y := s.dot(tt.p)
		if x != tt.wx || y != tt.wy {
			t.Errorf("dot(%v) = (%d,%d), want (%d,%d)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
}

func TestSurfaceFill(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	s := NewSurface(c, 10)
	s.Fill(color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	if c.Background != (params.Color{R: 1, G: 2, B: 3}) {
		t.Errorf("Background = %v", c.Background)
	}
	if c.Grid[0][0] != blank {
		t.Error("Fill did not clear the canvas")
	}
}

func TestSurfaceStroke(t *testing.T) {
	c := NewCanvas(10, 5)
	s := NewSurface(c, 20)

	s.StrokePolyline([]vec.Vec2{{X: 0, Y: 0}, {X: 19, Y: 0}}, color.NRGBA{A: 255}, 3)
	for col, r := range c.Grid[0] {
		if r&0x9 != 0x9 {
			t.Errorf("col %d = %#x, want top dots", col, r)
		}
	}

	c.Clear()
	s.StrokePolyline([]vec.Vec2{{X: 0, Y: 0}, {X: 19, Y: 0}}, color.NRGBA{}, 1)
	if c.Grid[0][0] != blank {
		t.Error("transparent stroke drew dots")
	}
	s.StrokePolyline(nil, color.NRGBA{A: 255}, 1)
}

func TestSurfacePaintFrame(t *testing.T) {
	p := params.Defaults()
	p.Size = 0.5
	c := NewCanvas(60, 30)
	s := NewSurface(c, contour.LogicalSize)

	render.Paint(s, contour.GenerateFrame(1, p, 1))

	if c.Background != p.BackgroundColor {
		t.Errorf("Background = %v, want %v", c.Background, p.BackgroundColor)
	}
	dots := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				dots++
			}
		}
	}
	if dots == 0 {
		t.Fatal("frame drew nothing")
	}
	if c.Grid[0][0] != blank {
		t.Error("corner cell should stay empty")
	}
}

func TestPaletteFollowsTheme(t *testing.T) {
	p := params.Defaults()
	pal := PaletteFor(p)
	if string(pal.Background) != p.BackgroundColor.Hex() {
		t.Errorf("Background = %s", pal.Background)
	}
	if string(pal.Text) != p.LineColor.Hex() {
		t.Errorf("Text = %s", pal.Text)
	}

	next, err := p.ApplyTheme(params.NextTheme(p.Theme))
	if err != nil {
		t.Fatal(err)
	}
	if PaletteFor(next) == pal {
		t.Error("palette unchanged across themes")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "░░░░"},
		{50, "██░░"},
		{100, "████"},
		{150, "████"},
		{-5, "░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.percent, 4); got != tt.want {
			t.Errorf("ProgressBar(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestSlider(t *testing.T) {
	if got := Slider(5, 0, 10, 4); got != "[==--]" {
		t.Errorf("Slider = %q", got)
	}
	if got := Slider(20, 0, 10, 4); got != "[====]" {
		t.Errorf("clamped Slider = %q", got)
	}
	if got := Slider(1, 1, 1, 2); got != "[--]" {
		t.Errorf("empty range Slider = %q", got)
	}
}
