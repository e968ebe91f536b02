package contour

import (
	"math"
	"testing"

	"github.com/san-kum/morphcontours/internal/params"
)

func scenario() params.Parameters {
	p := params.Defaults()
	p.ShapeCount = 3
	p.DetailLevel = 0.6
	p.Size = 1.5
	p.Spread = 1.0
	p.FourDInfluence = 1.0
	p.MorphingIntensity = 1.0
	p.LineTransparency = 0.6
	p.AnimationSpeed = 1.0
	p.TimeIncrement = 0.003
	return p
}

func TestComputeModulationZeroInfluence(t *testing.T) {
	p := scenario()
	p.FourDInfluence = 0

	for _, angle := range []float64{0, 1, 2.5, math.Pi} {
		m := ComputeModulation(angle, 12.3, 2, 7, p)
		if m.Radius != 0 || m.Shift.X != 0 || m.Shift.Y != 0 || m.Opacity != 0 {
			t.Errorf("angle %v: expected zero modulation, got %+v", angle, m)
		}
	}
}

func TestComputeModulationKnownValue(t *testing.T) {
	p := scenario()
	p.Size = 1

	// angle 0, t 0, shape 1: wPhase = 0.7 and the yw term vanishes.
	m := ComputeModulation(0, 0, 1, 0, p)
	s := math.Sin(0.7)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"radius", m.Radius, 0.15*s + 0.2*s*0.5},
		{"shift x", m.Shift.X, 0.2 * s * 5.8},
		{"shift y", m.Shift.Y, 0},
		{"opacity", m.Opacity, 0.15 * s * 0.3},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestGenerateFrameCounts(t *testing.T) {
	tests := []struct {
		detail   float64
		contours int
		points   int
	}{
		{0.1, 13, 60},
		{1.0, 40, 150},
	}

	for _, tt := range tests {
		p := scenario()
		p.DetailLevel = tt.detail
		f := GenerateFrame(1.0, p, 1)

		if len(f.Shapes) != p.ShapeCount {
			t.Fatalf("detail %v: expected %d shapes, got %d", tt.detail, p.ShapeCount, len(f.Shapes))
		}
		for _, s := range f.Shapes {
			if len(s.Contours) != tt.contours {
				t.Errorf("detail %v: expected %d contours, got %d", tt.detail, tt.contours, len(s.Contours))
			}
			for _, c := range s.Contours {
				if len(c.Points) != tt.points+1 {
					t.Fatalf("detail %v: expected %d points, got %d", tt.detail, tt.points+1, len(c.Points))
				}
			}
		}
		if f.NumContours() != tt.contours*p.ShapeCount {
			t.Errorf("NumContours = %d", f.NumContours())
		}
	}
}

func TestGenerateFrameDeterministic(t *testing.T) {
	p := scenario()
	a := GenerateFrame(3.21, p, 2.7)
	b := GenerateFrame(3.21, p, 2.7)

	for s := range a.Shapes {
		for c := range a.Shapes[s].Contours {
			pa, pb := a.Shapes[s].Contours[c].Points, b.Shapes[s].Contours[c].Points
			for i := range pa {
				if pa[i] != pb[i] {
					t.Fatalf("shape %d contour %d point %d differs: %v vs %v", s, c, i, pa[i], pb[i])
				}
			}
		}
	}
}

func TestOpacityClamped(t *testing.T) {
	for _, transparency := range []float64{1.0, 0.1} {
		p := scenario()
		p.FourDInfluence = 2.0
		p.LineTransparency = transparency

		for _, tm := range []float64{0, 1.7, 40, 333.3} {
			f := GenerateFrame(tm, p, 1)
			for _, s := range f.Shapes {
				for _, c := range s.Contours {
					if c.Opacity < 0.1 || c.Opacity > 0.9 {
						t.Fatalf("transparency %v t %v: opacity %v out of [0.1, 0.9]", transparency, tm, c.Opacity)
					}
				}
			}
		}
	}
}

func TestScalingInvariance(t *testing.T) {
	p := scenario()
	base := GenerateFrame(5.5, p, 1)

	for _, k := range []float64{1, 2.7, 3.6} {
		scaled := GenerateFrame(5.5, p, k)
		if scaled.Size != int(math.Round(400*k)) {
			t.Errorf("k=%v: size %d", k, scaled.Size)
		}
		for s := range base.Shapes {
			bs, ss := base.Shapes[s], scaled.Shapes[s]
			if !near(ss.Center.X, k*bs.Center.X) || !near(ss.Center.Y, k*bs.Center.Y) {
				t.Fatalf("k=%v shape %d: center %v vs %v", k, s, ss.Center, bs.Center)
			}
			for c := range bs.Contours {
				if !near(ss.Contours[c].Width, k*bs.Contours[c].Width) {
					t.Errorf("k=%v: width not scaled", k)
				}
				if ss.Contours[c].Opacity != bs.Contours[c].Opacity {
					t.Errorf("k=%v: opacity depends on scale", k)
				}
				for i, bp := range bs.Contours[c].Points {
					sp := ss.Contours[c].Points[i]
					dx := (sp.X - ss.Center.X) - k*(bp.X-bs.Center.X)
					dy := (sp.Y - ss.Center.Y) - k*(bp.Y-bs.Center.Y)
					if math.Abs(dx) > 1e-9 || math.Abs(dy) > 1e-9 {
						t.Fatalf("k=%v shape %d contour %d point %d: off by (%g, %g)", k, s, c, i, dx, dy)
					}
				}
			}
		}
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

// The contour harmonics repeat after one natural period; with the 4D
// influence off, every contour relative to its shape center returns to
// the same outline.
func TestNaturalPeriodClosesContours(t *testing.T) {
	p := scenario()
	p.FourDInfluence = 0
	step := p.TimeStep()
	period := 2 * math.Pi / step * step

	start := GenerateFrame(0, p, 1)
	end := GenerateFrame(period, p, 1)

	for s := range start.Shapes {
		for c := range start.Shapes[s].Contours {
			a, b := start.Shapes[s].Contours[c], end.Shapes[s].Contours[c]
			if a.Opacity != b.Opacity {
				t.Fatalf("opacity changed over a period")
			}
			for i := range a.Points {
				ax := a.Points[i].X - start.Shapes[s].Center.X
				ay := a.Points[i].Y - start.Shapes[s].Center.Y
				bx := b.Points[i].X - end.Shapes[s].Center.X
				by := b.Points[i].Y - end.Shapes[s].Center.Y
				if math.Abs(ax-bx) > 1e-9 || math.Abs(ay-by) > 1e-9 {
					t.Fatalf("shape %d contour %d point %d: (%v,%v) vs (%v,%v)", s, c, i, ax, ay, bx, by)
				}
			}
		}
	}
}

func TestFirstPointScenario(t *testing.T) {
	p := scenario()
	f := GenerateFrame(0, p, 1)
	got := f.Shapes[0].Contours[0].Points[0]

	// shapeIndex 0, t 0: shapePhase 0, every modulation phase is 0.
	shape := ComputeModulation(0, 0, 0, 0, p)
	offsetX := math.Sin(0)*29*p.Size*p.Spread + shape.Shift.X
	offsetY := math.Cos(0)*29*p.Size*p.Spread + shape.Shift.Y
	contourX := math.Sin(0) * 7.3 * p.Size
	contourY := math.Cos(0) * 7.3 * p.Size

	radius := 22 * p.Size
	radius += 11 * math.Sin(0) * p.Size
	radius += 7.3 * math.Cos(0) * p.Size
	radius += 3.7 * math.Sin(0) * p.Size
	radius *= 1 + ComputeModulation(0, 0, 0, 0, p).Radius

	wantX := OriginX + offsetX + contourX + math.Cos(0)*radius
	wantY := OriginY + offsetY + contourY + math.Sin(0)*radius

	if math.Abs(got.X-wantX) > 1e-12 || math.Abs(got.Y-wantY) > 1e-12 {
		t.Fatalf("first point = %v, want (%v, %v)", got, wantX, wantY)
	}
	// 170 + 0 + 0 + 1.5*(22+7.3) and 200 + 43.5 + 10.95
	if math.Abs(wantX-(170+1.5*29.3)) > 1e-9 || math.Abs(wantY-(200+43.5+10.95)) > 1e-9 {
		t.Fatalf("unexpected closed form: (%v, %v)", wantX, wantY)
	}
}

func TestGenerateFrameGuards(t *testing.T) {
	p := scenario()
	p.ShapeCount = 0
	if f := GenerateFrame(1, p, 1); len(f.Shapes) != 0 {
		t.Errorf("expected no shapes for shapeCount 0, got %d", len(f.Shapes))
	}

	p = scenario()
	p.ShapeCount = -2
	if f := GenerateFrame(1, p, 1); len(f.Shapes) != 0 {
		t.Errorf("expected no shapes for negative shapeCount")
	}

	p = scenario()
	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if f := GenerateFrame(1, p, scale); len(f.Shapes) != 0 {
			t.Errorf("scale %v: expected no shapes", scale)
		}
	}
}

func TestContourStroke(t *testing.T) {
	p := scenario()
	p.LineThickness = 2
	f := GenerateFrame(0, p, 2)
	c := f.Shapes[0].Contours[0]

	if c.Width != 4 {
		t.Errorf("width = %v, want 4", c.Width)
	}
	col := c.NRGBA()
	if col.R != p.LineColor.R || col.G != p.LineColor.G || col.B != p.LineColor.B {
		t.Errorf("color = %v", col)
	}
	if want := uint8(math.Round(c.Opacity * 255)); col.A != want {
		t.Errorf("alpha = %d, want %d", col.A, want)
	}
}

func TestRadiusProfile(t *testing.T) {
	p := scenario()
	prof := RadiusProfile(2, p, 1, 3, 64)
	if len(prof) != 64 {
		t.Fatalf("len = %d", len(prof))
	}
	if prof[0] != ComputeModulation(0, 2, 1, 3, p).Radius {
		t.Errorf("profile[0] mismatch")
	}
	if RadiusProfile(2, p, 0, 0, 0) != nil {
		t.Errorf("expected nil for n=0")
	}
}
