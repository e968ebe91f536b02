package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/params"
)

type FrameData struct {
	Time       float64           `json:"time"`
	Scale      float64           `json:"scale"`
	Size       int               `json:"size"`
	Params     params.Parameters `json:"params"`
	Background string            `json:"background"`
	Shapes     []ShapeData       `json:"shapes"`
}

type ShapeData struct {
	Index    int           `json:"index"`
	Center   [2]float64    `json:"center"`
	Contours []ContourData `json:"contours"`
}

type ContourData struct {
	Index   int          `json:"index"`
	Color   string       `json:"color"`
	Opacity float64      `json:"opacity"`
	Width   float64      `json:"width"`
	Points  [][2]float64 `json:"points"`
}

// WriteFrameJSON writes the frame geometry and the parameters that
// produced it as indented JSON.
func WriteFrameJSON(w io.Writer, f contour.Frame, p params.Parameters) error {
	data := FrameData{
		Time:       f.Time,
		Scale:      f.Scale,
		Size:       f.Size,
		Params:     p,
		Background: f.Background.Hex(),
		Shapes:     make([]ShapeData, len(f.Shapes)),
	}

	for i, s := range f.Shapes {
		sd := ShapeData{
			Index:    s.Index,
			Center:   [2]float64{s.Center.X, s.Center.Y},
			Contours: make([]ContourData, len(s.Contours)),
		}
		for k, c := range s.Contours {
			cd := ContourData{
				Index:   c.Index,
				Color:   c.Color.Hex(),
				Opacity: c.Opacity,
				Width:   c.Width,
				Points:  make([][2]float64, len(c.Points)),
			}
			for n, pt := range c.Points {
				cd.Points[n] = [2]float64{pt.X, pt.Y}
			}
			sd.Contours[k] = cd
		}
		data.Shapes[i] = sd
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
