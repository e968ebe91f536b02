package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/morphcontours/internal/contour"
)

// FrameToSVG renders a frame as an SVG document of closed stroked paths,
// one per contour in painting order.
func FrameToSVG(f contour.Frame) string {
	if f.Size <= 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, f.Size, f.Size, f.Size, f.Size, f.Background.Hex()))

	for _, s := range f.Shapes {
		sb.WriteString(fmt.Sprintf("<g id=\"shape-%d\" fill=\"none\" stroke-linecap=\"round\" stroke-linejoin=\"round\">\n", s.Index))
		for _, c := range s.Contours {
			if len(c.Points) < 2 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<path stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f" d="M`,
				c.Color.Hex(), c.Opacity, c.Width))
			for i, p := range c.Points {
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.2f,%.2f", p.X, p.Y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", p.X, p.Y))
				}
			}
			sb.WriteString(" Z\"/>\n")
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
