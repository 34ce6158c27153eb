package render

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"io"
	"strings"
)

// Colors shared by the SVG and PNG renderers.
var (
	colorCurved   = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorStraight = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorFree     = color.RGBA{158, 158, 158, 255} // #9e9e9e
	colorJoint    = color.RGBA{51, 51, 51, 255}    // #333
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func strokeColor(s Segment) color.RGBA {
	switch {
	case !s.Rigged:
		return colorFree
	case s.Curved:
		return colorCurved
	default:
		return colorStraight
	}
}

// SVG writes v as an SVG drawing: one polyline per node, a dot at every
// segment start, and optional name labels.
func SVG(w io.Writer, v View, opts Options) error {
	opts = opts.validate()
	f := newFitter(v, opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	for _, s := range v.Segments {
		pts := make([]string, len(s.Points))
		for i, p := range s.Points {
			x, y := f.point(p)
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&buf, `  <polyline id="node-%s" class="segment" points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			html.EscapeString(string(s.ID)), strings.Join(pts, " "), hex(strokeColor(s)), opts.Stroke)

		x, y := f.point(s.Points[0])
		fmt.Fprintf(&buf, `  <circle class="joint" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", x, y, opts.Stroke, hex(colorJoint))
	}

	if opts.Labels {
		for _, s := range v.Segments {
			x, y := f.point(s.Tip())
			fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f" font-family="sans-serif" font-size="12" fill="%s">%s</text>`+"\n",
				x+opts.Stroke+2, y, hex(colorJoint), html.EscapeString(s.Name))
		}
	}

	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}
