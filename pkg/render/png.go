package render

import (
	"image"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// supersample is the oversampling factor used before downscaling.
const supersample = 2

// PNG rasterizes v with the same layout and colors as [SVG]. Labels are not
// drawn. The output is opts.Scale times the canvas size.
func PNG(w io.Writer, v View, opts Options) error {
	opts = opts.validate()

	outW := int(math.Round(float64(opts.Width) * opts.Scale))
	outH := int(math.Round(float64(opts.Height) * opts.Scale))
	k := opts.Scale * supersample

	large := opts
	large.Width = outW * supersample
	large.Height = outH * supersample
	large.Padding = int(float64(opts.Padding) * k)
	large.Stroke = opts.Stroke * k
	img := rasterize(v, large)

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return png.Encode(w, out)
}

func rasterize(v View, opts Options) *image.RGBA {
	bounds := image.Rect(0, 0, opts.Width, opts.Height)
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.White, image.Point{}, draw.Src)

	f := newFitter(v, opts)
	r := vector.NewRasterizer(opts.Width, opts.Height)
	half := opts.Stroke / 2

	for _, s := range v.Segments {
		r.Reset(opts.Width, opts.Height)
		for i := 1; i < len(s.Points); i++ {
			x0, y0 := f.point(s.Points[i-1])
			x1, y1 := f.point(s.Points[i])
			line(r, x0, y0, x1, y1, half)
			disc(r, x1, y1, half)
		}
		r.Draw(img, bounds, image.NewUniform(strokeColor(s)), image.Point{})

		r.Reset(opts.Width, opts.Height)
		x, y := f.point(s.Points[0])
		disc(r, x, y, opts.Stroke)
		r.Draw(img, bounds, image.NewUniform(colorJoint), image.Point{})
	}
	return img
}

// line adds a thick line from (x0,y0) to (x1,y1) as a quad.
func line(r *vector.Rasterizer, x0, y0, x1, y1, half float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	r.MoveTo(float32(x0+nx), float32(y0+ny))
	r.LineTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.LineTo(float32(x0-nx), float32(y0-ny))
	r.ClosePath()
}

// disc adds a filled circle approximated by a polygon. Discs at interior
// points round off the joins between quads. It winds the same way as
// [line] so overlapping shapes do not cancel.
func disc(r *vector.Rasterizer, cx, cy, radius float64) {
	const sides = 16
	r.MoveTo(float32(cx+radius), float32(cy))
	for i := 1; i < sides; i++ {
		a := -2 * math.Pi * float64(i) / sides
		r.LineTo(float32(cx+radius*math.Cos(a)), float32(cy+radius*math.Sin(a)))
	}
	r.ClosePath()
}
