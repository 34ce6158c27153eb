package pipeline

import (
	"bytes"
	"fmt"
	"io"

	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/render"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// Render draws an evaluated scene once per requested format.
func Render(s *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	view := render.SideView(s, opts.Segments)
	drawing := opts.drawing()
	writers := map[string]func(io.Writer) error{
		FormatSVG: func(w io.Writer) error { return render.SVG(w, view, drawing) },
		FormatPNG: func(w io.Writer) error { return render.PNG(w, view, drawing) },
		FormatDOT: func(w io.Writer) error {
			_, err := io.WriteString(w, render.ToDOT(s))
			return err
		},
		FormatJSON: func(w io.Writer) error { return sceneio.Write(w, s, sceneio.FormatJSON) },
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		var buf bytes.Buffer
		if err := writers[format](&buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}
