// Package pipeline evaluates bend chains and renders the result, with
// caching, for both the CLI and the HTTP server.
//
// A run has two stages. Evaluation optionally samples strength tracks at a
// frame and then places every rigged bend after its predecessor. Rendering
// turns the evaluated scene into one artifact per requested format:
//
//	svg   side-view drawing
//	png   rasterized side view
//	dot   Graphviz source of the link topology
//	json  the evaluated scene document
//
// Both stages are cached through a [Runner]:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, s, pipeline.Options{Formats: []string{"svg"}})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/bendchain/pkg/cache"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/render"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// Defaults applied by [Options.SetRenderDefaults]. The CLI flags and the
// HTTP API share them.
const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultScale    = 1.0
	DefaultSegments = render.DefaultSegments
)

// Artifact formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists every artifact format in the order they are documented.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// Options configures a pipeline run. It doubles as the JSON body of the
// render endpoint.
type Options struct {
	Frame   *float64 `json:"frame,omitempty"` // Sample tracks at this frame before evaluating
	Refresh bool     `json:"refresh,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Scale    float64  `json:"scale,omitempty"` // PNG pixel density
	Segments int      `json:"segments,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	Scene     *scene.Scene
	SceneHash string // Content hash of the input document
	Eval      scene.EvalResult
	Artifacts map[string][]byte // Keyed by format
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings of a run.
type Stats struct {
	NodeCount  int
	EvalTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	EvalHit   bool
	RenderHit bool // Every artifact was cached
}

// ValidateFormat returns an UNSUPPORTED error unless format is one of
// [Formats].
func ValidateFormat(format string) error {
	if slices.Contains(Formats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "format %q is not one of %s", format, strings.Join(Formats, ", "))
}

// ValidateFormats applies [ValidateFormat] to each format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults fills zero-valued render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Segments <= 0 {
		o.Segments = DefaultSegments
	}
}

// ValidateForRender fills defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// EvalKeyOpts returns the evaluation cache key options. Static runs and
// runs at a frame never share an entry.
func (o *Options) EvalKeyOpts() cache.EvalKeyOpts {
	if o.Frame == nil {
		return cache.EvalKeyOpts{}
	}
	return cache.EvalKeyOpts{Frame: *o.Frame, Animated: true}
}

// ArtifactKeyOpts returns the cache key options of one artifact. Every
// option that changes the output bytes is part of the key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Scale:    o.Scale,
		Segments: o.Segments,
		Labels:   o.Labels,
	}
}

func (o *Options) drawing() render.Options {
	ro := render.DefaultOptions()
	ro.Width, ro.Height = o.Width, o.Height
	ro.Scale = o.Scale
	ro.Labels = o.Labels
	return ro
}
