package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/pkg/pipeline"
	"github.com/matzehuels/bendchain/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "svg", "png", "dot", "json"
	frame    float64  // frame to sample tracks at
	width    int      // canvas width in pixels
	height   int      // canvas height in pixels
	scale    float64  // PNG resolution multiplier
	labels   bool     // draw node names
	topology bool     // also render the link graph through Graphviz
	noCache  bool     // skip the cache
}

// renderCommand creates the render command for drawing evaluated chains.
// Size and label defaults come from the config file.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Evaluate a scene and draw it",
		Long: `Render evaluates a scene and draws the chain from the side, looking down
the Z axis. Formats:

  svg   vector drawing
  png   raster drawing
  dot   Graphviz source of the rig links
  json  the evaluated scene document

With --topology the rig links are also drawn as <base>-topology.svg.`,
		Example: `  bendchain render arm.yaml
  bendchain render arm.yaml -f svg,png --scale 2 -o out/arm
  bendchain render arm.yaml --frame 24 --topology`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			c.applyRenderConfig(cmd, &opts)

			var frame *float64
			if cmd.Flags().Changed("frame") {
				frame = &opts.frame
			}
			return c.runRender(cmd.Context(), args[0], frame, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.frame, "frame", 0, "sample strength tracks at this frame")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG resolution multiplier (default from config)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw node names (default from config)")
	cmd.Flags().BoolVar(&opts.topology, "topology", false, "also render the rig links with Graphviz")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// applyRenderConfig fills flags the user did not set from the config file.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *renderOpts) {
	rc := c.Config.Render
	if !cmd.Flags().Changed("width") {
		opts.width = rc.Width
	}
	if !cmd.Flags().Changed("height") {
		opts.height = rc.Height
	}
	if !cmd.Flags().Changed("scale") {
		opts.scale = rc.Scale
	}
	if !cmd.Flags().Changed("labels") {
		opts.labels = rc.Labels
	}
}

func (c *CLI) runRender(ctx context.Context, input string, frame *float64, opts renderOpts) error {
	s, err := c.loadScene(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.formats, ", ")+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, s, pipeline.Options{
		Frame:    frame,
		Formats:  opts.formats,
		Width:    opts.width,
		Height:   opts.height,
		Scale:    opts.scale,
		Segments: c.Config.Render.Segments,
		Labels:   opts.labels,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))
	printStats(result.Stats.NodeCount, result.Eval.Placed, result.CacheInfo.RenderHit)

	multi := len(opts.formats) > 1
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, multi)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}

	if opts.topology {
		svg, err := render.DOTToSVG(ctx, render.ToDOT(result.Scene))
		if err != nil {
			return fmt.Errorf("topology: %w", err)
		}
		path := strings.TrimSuffix(outputPath(opts.output, input, "svg", true), ".svg") + "-topology.svg"
		if err := writeFile(path, svg); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeFile writes data to path, creating or truncating it.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
