package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// evalOpts holds the command-line flags for the eval command.
type evalOpts struct {
	frame   float64 // frame to sample tracks at
	output  string  // optional path for the evaluated scene
	noCache bool    // skip the evaluation cache
}

// evalCommand creates the eval command, which places every rigged bend and
// prints the resulting transforms.
func (c *CLI) evalCommand() *cobra.Command {
	var opts evalOpts

	cmd := &cobra.Command{
		Use:   "eval <scene>",
		Short: "Evaluate a scene and print every node's transform",
		Long: `Eval places every rigged bend after its predecessor, predecessors first,
and prints the resulting world transforms. With --frame, animated strengths
are sampled at that frame before evaluating.`,
		Example: `  bendchain eval arm.yaml
  bendchain eval arm.yaml --frame 12 -o arm-f12.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var frame *float64
			if cmd.Flags().Changed("frame") {
				frame = &opts.frame
			}
			return c.runEval(cmd.Context(), args[0], frame, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.frame, "frame", 0, "sample strength tracks at this frame")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the evaluated scene to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runEval(ctx context.Context, path string, frame *float64, opts evalOpts) error {
	s, err := c.loadScene(path)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	result, err := c.evaluate(ctx, s, frame, opts.noCache)
	if err != nil {
		return err
	}
	prog.done("Evaluated scene", "placed", result.Eval.Placed, "skipped", result.Eval.Skipped)

	printBlock(nodeTable(result.Scene))
	printStats(result.Stats.NodeCount, result.Eval.Placed, result.CacheInfo.EvalHit)

	if opts.output != "" {
		if err := sceneio.Export(result.Scene, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

// nodeTable renders the scene's nodes as a table. Angles are in degrees.
func nodeTable(s *scene.Scene) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	nodes := s.Nodes()

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		pred := "—"
		if p, ok := s.Predecessor(n); ok {
			pred = p.Name
		}
		h, p, b := geom.ToHPB(n.World.Rot)
		rows = append(rows, []string{
			n.Name,
			string(n.Kind),
			pred,
			fmt.Sprintf("%.4g", n.Bend.Length),
			fmt.Sprintf("%.4g°", zero(mgl64.RadToDeg(n.Bend.Strength))),
			fmtVec(n.World.Pos),
			fmt.Sprintf("(%.4g°, %.4g°, %.4g°)", zero(mgl64.RadToDeg(h)), zero(mgl64.RadToDeg(p)), zero(mgl64.RadToDeg(b))),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Kind", "After", "Length", "Strength", "Position", "HPB").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(nodes) {
				return base
			}
			n := nodes[row]
			switch {
			case !n.IsBend():
				return base.Foreground(colorDim)
			case col == 0 && n.Rigged():
				return base.Foreground(colorCyan)
			}
			return base
		})
	return t.Render()
}

// =============================================================================
// Animate
// =============================================================================

// animateOpts holds the command-line flags for the animate command.
type animateOpts struct {
	from, to   int    // inclusive frame range
	node       string // node whose tip is reported; default is the chain end
	keyedRange bool   // replace from and to with the keyed frame range
}

// animateCommand creates the animate command, which evaluates a frame range
// and prints where the chain ends on every frame.
func (c *CLI) animateCommand() *cobra.Command {
	opts := animateOpts{to: 24}

	cmd := &cobra.Command{
		Use:   "animate <scene>",
		Short: "Evaluate a frame range and print the chain tip per frame",
		Long: `Animate samples every strength track frame by frame, re-evaluates the
chain and prints where it ends. Without --from and --to the range covers
every keyed frame in the scene, or frames 0 to 24 when nothing is keyed.`,
		Example: `  bendchain animate arm.yaml
  bendchain animate arm.yaml --from 0 --to 48
  bendchain animate arm.yaml --to 10 --node hand`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.keyedRange = !cmd.Flags().Changed("from") && !cmd.Flags().Changed("to")
			return c.runAnimate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.from, "from", 0, "first frame (default: first keyed frame)")
	cmd.Flags().IntVar(&opts.to, "to", opts.to, "last frame, inclusive (default: last keyed frame)")
	cmd.Flags().StringVar(&opts.node, "node", "", "node to follow (default: last node in chain order)")

	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, path string, opts animateOpts) error {
	s, err := c.loadScene(path)
	if err != nil {
		return err
	}
	tip, err := tipNode(s, opts.node)
	if err != nil {
		return err
	}
	if opts.keyedRange {
		if from, to, ok := keyedFrames(s); ok {
			opts.from, opts.to = from, to
		}
	}
	c.Logger.Debug("animating", "from", opts.from, "to", opts.to, "node", tip.Name)

	var rows [][]string
	prog := newProgress(c.Logger)
	ev := scene.NewEvaluator(c.Logger)
	err = ev.Run(ctx, s, opts.from, opts.to, func(frame int, s *scene.Scene, res scene.EvalResult) error {
		rows = append(rows, []string{
			fmt.Sprint(frame),
			fmt.Sprint(res.Placed),
			fmtVec(tipPoint(tip)),
		})
		return nil
	})
	if err != nil {
		return err
	}
	prog.done("Evaluated frames", "frames", len(rows))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Frame", "Placed", "Tip of "+tip.Name).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	printBlock(t.Render())
	return nil
}

// keyedFrames returns the whole frames covering every track in s.
func keyedFrames(s *scene.Scene) (from, to int, ok bool) {
	for _, n := range s.Nodes() {
		first, last, keyed := n.Track.Span()
		if !keyed {
			continue
		}
		lo, hi := int(math.Floor(first)), int(math.Ceil(last))
		if !ok || lo < from {
			from = lo
		}
		if !ok || hi > to {
			to = hi
		}
		ok = true
	}
	return from, to, ok
}

// tipNode returns the node named by ref, or the last bend in evaluation
// order when ref is empty.
func tipNode(s *scene.Scene, ref string) (*scene.Node, error) {
	if ref != "" {
		ids, err := s.ResolveAll([]string{ref})
		if err != nil {
			return nil, err
		}
		n, _ := s.Node(ids[0])
		return n, nil
	}
	order, err := s.Order()
	if err != nil {
		return nil, err
	}
	for i := len(order) - 1; i >= 0; i-- {
		if n, _ := s.Node(order[i]); n.IsBend() {
			return n, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNoBendSelected, "scene has no bend to follow")
}

// tipPoint returns the world position of the end of n's bent center line.
func tipPoint(n *scene.Node) mgl64.Vec3 {
	local := geom.RotY(n.Direction).Mul3x1(n.Bend.ArcEndpoint())
	return n.World.Apply(local)
}
