package cli

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/pkg/bend"
	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// rigOpts holds the command-line flags for the rig command.
type rigOpts struct {
	selection string  // comma-separated node names or ids, in chain order
	output    string  // output scene path; empty rewrites the input
	offset    float64 // link offset for newly rigged nodes
	rotation  float64 // link twist for newly rigged nodes, in degrees
}

// rigCommand creates the rig command, which links the selected bends into
// a chain.
func (c *CLI) rigCommand() *cobra.Command {
	var opts rigOpts

	cmd := &cobra.Command{
		Use:   "rig <scene>",
		Short: "Link selected bends into a chain",
		Long: `Rig links the selected bends into a chain, in selection order: each bend
follows the bend selected before it. Bends that are already rigged keep
their offset and rotation. Non-bend nodes in the selection are ignored.

Without --select, every node in the scene is selected in file order.`,
		Example: `  bendchain rig arm.yaml --select upper,lower,hand
  bendchain rig arm.json --select upper,lower --offset 0.1 -o rigged.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("offset") {
				opts.offset = c.Config.Rig.Offset
			}
			if !cmd.Flags().Changed("rotation") {
				opts.rotation = c.Config.Rig.Rotation
			}
			return c.runRig(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.selection, "select", "s", "", "nodes to rig, comma-separated names or ids")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output scene (default: rewrite the input)")
	cmd.Flags().Float64Var(&opts.offset, "offset", 0, "offset for new links (default from config)")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "rotation for new links in degrees (default from config)")

	return cmd
}

func (c *CLI) runRig(path string, opts rigOpts) error {
	s, err := c.loadScene(path)
	if err != nil {
		return err
	}

	var ids []scene.NodeID
	if opts.selection == "" {
		for _, n := range s.Nodes() {
			ids = append(ids, n.ID)
		}
	} else if ids, err = s.ResolveAll(parseList(opts.selection)); err != nil {
		return err
	}

	link := bend.Link{Offset: opts.offset, Rotation: mgl64.DegToRad(opts.rotation)}

	report, err := s.ApplyRig(ids, link)
	if err != nil {
		return err
	}
	c.Logger.Debug("applied rig", "added", report.Added, "existing", report.Existing, "linked", report.Linked)

	out := opts.output
	if out == "" {
		out = path
	}
	if err := sceneio.Export(s, out); err != nil {
		return err
	}

	printSuccess("%s", report)
	printFile(out)
	printNextStep("Evaluate it", appName+" eval "+out)
	return nil
}
