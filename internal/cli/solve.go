package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
)

// solveOpts holds the command-line flags for the solve command.
// Angles are in degrees.
type solveOpts struct {
	length       float64   // the node's own length
	predLength   float64   // predecessor length
	predStrength float64   // predecessor bend angle
	offset       float64   // gap along the chain axis
	rotation     float64   // twist about the chain axis
	predPos      []float64 // predecessor world position
	predHPB      []float64 // predecessor world heading, pitch, bank
	asJSON       bool      // print JSON instead of text
}

// solveOutput is the JSON form of a solve result. Angles are in degrees.
type solveOutput struct {
	Position [3]float64 `json:"position"`
	HPB      [3]float64 `json:"hpb"`
	Curved   bool       `json:"curved"`
}

// solveCommand creates the solve command, which places one node after one
// predecessor without a scene file.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{
		length:     1,
		predLength: 1,
		predPos:    []float64{0, 0, 0},
		predHPB:    []float64{0, 0, 0},
	}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Place one bend after a predecessor",
		Long: `Solve computes where a bend sits when it follows a predecessor bend.

All angles are in degrees. The predecessor is described by its length,
strength and world transform; the result is the follower's world position
and orientation.`,
		Example: `  bendchain solve --pred-length 10 --pred-strength 90 --length 4
  bendchain solve --pred-length 2 --pred-pos 1,2,3 --offset 0.5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("offset") {
				opts.offset = c.Config.Rig.Offset
			}
			if !cmd.Flags().Changed("rotation") {
				opts.rotation = c.Config.Rig.Rotation
			}
			return c.runSolve(opts)
		},
	}

	cmd.Flags().Float64Var(&opts.length, "length", opts.length, "length of the placed bend")
	cmd.Flags().Float64Var(&opts.predLength, "pred-length", opts.predLength, "predecessor length")
	cmd.Flags().Float64Var(&opts.predStrength, "pred-strength", 0, "predecessor strength in degrees (0 is straight)")
	cmd.Flags().Float64Var(&opts.offset, "offset", 0, "gap along the chain axis (default from config)")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "twist about the chain axis in degrees (default from config)")
	cmd.Flags().Float64SliceVar(&opts.predPos, "pred-pos", opts.predPos, "predecessor world position x,y,z")
	cmd.Flags().Float64SliceVar(&opts.predHPB, "pred-hpb", opts.predHPB, "predecessor heading,pitch,bank in degrees")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")

	return cmd
}

// validate rejects NaN and infinite flag values the same way the HTTP
// solve endpoint does.
func (o solveOpts) validate() error {
	if len(o.predPos) != 3 || len(o.predHPB) != 3 {
		return errors.New(errors.ErrCodeInvalidInput, "--pred-pos and --pred-hpb take exactly three values")
	}
	flags := map[string][]float64{
		"--length":        {o.length},
		"--pred-length":   {o.predLength},
		"--pred-strength": {o.predStrength},
		"--offset":        {o.offset},
		"--rotation":      {o.rotation},
		"--pred-pos":      o.predPos,
		"--pred-hpb":      o.predHPB,
	}
	for _, name := range slices.Sorted(maps.Keys(flags)) {
		for _, v := range flags[name] {
			if err := errors.ValidateFinite(name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *CLI) runSolve(opts solveOpts) error {
	if err := opts.validate(); err != nil {
		return err
	}

	self := bend.Params{Length: opts.length}
	pred := bend.Params{Length: opts.predLength, Strength: mgl64.DegToRad(opts.predStrength)}
	link := bend.Link{Offset: opts.offset, Rotation: mgl64.DegToRad(opts.rotation)}
	predWorld := geom.Place(
		mgl64.Vec3{opts.predPos[0], opts.predPos[1], opts.predPos[2]},
		mgl64.DegToRad(opts.predHPB[0]),
		mgl64.DegToRad(opts.predHPB[1]),
		mgl64.DegToRad(opts.predHPB[2]),
	)

	world, err := bend.Solve(self, pred, predWorld, link)
	if err != nil {
		return err
	}
	c.Logger.Debug("solved", "predecessor", pred, "link", link, "transform", world)

	h, p, b := geom.ToHPB(world.Rot)
	out := solveOutput{
		Position: world.Pos,
		HPB:      [3]float64{zero(mgl64.RadToDeg(h)), zero(mgl64.RadToDeg(p)), zero(mgl64.RadToDeg(b))},
		Curved:   pred.Curved(),
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	branch := "straight"
	if out.Curved {
		branch = fmt.Sprintf("arc, radius %.4g", pred.Radius())
	}
	printKeyValue("position", fmtVec(world.Pos))
	printKeyValue("hpb", fmt.Sprintf("(%.4g°, %.4g°, %.4g°)", out.HPB[0], out.HPB[1], out.HPB[2]))
	printKeyValue("branch", branch)
	return nil
}
