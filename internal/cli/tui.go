package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Tuner - Interactive chain tuning
// =============================================================================

// field is the node parameter the tuner edits.
type field int

const (
	fieldStrength field = iota
	fieldOffset
	fieldRotation
)

var fieldNames = [...]string{"strength", "offset", "rotation"}

func (f field) String() string { return fieldNames[f] }

// Step sizes for one key press. Angles are in degrees.
const (
	stepAngle  = 5.0
	stepOffset = 0.1
)

// TunerModel is the bubbletea model for tuning a rigged scene. Every edit
// re-evaluates the scene so placements follow immediately.
type TunerModel struct {
	ctx   context.Context
	scene *scene.Scene
	eval  *scene.Evaluator

	Cursor int
	Field  field
	Saved  bool  // Set when the user quits with save
	Err    error // Last edit or evaluation failure
}

// NewTunerModel creates a tuner for s and evaluates it once.
func NewTunerModel(ctx context.Context, s *scene.Scene, eval *scene.Evaluator) TunerModel {
	m := TunerModel{ctx: ctx, scene: s, eval: eval}
	m.reevaluate()
	return m
}

// Scene returns the scene being tuned.
func (m TunerModel) Scene() *scene.Scene {
	return m.scene
}

func (m TunerModel) Init() tea.Cmd {
	return nil
}

func (m TunerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	nodes := m.scene.Nodes()

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "s":
		m.Saved = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(nodes)-1 {
			m.Cursor++
		}
	case "tab":
		m.Field = (m.Field + 1) % field(len(fieldNames))
	case "shift+tab":
		m.Field = (m.Field + field(len(fieldNames)) - 1) % field(len(fieldNames))
	case "right", "l", "+":
		m.adjust(nodes, 1)
	case "left", "h", "-":
		m.adjust(nodes, -1)
	case "0":
		m.adjust(nodes, 0)
	case "x", "delete":
		m.remove(nodes)
	}
	return m, nil
}

// remove deletes the selected node. Nodes that followed it become chain
// roots and keep their last placement.
func (m *TunerModel) remove(nodes []*scene.Node) {
	if len(nodes) == 0 {
		return
	}
	m.scene.Remove(nodes[m.Cursor].ID)
	if m.Cursor >= len(nodes)-1 && m.Cursor > 0 {
		m.Cursor--
	}
	m.reevaluate()
}

// adjust steps the current field of the selected node by dir steps; a zero
// dir resets the field.
func (m *TunerModel) adjust(nodes []*scene.Node, dir float64) {
	if len(nodes) == 0 {
		return
	}
	n := nodes[m.Cursor]

	switch m.Field {
	case fieldStrength:
		if !n.IsBend() {
			return
		}
		if dir == 0 {
			n.Bend.Strength = 0
		} else {
			n.Bend.Strength += dir * mgl64.DegToRad(stepAngle)
		}
	case fieldOffset, fieldRotation:
		if !n.Rigged() {
			return
		}
		link := n.Tag.Link
		switch {
		case m.Field == fieldOffset && dir == 0:
			link.Offset = 0
		case m.Field == fieldOffset:
			link.Offset += dir * stepOffset
		case dir == 0:
			link.Rotation = 0
		default:
			link.Rotation += dir * mgl64.DegToRad(stepAngle)
		}
		if err := m.scene.SetLink(n.ID, link); err != nil {
			m.Err = err
			return
		}
	}
	m.reevaluate()
}

func (m *TunerModel) reevaluate() {
	_, m.Err = m.eval.Evaluate(m.ctx, m.scene)
}

func (m TunerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tune Chain"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ node  ⇥ field  ←/→ adjust  0 reset  x delete  s save  q quit"))
	b.WriteString("\n\n")

	nodes := m.scene.Nodes()
	rows := make([][]string, 0, len(nodes))
	for i, n := range nodes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		offset, rotation := "—", "—"
		if n.Rigged() {
			offset = fmt.Sprintf("%.4g", n.Tag.Link.Offset)
			rotation = fmt.Sprintf("%.4g°", zero(mgl64.RadToDeg(n.Tag.Link.Rotation)))
		}
		strength := "—"
		if n.IsBend() {
			strength = fmt.Sprintf("%.4g°", zero(mgl64.RadToDeg(n.Bend.Strength)))
		}
		rows = append(rows, []string{
			cursor + n.Name,
			strength,
			offset,
			rotation,
			fmtVec(tipPoint(n)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("Node", "Strength", "Offset", "Rotation", "Tip").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col == int(m.Field)+1 {
					return headerStyle.Foreground(colorCyan)
				}
				return headerStyle
			}
			base := lipgloss.NewStyle().PaddingRight(2)
			switch {
			case row == m.Cursor && (col == 0 || col == int(m.Field)+1):
				return base.Inherit(listSelectedStyle)
			case row >= 0 && row < len(nodes) && !nodes[row].IsBend():
				return base.Inherit(listDimStyle)
			}
			return base.Inherit(listNormalStyle)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(listErrorStyle.Render(iconError + " " + m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// tuiCommand creates the tui command for tuning a scene interactively.
func (c *CLI) tuiCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tui <scene>",
		Short: "Tune strengths and links interactively",
		Long: `Tui opens an interactive table of the scene's nodes. Select a node and a
field, then step strength, offset or rotation with the arrow keys. Every
change re-evaluates the chain. Press s to save the evaluated scene.`,
		Example: `  bendchain tui arm.yaml
  bendchain tui arm.yaml -o arm-tuned.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "save to this file instead of the input")

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, path, output string) error {
	s, err := c.loadScene(path)
	if err != nil {
		return err
	}

	model := NewTunerModel(ctx, s, scene.NewEvaluator(c.Logger))
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	m := final.(TunerModel)
	if !m.Saved {
		printInfo("Discarded changes")
		return nil
	}
	if m.Err != nil {
		return m.Err
	}
	if output == "" {
		output = path
	}
	if err := sceneio.Export(m.Scene(), output); err != nil {
		return err
	}
	printSuccess("Saved scene")
	printFile(output)
	return nil
}
