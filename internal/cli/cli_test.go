package cli

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/observability"
	"github.com/matzehuels/bendchain/pkg/scene"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

// chainScene returns a half circle A followed by a straight B, rigged A→B.
func chainScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	a, err := s.Add(scene.Node{Name: "A", Kind: scene.KindBend, Bend: bend.Params{Length: 2 * math.Pi, Strength: math.Pi}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Add(scene.Node{Name: "B", Kind: scene.KindBend, Bend: bend.Params{Length: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ApplyRig([]scene.NodeID{a.ID, b.ID}, bend.Link{}); err != nil {
		t.Fatal(err)
	}
	return s
}

func writeScene(t *testing.T, s *scene.Scene, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := sceneio.Export(s, path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, png,,json ", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseList(t *testing.T) {
	if got := parseList(" upper, lower ,,hand"); !reflect.DeepEqual(got, []string{"upper", "lower", "hand"}) {
		t.Errorf("parseList() = %v", got)
	}
	if got := parseList(""); got != nil {
		t.Errorf("parseList(\"\") = %v, want nil", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		input  string
		format string
		multi  bool
		want   string
	}{
		{"from input", "", "arm.yaml", "svg", false, "arm.svg"},
		{"from input multi", "", "scenes/arm.yaml", "png", true, "scenes/arm.png"},
		{"input collision", "", "arm.json", "json", false, "arm.out.json"},
		{"explicit single", "out/drawing.svg", "arm.yaml", "svg", false, "out/drawing.svg"},
		{"explicit multi", "out/drawing.svg", "arm.yaml", "png", true, "out/drawing.png"},
		{"base without ext", "out/arm", "arm.yaml", "dot", true, "out/arm.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.base, tt.input, tt.format, tt.multi); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtVec(t *testing.T) {
	if got := fmtVec([3]float64{-1e-12, 1, 2.5}); got != "(0, 1, 2.5)" {
		t.Errorf("fmtVec() = %q", got)
	}
}

func TestTipNode(t *testing.T) {
	s := chainScene(t)

	n, err := tipNode(s, "")
	if err != nil {
		t.Fatalf("tipNode() error: %v", err)
	}
	if n.Name != "B" {
		t.Errorf("tipNode() = %s, want chain end B", n.Name)
	}

	n, err = tipNode(s, "A")
	if err != nil || n.Name != "A" {
		t.Errorf("tipNode(A) = %v, %v", n, err)
	}

	if _, err := tipNode(s, "missing"); err == nil {
		t.Error("tipNode(missing) should fail")
	}

	nulls := scene.New()
	if _, err := nulls.Add(scene.Node{Name: "N", Kind: scene.KindNull}); err != nil {
		t.Fatal(err)
	}
	if _, err := tipNode(nulls, ""); !errors.Is(err, errors.ErrCodeNoBendSelected) {
		t.Errorf("tipNode() on nulls error = %v, want NO_BEND_SELECTED", err)
	}
}

func TestTipPointHalfCircle(t *testing.T) {
	s := chainScene(t)
	if _, err := scene.NewEvaluator(nil).Evaluate(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	a, _ := s.Lookup("A")
	b, _ := s.Lookup("B")

	end := tipPoint(a)
	if math.Abs(end[0]-4) > 1e-9 || math.Abs(end[1]+math.Pi) > 1e-9 {
		t.Errorf("tip of A = %v, want (4, -π, 0)", end)
	}
	tip := tipPoint(b)
	if math.Abs(tip[0]-4) > 1e-9 || math.Abs(tip[1]-(-math.Pi-2)) > 1e-9 {
		t.Errorf("tip of B = %v, want (4, -π-2, 0)", tip)
	}
}

// =============================================================================
// Tuner
// =============================================================================

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m TunerModel, keys ...string) TunerModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(TunerModel)
	}
	return m
}

func TestTunerStrength(t *testing.T) {
	s := chainScene(t)
	m := NewTunerModel(context.Background(), s, scene.NewEvaluator(nil))
	if m.Err != nil {
		t.Fatalf("initial evaluation error: %v", m.Err)
	}
	b, _ := s.Lookup("B")
	before := b.World.Pos

	m = press(t, m, "right", "right")
	a, _ := s.Lookup("A")
	if want := math.Pi + 2*5*math.Pi/180; math.Abs(a.Bend.Strength-want) > 1e-12 {
		t.Errorf("A strength = %v, want %v", a.Bend.Strength, want)
	}
	if geom.Near(b.World.Pos, before, 1e-9) {
		t.Error("B did not move after A's strength changed")
	}

	m = press(t, m, "0")
	if a.Bend.Strength != 0 {
		t.Errorf("reset strength = %v, want 0", a.Bend.Strength)
	}
	if m.Err != nil {
		t.Errorf("Err = %v", m.Err)
	}
}

func TestTunerLink(t *testing.T) {
	s := chainScene(t)
	m := NewTunerModel(context.Background(), s, scene.NewEvaluator(nil))
	b, _ := s.Lookup("B")
	before := b.World.Pos

	m = press(t, m, "down", "tab", "right", "right", "right")
	if m.Cursor != 1 || m.Field != fieldOffset {
		t.Fatalf("cursor = %d field = %s, want 1 offset", m.Cursor, m.Field)
	}
	if math.Abs(b.Tag.Link.Offset-0.3) > 1e-12 {
		t.Errorf("offset = %v, want 0.3", b.Tag.Link.Offset)
	}
	// A half circle points the chain down -Y, so the gap moves B down.
	if got := before.Y() - b.World.Pos.Y(); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("B moved %v along the chain, want 0.3", got)
	}

	m = press(t, m, "tab", "left")
	if m.Field != fieldRotation {
		t.Fatalf("field = %s, want rotation", m.Field)
	}
	if want := -5 * math.Pi / 180; math.Abs(b.Tag.Link.Rotation-want) > 1e-12 {
		t.Errorf("rotation = %v, want %v", b.Tag.Link.Rotation, want)
	}
}

func TestTunerNavigationBounds(t *testing.T) {
	m := NewTunerModel(context.Background(), chainScene(t), scene.NewEvaluator(nil))
	m = press(t, m, "up", "down", "down", "down")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want clamp at 1", m.Cursor)
	}
	m = press(t, m, "tab", "tab", "tab")
	if m.Field != fieldStrength {
		t.Errorf("Field = %s, want wrap to strength", m.Field)
	}
}

func TestTunerSaveAndQuit(t *testing.T) {
	m := NewTunerModel(context.Background(), chainScene(t), scene.NewEvaluator(nil))

	next, cmd := m.Update(key("s"))
	if !next.(TunerModel).Saved || cmd == nil {
		t.Error("s should save and quit")
	}
	next, cmd = m.Update(key("q"))
	if next.(TunerModel).Saved || cmd == nil {
		t.Error("q should quit without saving")
	}
}

func TestTunerView(t *testing.T) {
	m := NewTunerModel(context.Background(), chainScene(t), scene.NewEvaluator(nil))
	view := m.View()
	for _, want := range []string{"Tune Chain", "A", "B", "180°", "Strength"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestTunerDelete(t *testing.T) {
	s := chainScene(t)
	m := NewTunerModel(context.Background(), s, scene.NewEvaluator(nil))
	b, _ := s.Lookup("B")
	before := b.World.Pos

	m = press(t, m, "x")
	if m.Err != nil {
		t.Fatalf("evaluation after delete: %v", m.Err)
	}
	if _, ok := s.Lookup("A"); ok || s.Len() != 1 {
		t.Fatalf("A still in scene (%d nodes)", s.Len())
	}
	if !geom.Near(b.World.Pos, before, 1e-9) {
		t.Errorf("B moved to %v after its predecessor was deleted, want %v", b.World.Pos, before)
	}

	m = press(t, m, "down", "delete", "x")
	if s.Len() != 0 || m.Cursor != 0 {
		t.Errorf("after deleting all: %d nodes, cursor %d", s.Len(), m.Cursor)
	}
}

func TestKeyedFrames(t *testing.T) {
	s := chainScene(t)
	if _, _, ok := keyedFrames(s); ok {
		t.Error("keyedFrames() ok for a scene without tracks")
	}

	a, _ := s.Lookup("A")
	b, _ := s.Lookup("B")
	var err error
	if a.Track, err = scene.NewTrack(scene.Keyframe{Frame: 2.5, Value: 0}, scene.Keyframe{Frame: 8, Value: 1}); err != nil {
		t.Fatal(err)
	}
	if b.Track, err = scene.NewTrack(scene.Keyframe{Frame: 4, Value: 0}, scene.Keyframe{Frame: 9.2, Value: 1}); err != nil {
		t.Fatal(err)
	}
	from, to, ok := keyedFrames(s)
	if !ok || from != 2 || to != 10 {
		t.Errorf("keyedFrames() = %d, %d, %v, want 2, 10, true", from, to, ok)
	}
}

func TestRunAnimateKeyedRange(t *testing.T) {
	defer observability.Reset()
	s := chainScene(t)
	a, _ := s.Lookup("A")
	a.Track, _ = scene.NewTrack(scene.Keyframe{Frame: 3, Value: math.Pi}, scene.Keyframe{Frame: 6, Value: 0})
	path := writeScene(t, s, "anim.json")

	var logs bytes.Buffer
	c := New(&logs, LogDebug)
	out := captureStdout(t)
	if err := c.runAnimate(context.Background(), path, animateOpts{to: 24, keyedRange: true}); err != nil {
		t.Fatalf("runAnimate() error: %v", err)
	}
	if !strings.Contains(logs.String(), "from=3") || !strings.Contains(logs.String(), "to=6") {
		t.Errorf("range not taken from the track:\n%s", logs.String())
	}
	if !strings.Contains(out.String(), "Tip of B") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunRig(t *testing.T) {
	s := scene.New()
	for _, name := range []string{"A", "B", "N"} {
		kind := scene.KindBend
		if name == "N" {
			kind = scene.KindNull
		}
		if _, err := s.Add(scene.Node{Name: name, Kind: kind, Bend: bend.Params{Length: 1}}); err != nil {
			t.Fatal(err)
		}
	}
	path := writeScene(t, s, "scene.json")
	out := filepath.Join(filepath.Dir(path), "rigged.yaml")

	c := testCLI()
	if err := c.runRig(path, rigOpts{selection: "B,N,A", output: out, offset: 0.5, rotation: 90}); err != nil {
		t.Fatalf("runRig() error: %v", err)
	}

	got, err := sceneio.Import(out)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	a, _ := got.Lookup("A")
	b, _ := got.Lookup("B")
	n, _ := got.Lookup("N")
	if !b.Rigged() || b.Tag.Predecessor != "" {
		t.Errorf("B should start the chain, tag = %+v", b.Tag)
	}
	if !a.Rigged() || a.Tag.Predecessor != b.ID {
		t.Errorf("A should follow B, tag = %+v", a.Tag)
	}
	if n.Rigged() {
		t.Error("null node should not be rigged")
	}
	if a.Tag.Link.Offset != 0.5 || math.Abs(a.Tag.Link.Rotation-math.Pi/2) > 1e-12 {
		t.Errorf("link = %+v, want offset 0.5 rotation π/2", a.Tag.Link)
	}
}

func TestRunRigUnknownNode(t *testing.T) {
	path := writeScene(t, chainScene(t), "scene.json")
	err := testCLI().runRig(path, rigOpts{selection: "A,missing"})
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("runRig() error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestRunRender(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeScene(t, chainScene(t), "arm.json")
	base := filepath.Join(t.TempDir(), "out")

	c := testCLI()
	err := c.runRender(context.Background(), path, nil, renderOpts{
		output:  base,
		formats: []string{"svg", "json"},
		width:   200,
		height:  100,
		scale:   1,
		labels:  true,
	})
	if err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg output is not an SVG document")
	}
	evaluated, err := sceneio.Import(base + ".json")
	if err != nil {
		t.Fatalf("Import(json) error: %v", err)
	}
	b, _ := evaluated.Lookup("B")
	if math.Abs(b.World.Pos.X()-4) > 1e-9 || math.Abs(b.World.Pos.Y()+math.Pi+1) > 1e-9 {
		t.Errorf("B = %v, want (4, -π-1, 0)", b.World.Pos)
	}
}

func TestApplyRenderConfig(t *testing.T) {
	c := testCLI()
	c.Config.Render.Width = 320
	c.Config.Render.Labels = false

	cmd := c.renderCommand()
	if err := cmd.Flags().Set("height", "90"); err != nil {
		t.Fatal(err)
	}
	opts := renderOpts{height: 90}
	c.applyRenderConfig(cmd, &opts)

	if opts.width != 320 || opts.height != 90 || opts.labels {
		t.Errorf("opts = %+v, want width from config and height from flag", opts)
	}
}

func TestConfigFile(t *testing.T) {
	c := testCLI()
	c.configPath = "/tmp/custom.toml"
	if got, err := c.configFile(); err != nil || got != "/tmp/custom.toml" {
		t.Errorf("configFile() = %q, %v", got, err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c.configPath = ""
	got, err := c.configFile()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, filepath.Join(appName, "config.toml")) {
		t.Errorf("configFile() = %q", got)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := testCLI().RootCommand()
	for _, name := range []string{"solve", "rig", "eval", "animate", "render", "tui", "serve", "cache", "config", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
