package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bendchain/pkg/scene"
)

// ToDOT converts the rig topology of s to Graphviz DOT format. Every node
// becomes a box labeled with its bend parameters; every rig link becomes an
// edge from predecessor to follower labeled with offset and twist.
//
// Non-bend nodes are drawn dashed, unrigged bends grey.
func ToDOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", string(n.ID), strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, n := range s.Nodes() {
		if !n.Rigged() || n.Tag.Predecessor == "" {
			continue
		}
		if _, ok := s.Node(n.Tag.Predecessor); !ok {
			continue
		}
		label := fmt.Sprintf("+%g / %g°", n.Tag.Link.Offset, round(mgl64.RadToDeg(n.Tag.Link.Rotation)))
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", string(n.Tag.Predecessor), string(n.ID), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *scene.Node) []string {
	label := n.Name
	if n.IsBend() {
		label = fmt.Sprintf("%s\nlength: %g\nstrength: %g°", n.Name, n.Bend.Length, round(mgl64.RadToDeg(n.Bend.Strength)))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case !n.IsBend():
		attrs = append(attrs, "style=\"rounded,dashed\"")
	case !n.Rigged():
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// round trims float noise from degree labels.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}

// DOTToSVG renders a DOT graph to SVG using Graphviz.
func DOTToSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// viewBox starts at the origin and whose size is in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
