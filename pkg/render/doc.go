// Package render draws evaluated bend chains.
//
// # Overview
//
// Rendering starts from a [View], a 2D projection of a scene built by
// [SideView] after the scene has been evaluated. Every bend becomes a
// polyline sampled along its bent center line in world space, so the
// drawing shows exactly where the chain solver placed each segment.
//
//	ev := scene.NewEvaluator(logger)
//	if _, err := ev.Evaluate(ctx, s); err != nil { ... }
//	view := render.SideView(s, render.DefaultSegments)
//	err := render.SVG(w, view, render.DefaultOptions())
//	err = render.PNG(w, view, render.DefaultOptions())
//
// # Formats
//
//   - [SVG] writes a vector drawing, one polyline per node.
//   - [PNG] rasterizes the same drawing with golang.org/x/image/vector.
//   - [ToDOT] and [DOTToSVG] draw the rig topology (which node follows
//     which) as a Graphviz graph rather than as geometry.
package render
