// Package pkg provides the core libraries for bendchain.
//
// # Overview
//
// bendchain chains bend deformers: every bend after the first is placed so
// that it starts where its predecessor's bent center line ends and continues
// along that curve's tangent. The pkg directory is organized into three main
// areas:
//
//  1. Domain logic: [geom], [bend] and [scene]
//  2. Serialization: [io] and [render]
//  3. Infrastructure: [pipeline], [cache], [server] and [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Scene file (JSON, TOML, YAML)
//	         ↓
//	    [io] package (decode into a scene)
//	         ↓
//	    [scene] package (rig links, order, evaluate)
//	         ↓
//	    [bend] package (place one node after its predecessor)
//	         ↓
//	    [render] package (SVG, PNG, DOT)
//
// # Quick Start
//
// Place one bend after a half circle:
//
//	pred := bend.Params{Length: 2 * math.Pi, Strength: math.Pi}
//	self := bend.Params{Length: 2}
//	world, _ := bend.Solve(self, pred, geom.Identity(), bend.Link{})
//	// world.Pos is (4, -π-1, 0)
//
// Evaluate a scene file:
//
//	s, _ := io.Import("arm.yaml")
//	res, _ := scene.NewEvaluator(nil).Evaluate(ctx, s)
//
// # Main Packages
//
// [geom] - Rotation matrices, HPB angles and rigid transforms in a
// left-handed, Y-up frame.
//
// [bend] - Bend parameters and the single-node placement solver.
//
// [scene] - Nodes, rig tags, evaluation order and strength tracks.
//
// [io] - Scene documents in JSON, TOML and YAML.
//
// [render] - Side-view drawings and Graphviz link diagrams.
//
// [pipeline] - Evaluate and render with caching, shared by the CLI and the
// HTTP server.
//
// [cache] - File, Redis and null caches with observability hooks.
//
// [server] - JSON HTTP API on top of the pipeline.
//
// [errors] - Coded errors shared by every layer.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/geom
// [bend]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/bend
// [scene]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/scene
// [io]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bendchain/pkg/errors
package pkg
