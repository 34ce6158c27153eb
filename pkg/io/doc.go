// Package io reads and writes bend chain scenes as JSON, TOML or YAML.
//
// # Overview
//
// A scene document lists nodes in order. Each node carries its bend state,
// its world transform and, when rigged, its chain link:
//
//	{
//	  "version": 1,
//	  "nodes": [
//	    {"name": "Bend", "length": 10, "strength": 0.8},
//	    {"name": "Bend.1", "length": 10,
//	     "rig": {"predecessor": "Bend", "offset": 0, "rotation": 0}}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - name: Display name, unique enough to be referenced
//
// Optional:
//   - id: Stable identifier (a UUID is generated if omitted)
//   - kind: "bend" (default) or "null"
//   - length, strength, direction: Bend state; angles in radians
//   - keep_y_axis: Set by the rig
//   - position, hpb: World transform; hpb is heading, pitch, bank in radians
//   - rig: Chain link; predecessor may name a node by id or name
//   - track: Strength keyframes, [{frame, value}]
//
// # Formats
//
// [Import] and [Export] pick the encoding from the file extension
// (.json, .toml, .yaml, .yml). [Read] and [Write] take an explicit [Format]
// for use with arbitrary readers and writers.
//
// Round trips preserve ids, links, link config and tracks. World transforms
// are stored as position plus HPB, so any scale or shear in an authored
// orientation is dropped on export.
package io
