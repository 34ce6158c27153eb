// Package scene is the host side of a bend chain: a table of nodes, the rig
// tags that link them, and the evaluation loop that drives [bend.Solve].
//
// # Nodes and Links
//
// A [Scene] owns its nodes. Links between nodes are [NodeID] handles stored
// in a node's [RigTag], never pointers, so removing or replacing a node
// cannot leave a dangling reference behind; a link to a missing node simply
// means the node starts a chain.
//
// # Rigging
//
// [Scene.ApplyRig] takes a selection in the order the user picked it. Every
// bend in the selection gets a rig tag (existing tags are reused), and every
// bend after the first is linked to the bend selected just before it.
// Extending a chain is therefore "select the old tail, then the new bends".
//
// # Evaluation
//
// [Evaluator.Evaluate] runs one tick: nodes are visited in dependency order
// ([Scene.Order]) and every rigged node with a bend predecessor has its world
// transform recomputed from scratch. [Evaluator.EvaluateFrame] first samples
// strength animation tracks, and [Evaluator.Run] steps through a frame range.
package scene
