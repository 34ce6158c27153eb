// Package bend places bend deformers along a chain.
//
// A bend deformer curves geometry along its local Y axis by a signed angle
// (its strength) over its length. In a chain, every bend after the first
// sits where its predecessor's curve ends, pointing along the curve's
// tangent, so bending the first segment carries the rest of the chain
// around with it.
//
// [Solve] is the whole placement algorithm. It is a pure function: the
// result depends only on the node's own length, the predecessor's
// [Params] and world transform, and the node's [Link]. Callers recompute
// every node on every evaluation, predecessors first; nothing is carried
// over between evaluations.
//
// # Branches
//
// A predecessor with non-zero strength is treated as an arc of a circle of
// radius length/strength; the node starts at the arc's end point. A
// predecessor with strength exactly zero is a straight extrusion along its
// Y axis. The comparison is exact, so strengths very close to zero take the
// curved branch and converge to the straight result.
package bend
