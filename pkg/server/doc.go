// Package server exposes the chain solver over HTTP.
//
// # Endpoints
//
//	GET  /healthz       liveness and build version
//	POST /v1/solve      place one node after one predecessor
//	POST /v1/evaluate   evaluate a scene document, optionally at a frame
//	POST /v1/render     evaluate and draw a scene (svg, png, dot, json)
//
// Request and response bodies are JSON. Angles are in radians, matching
// scene documents. Errors are reported as {"code": ..., "message": ...}
// with the status chosen by the error code: input and domain errors are
// 400, a link cycle is 422, anything else is 500.
//
// Every request builds its own scene, so handlers share no mutable state.
// Evaluations and artifacts go through a [pipeline.Runner] and its cache.
package server
