package server

import (
	"net/http"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/buildinfo"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/pipeline"
)

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// =============================================================================
// Solve
// =============================================================================

// transformJSON is a world transform as position plus heading, pitch and
// bank in radians.
type transformJSON struct {
	Position [3]float64 `json:"position"`
	HPB      [3]float64 `json:"hpb"`
}

func (t transformJSON) transform() geom.Transform {
	return geom.Place(mgl64.Vec3(t.Position), t.HPB[0], t.HPB[1], t.HPB[2])
}

func (t transformJSON) validate(field string) error {
	for _, v := range append(t.Position[:], t.HPB[:]...) {
		if err := errors.ValidateFinite(field, v); err != nil {
			return err
		}
	}
	return nil
}

func toTransformJSON(t geom.Transform) transformJSON {
	h, p, b := geom.ToHPB(t.Rot)
	return transformJSON{Position: t.Pos, HPB: [3]float64{h, p, b}}
}

type solveRequest struct {
	Self             bend.Params   `json:"self"`
	Predecessor      bend.Params   `json:"predecessor"`
	PredecessorWorld transformJSON `json:"predecessor_world"`
	Link             bend.Link     `json:"link"`
}

func (req solveRequest) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"self.length", req.Self.Length},
		{"predecessor.length", req.Predecessor.Length},
		{"predecessor.strength", req.Predecessor.Strength},
		{"link.offset", req.Link.Offset},
		{"link.rotation", req.Link.Rotation},
	} {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	return req.PredecessorWorld.validate("predecessor_world")
}

type solveResponse struct {
	transformJSON
	Matrix [9]float64 `json:"matrix"` // Orientation, column-major
	Curved bool       `json:"curved"` // Whether the arc branch was taken
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	world, err := bend.Solve(req.Self, req.Predecessor, req.PredecessorWorld.transform(), req.Link)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{
		transformJSON: toTransformJSON(world),
		Matrix:        [9]float64(world.Rot),
		Curved:        req.Predecessor.Curved(),
	})
}

// =============================================================================
// Evaluate
// =============================================================================

type evaluateRequest struct {
	Scene   sceneio.Document `json:"scene"`
	Frame   *float64         `json:"frame,omitempty"`
	Refresh bool             `json:"refresh,omitempty"`
}

type evaluateResponse struct {
	Scene     sceneio.Document `json:"scene"`
	SceneHash string           `json:"scene_hash"`
	Placed    int              `json:"placed"`
	Skipped   int              `json:"skipped"`
	Cached    bool             `json:"cached"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sc, err := req.Scene.ToScene()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.EvaluateWithCacheInfo(r.Context(), sc, pipeline.Options{
		Frame:   req.Frame,
		Refresh: req.Refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{
		Scene:     sceneio.FromScene(result.Scene),
		SceneHash: result.SceneHash,
		Placed:    result.Eval.Placed,
		Skipped:   result.Eval.Skipped,
		Cached:    result.CacheInfo.EvalHit,
	})
}

// =============================================================================
// Render
// =============================================================================

type renderRequest struct {
	Scene  sceneio.Document `json:"scene"`
	Frame  *float64         `json:"frame,omitempty"`
	Format string           `json:"format,omitempty"`
	Width  int              `json:"width,omitempty"`
	Height int              `json:"height,omitempty"`
	Scale  float64          `json:"scale,omitempty"`
	Labels bool             `json:"labels,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(req.Format); err != nil {
		writeError(w, err)
		return
	}
	sc, err := req.Scene.ToScene()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), sc, pipeline.Options{
		Frame:   req.Frame,
		Formats: []string{req.Format},
		Width:   req.Width,
		Height:  req.Height,
		Scale:   req.Scale,
		Labels:  req.Labels,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[req.Format])
}
