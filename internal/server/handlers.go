package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/buildinfo"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/events"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/observability"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render/nodelink"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render/sink"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": buildinfo.Get().Short()})
}

func (s *Server) getFrame(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.scene.Last())
}

func (s *Server) getFrameSVG(w http.ResponseWriter, r *http.Request) {
	var opts []sink.SVGOption
	if r.URL.Query().Get("labels") != "false" {
		opts = append(opts, sink.WithLabels())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(sink.RenderSVG(s.scene.Last(), opts...))
}

func (s *Server) getGraphDOT(w http.ResponseWriter, r *http.Request) {
	opts := nodelink.Options{Detailed: r.URL.Query().Get("detailed") == "true"}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(nodelink.ToDOT(s.scene.Last(), opts)))
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	n := 1
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > maxStep {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "n must be in [1, %d], got %q", maxStep, q))
			return
		}
		n = v
	}
	var f scene.Frame
	for range n {
		f = s.scene.Frame(s.opts.FrameMs)
	}
	respondJSON(w, http.StatusOK, f)
}

func (s *Server) focus(w http.ResponseWriter, r *http.Request) {
	s.withNode(w, r, s.scene.Focus)
}

func (s *Server) clearFocus(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.scene.Focus(scene.None))
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	s.withNode(w, r, s.scene.Hover)
}

func (s *Server) clearHover(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.scene.Hover(scene.None))
}

func (s *Server) hide(w http.ResponseWriter, r *http.Request) {
	s.withNode(w, r, s.scene.Hide)
}

func (s *Server) show(w http.ResponseWriter, r *http.Request) {
	s.withNode(w, r, s.scene.Show)
}

func (s *Server) drag(w http.ResponseWriter, r *http.Request) {
	var pos geom.Vec2
	if !s.decode(w, r, &pos) {
		return
	}
	s.withNode(w, r, func(id int) error { return s.scene.Drag(id, pos) })
}

func (s *Server) endDrag(w http.ResponseWriter, r *http.Request) {
	s.scene.EndDrag()
	s.respond(w, r, nil)
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

func (s *Server) lock(w http.ResponseWriter, r *http.Request) {
	req := lockRequest{Locked: true}
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	s.withNode(w, r, func(id int) error { return s.scene.Lock(id, req.Locked) })
}

type zoomRequest struct {
	Dim int `json:"dim"`
	Rec int `json:"rec"`
}

func (s *Server) zoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.withNode(w, r, func(id int) error { return s.scene.Zoom(id, req.Dim, req.Rec) })
}

func (s *Server) resetZoom(w http.ResponseWriter, r *http.Request) {
	s.withNode(w, r, s.scene.ResetZoom)
}

type thresholdRequest struct {
	DimThreshold *float64 `json:"dimThreshold"`
	RecThreshold *float64 `json:"recThreshold"`
	DimTopN      int      `json:"dimTopN"`
	RecTopN      int      `json:"recTopN"`
	Global       bool     `json:"global"`
}

func (s *Server) thresholds(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if !s.decode(w, r, &req) {
		return
	}
	t := s.scene.Config().Thresholds
	if req.DimThreshold != nil {
		t.Dim = *req.DimThreshold
	}
	if req.RecThreshold != nil {
		t.Rec = *req.RecThreshold
	}
	s.withNode(w, r, func(id int) error {
		return s.scene.ApplyThresholds(r.Context(), events.Threshold{
			Node:         id,
			Global:       req.Global,
			DimThreshold: t.Dim,
			RecThreshold: t.Rec,
			DimTopN:      req.DimTopN,
			RecTopN:      req.RecTopN,
		})
	})
}

type bandHoverRequest struct {
	A    int    `json:"a"`
	B    int    `json:"b"`
	Axis string `json:"axis"`
}

func (s *Server) hoverBand(w http.ResponseWriter, r *http.Request) {
	var req bandHoverRequest
	if !s.decode(w, r, &req) {
		return
	}
	ax, err := parseAxis(req.Axis)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, s.scene.HoverBand(req.A, req.B, ax))
}

func (s *Server) clearBandHover(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.scene.HoverBand(scene.None, scene.None, overlap.Dim))
}

// Settings is the adjustable scene state exposed by /settings. Absent
// fields are left unchanged by POST.
type Settings struct {
	MaxDistance       *int     `json:"maxDistance,omitempty"`
	Repulsion         *float64 `json:"repulsion,omitempty"`
	AttractionFactor  *float64 `json:"attractionFactor,omitempty"`
	BorderForceFactor *float64 `json:"borderForceFactor,omitempty"`
	ShowDimBands      *bool    `json:"showDimBands,omitempty"`
	ShowRecBands      *bool    `json:"showRecBands,omitempty"`
	Sorting           *string  `json:"sorting,omitempty"`
	Search            *string  `json:"search,omitempty"`
	Width             *float64 `json:"width,omitempty"`
	Height            *float64 `json:"height,omitempty"`
}

func settingsOf(c scene.Config) Settings {
	sortMode := c.Sorting.String()
	return Settings{
		MaxDistance:       &c.MaxDistance,
		Repulsion:         &c.Layout.Repulsion,
		AttractionFactor:  &c.Layout.AttractionFactor,
		BorderForceFactor: &c.Layout.BorderForceFactor,
		ShowDimBands:      &c.ShowDimBands,
		ShowRecBands:      &c.ShowRecBands,
		Sorting:           &sortMode,
		Width:             &c.Width,
		Height:            &c.Height,
	}
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, settingsOf(s.scene.Config()))
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req Settings
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.apply(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settingsOf(s.scene.Config()))
}

// apply validates every field before changing anything, so a rejected
// request leaves the scene untouched.
func (s *Server) apply(req Settings) error {
	cfg := s.scene.Config()

	var mode *sorting.Mode
	if req.Sorting != nil {
		m, err := sorting.ParseMode(*req.Sorting)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "sorting")
		}
		mode = &m
	}
	forces := req.Repulsion != nil || req.AttractionFactor != nil || req.BorderForceFactor != nil
	lc := cfg.Layout
	if req.Repulsion != nil {
		lc.Repulsion = *req.Repulsion
	}
	if req.AttractionFactor != nil {
		lc.AttractionFactor = *req.AttractionFactor
	}
	if req.BorderForceFactor != nil {
		lc.BorderForceFactor = *req.BorderForceFactor
	}
	if err := lc.Validate(); err != nil {
		return err
	}
	if req.MaxDistance != nil && *req.MaxDistance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "maxDistance must not be negative, got %d", *req.MaxDistance)
	}
	width, height := cfg.Width, cfg.Height
	if req.Width != nil {
		width = *req.Width
	}
	if req.Height != nil {
		height = *req.Height
	}
	if err := errors.ValidatePositive("width", width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", height); err != nil {
		return err
	}

	if req.MaxDistance != nil {
		if err := s.scene.SetMaxDistance(*req.MaxDistance); err != nil {
			return err
		}
	}
	if forces {
		if err := s.scene.SetForces(lc.Repulsion, lc.AttractionFactor, lc.BorderForceFactor); err != nil {
			return err
		}
	}
	if req.ShowDimBands != nil || req.ShowRecBands != nil {
		dim, rec := cfg.ShowDimBands, cfg.ShowRecBands
		if req.ShowDimBands != nil {
			dim = *req.ShowDimBands
		}
		if req.ShowRecBands != nil {
			rec = *req.ShowRecBands
		}
		s.scene.ShowBands(dim, rec)
	}
	if mode != nil {
		s.scene.SetSorting(*mode)
	}
	if req.Search != nil {
		s.scene.Search(*req.Search)
	}
	if req.Width != nil || req.Height != nil {
		return s.scene.Resize(width, height)
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) withNode(w http.ResponseWriter, r *http.Request, fn func(id int) error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", chi.URLParam(r, "id")))
		return
	}
	s.respond(w, r, fn(id))
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, status, map[string]any{
		"error":   true,
		"code":    errors.GetCode(err),
		"message": errors.UserMessage(err),
	})
}

func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDataset:
		return http.StatusBadRequest
	case errors.ErrCodeDataUnavailable:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseAxis(s string) (overlap.Axis, error) {
	switch s {
	case "dim":
		return overlap.Dim, nil
	case "rec":
		return overlap.Rec, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown axis %q", s)
}
