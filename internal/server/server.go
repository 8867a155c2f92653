// Package server serves a live scene over HTTP.
//
// A ticker advances the simulation in the background; clients poll the
// latest frame and post interactions. Interactions answer 204 and show up
// in the next frame:
//
//	GET    /health
//	GET    /frame                  latest frame as JSON
//	GET    /frame.svg              latest frame as SVG
//	GET    /graph.dot              overlap graph as DOT
//	POST   /frame/step?n=10        advance n frames now
//	POST   /nodes/{id}/focus       DELETE /focus clears
//	POST   /nodes/{id}/hover       DELETE /hover clears
//	POST   /nodes/{id}/drag        {"x":..,"y":..}; DELETE /drag ends
//	POST   /nodes/{id}/hide        POST /nodes/{id}/show
//	POST   /nodes/{id}/lock        {"locked":true}
//	POST   /nodes/{id}/zoom        {"dim":1,"rec":-1}; DELETE resets
//	POST   /nodes/{id}/thresholds  {"dimThreshold":..,"recThreshold":..}
//	POST   /bands/hover            {"a":0,"b":1,"axis":"dim"}; DELETE clears
//	GET    /settings               POST /settings updates
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

// Defaults for [Options].
const (
	DefaultTick    = 33 * time.Millisecond
	DefaultFrameMs = 16.0
	maxStep        = 1000
)

// Options configures a [Server].
type Options struct {
	// Tick is the wall-clock interval between background frames. Zero
	// disables the background loop; frames then advance only via
	// POST /frame/step.
	Tick time.Duration

	// FrameMs is the simulated time per frame.
	FrameMs float64
}

// Server owns the HTTP handlers for one scene.
type Server struct {
	scene  *scene.Scene
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server for sc.
func New(sc *scene.Scene, opts Options, logger *log.Logger) *Server {
	if opts.FrameMs <= 0 {
		opts.FrameMs = DefaultFrameMs
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{scene: sc, opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(hooksMiddleware)
	r.Use(logMiddleware(s.logger))

	r.Get("/health", s.health)

	r.Get("/frame", s.getFrame)
	r.Get("/frame.svg", s.getFrameSVG)
	r.Get("/graph.dot", s.getGraphDOT)
	r.Post("/frame/step", s.step)

	r.Delete("/focus", s.clearFocus)
	r.Delete("/hover", s.clearHover)
	r.Delete("/drag", s.endDrag)

	r.Route("/nodes/{id}", func(r chi.Router) {
		r.Post("/focus", s.focus)
		r.Post("/hover", s.hover)
		r.Post("/drag", s.drag)
		r.Post("/hide", s.hide)
		r.Post("/show", s.show)
		r.Post("/lock", s.lock)
		r.Post("/zoom", s.zoom)
		r.Delete("/zoom", s.resetZoom)
		r.Post("/thresholds", s.thresholds)
	})

	r.Post("/bands/hover", s.hoverBand)
	r.Delete("/bands/hover", s.clearBandHover)

	r.Get("/settings", s.getSettings)
	r.Post("/settings", s.updateSettings)
	return r
}

// Run advances the scene every Tick until ctx is done.
func (s *Server) Run(ctx context.Context) {
	if s.opts.Tick <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(s.opts.Tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.scene.Frame(s.opts.FrameMs)
		}
	}
}

// ListenAndServe serves on addr and runs the simulation loop until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	go s.Run(loopCtx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "tick", s.opts.Tick)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
