// Package server exposes board operations as a JSON HTTP API.
//
// Every route works on one board document addressed by its id. Mutations go
// through the service, so they are serialized, recorded in the board history
// and persisted before the response is written. The preview route resolves a
// drag position without saving it and is meant to be called on every frame.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sprintboard/pkg/buildinfo"
	"github.com/matzehuels/sprintboard/pkg/config"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// maxBody bounds request bodies, including imported documents.
const maxBody = 4 << 20

// Options configures a Server.
type Options struct {
	Config  config.Server
	Metrics layout.Metrics
	Logger  *log.Logger
}

// Server serves the board API.
type Server struct {
	svc     *service.Service
	cfg     config.Server
	metrics layout.Metrics
	logger  *log.Logger
	router  chi.Router
}

// New builds a server over svc.
func New(svc *service.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Metrics.SprintWidth <= 0 {
		opts.Metrics = layout.DefaultMetrics()
	}
	s := &Server{
		svc:     svc,
		cfg:     opts.Config,
		metrics: opts.Metrics,
		logger:  opts.Logger.With("svc", "http"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(serverHeader)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})

	r.Route("/api/boards", func(r chi.Router) {
		r.Get("/", s.listBoards)
		r.Post("/", s.createBoard)

		r.Route("/{board}", func(r chi.Router) {
			r.Get("/", s.getBoard)
			r.Put("/", s.importBoard)
			r.Delete("/", s.deleteBoard)
			r.Patch("/", s.updateBoard)
			r.Get("/export", s.exportBoard)

			r.Post("/undo", s.undo)
			r.Post("/redo", s.redo)
			r.Post("/relayout", s.relayout)
			r.Post("/preview", s.preview)

			r.Post("/sprints", s.addSprint)
			r.Patch("/sprints/{sprint}", s.updateSprint)
			r.Delete("/sprints/{sprint}", s.deleteSprint)

			r.Post("/members", s.addMember)
			r.Patch("/members/{member}", s.updateMember)
			r.Delete("/members/{member}", s.deleteMember)

			r.Post("/tasks", s.addTask)
			r.Patch("/tasks/{task}", s.updateTask)
			r.Delete("/tasks/{task}", s.deleteTask)
			r.Post("/tasks/{task}/place", s.placeTask)
			r.Post("/tasks/{task}/resize", s.resizeTask)
			r.Post("/tasks/{task}/unassign", s.unassignTask)
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
