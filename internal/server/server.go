package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/onereel/onereel/internal/httputil"
	"github.com/onereel/onereel/internal/playback"
)

// SubtitlePrefix is where published subtitle tracks are served.
const SubtitlePrefix = "/subtitles/"

type Loader interface {
	Load(ctx context.Context) (playback.View, error)
}

type Config struct {
	Session Loader
	// Subtitles serves the handles published under SubtitlePrefix.
	Subtitles     http.Handler
	StorageOrigin string
	BaseURL       string
}

type Server struct {
	router    chi.Router
	session   Loader
	subtitles http.Handler
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(slogMiddleware)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:       cfg.BaseURL,
		StorageOrigin: cfg.StorageOrigin,
	}))

	s := &Server{router: r, session: cfg.Session, subtitles: cfg.Subtitles}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.NotFound(s.handleNotFound)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/", s.handleWatch)
	if s.subtitles != nil {
		s.router.Handle(SubtitlePrefix+"*", s.subtitles)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, http.StatusNotFound, "not found")
}
