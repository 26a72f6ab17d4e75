// Package server exposes cards, layouts and rendered frames over HTTP and
// streams live scene frames over a WebSocket.
//
// # Routes
//
//	GET /healthz                 build info
//	GET /api/modes               layout modes and their capacities
//	GET /api/cards               cards from the configured source
//	GET /api/layouts/{mode}      targets for ?count=N cards
//	GET /api/frame.{svg,json,png,pdf} settled frame after ?mode=a,b,...
//	GET /api/me                  profile of the signed-in user
//	GET /ws                      live frames; accepts control messages
//	GET /auth/login              start Google sign-in
//	GET /auth/callback           OAuth redirect target
//	GET /auth/logout             end the session
//
// Query parameters width, height, seed and refresh apply wherever a scene
// is simulated.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/pipeline"
	"github.com/matzehuels/cardstage/pkg/session"
)

const (
	// DefaultStreamFPS is the tick rate of /ws scenes.
	DefaultStreamFPS = 30

	// MaxLayoutCount bounds ?count on /api/layouts.
	MaxLayoutCount = 10000

	shutdownTimeout = 10 * time.Second
)

// Config wires a Server.
type Config struct {
	// Runner fetches rows and renders frames. Required.
	Runner *pipeline.Runner

	// Defaults are the base pipeline options; query parameters override
	// modes, size and seed per request.
	Defaults pipeline.Options

	// OAuth enables the /auth routes. Nil disables sign-in.
	OAuth *google.OAuthClient

	// Profiles fetches the signed-in user's profile. Nil uses Google.
	Profiles *google.ProfileClient

	// Sessions and States default to in-memory stores.
	Sessions session.Store
	States   session.StateStore

	SessionTTL   time.Duration
	SecureCookie bool
	StreamFPS    int
	Logger       *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg      Config
	log      *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader
}

// New builds a Server and its routes.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.States == nil {
		cfg.States = session.NewMemoryStateStore()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.StreamFPS <= 0 {
		cfg.StreamFPS = DefaultStreamFPS
	}

	s := &Server{
		cfg: cfg,
		log: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/modes", s.handleModes)
		r.Get("/cards", s.handleCards)
		r.Get("/layouts/{mode}", s.handleLayout)
		r.Get("/frame.svg", s.handleFrame(pipeline.FormatSVG))
		r.Get("/frame.json", s.handleFrame(pipeline.FormatJSON))
		r.Get("/frame.png", s.handleFrame(pipeline.FormatPNG))
		r.Get("/frame.pdf", s.handleFrame(pipeline.FormatPDF))
		r.Get("/me", s.handleMe)
	})

	r.Get("/ws", s.handleStream)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleLogin)
		r.Get("/callback", s.handleCallback)
		r.Get("/logout", s.handleLogout)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
