package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rcrowley/go-metrics"
	"golang.org/x/time/rate"

	"github.com/PolarWolf314/strongroom/internal/configs"
	logger "github.com/PolarWolf314/strongroom/internal/logging"
)

const (
	sessionTTL      = 12 * time.Hour
	limiterTTL      = time.Hour
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server serves the JSON API.
type Server struct {
	addr   string
	logger logger.Logger
	router chi.Router

	sessions     *sessionStore
	loginLimiter *multiLimiter

	requests      metrics.Timer
	loginFailures metrics.Counter
}

// New returns a Server for config, logging through log.
func New(config *configs.Config, log logger.Logger) *Server {
	perMinute := config.Server.LoginRatePerMinute

	s := &Server{
		addr:          config.Server.Address,
		logger:        log,
		sessions:      newSessionStore(sessionTTL),
		loginLimiter:  newMultiLimiter(rate.Limit(float64(perMinute)/time.Minute.Seconds()), perMinute, limiterTTL),
		requests:      metrics.GetOrRegisterTimer("http.requests", nil),
		loginFailures: metrics.GetOrRegisterCounter("http.login.failed", nil),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on http://%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/setup", s.handleSetup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/metrics", s.handleMetrics)

			r.Get("/notes", s.handleListNotes)
			r.Post("/notes", s.handleCreateNote)
			r.Post("/notes/{file}/open", s.handleOpenNote)
			r.Post("/notes/{file}/save", s.handleSaveNote)

			r.Get("/vault", s.handleListEntries)
			r.Post("/vault", s.handleAddEntry)
			r.Put("/vault/{id}", s.handleUpdateEntry)
			r.Post("/vault/rekey", s.handleRekeyVault)

			r.Get("/folders", s.handleListFolders)
			r.Post("/folders", s.handleFolderAction)
		})
	})

	s.router = r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.requests.UpdateSince(start)
		s.logger.Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || !s.sessions.valid(cookie.Value) {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
