package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/spotcheck"
	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/observability"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed openapi.yaml
var rawSpec []byte

// DefaultCookieName carries the identity token.
const DefaultCookieName = "spotcheck_session"

// Interactor runs one participant interaction.
type Interactor interface {
	Interact(ctx context.Context, token string, in domain.Interaction) (*spotcheck.Outcome, error)
}

// Server serves the interaction endpoint.
type Server struct {
	engine Interactor
	logger *slog.Logger

	cookieName   string
	cookieSecure bool
	cookieMaxAge time.Duration

	imagesDir      string
	metrics        *observability.Metrics
	metricsHandler http.Handler
	health         func(ctx context.Context) error
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCookie configures the identity cookie. A zero maxAge makes it a browser-session cookie.
func WithCookie(name string, secure bool, maxAge time.Duration) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
		s.cookieSecure = secure
		s.cookieMaxAge = maxAge
	}
}

// WithImages serves step images from dir under /images/.
func WithImages(dir string) Option {
	return func(s *Server) {
		s.imagesDir = dir
	}
}

// WithMetrics instruments the interaction endpoint and mounts handler at /metrics.
func WithMetrics(m *observability.Metrics, handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsHandler = handler
	}
}

// WithHealthCheck makes /health report 503 when check fails.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.health = check
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Interactor, opts ...Option) http.Handler {
	s := &Server{
		engine:     engine,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})

	r.Group(func(r chi.Router) {
		if s.metrics != nil {
			r.Use(s.metrics.Instrument)
		}
		r.Get("/api/test", s.Interact)
		r.Post("/api/test", s.Interact)
	})

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}
	if s.imagesDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", noListing(http.FileServer(http.Dir(s.imagesDir)))))
	}
	return r
}

// securityHeaders sets the browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; frame-ancestors 'self'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Response is the body of every interaction response.
type Response struct {
	View  *domain.View `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Interact handles GET and POST /api/test.
func (s *Server) Interact(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	in, err := decodeInteraction(w, r)
	if err != nil {
		log.Warn("Interact: invalid request body", "err", err)
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid request"})
		return
	}

	token := s.token(r)
	out, err := s.engine.Interact(r.Context(), token, in)
	if err != nil {
		s.fail(w, log, out, err)
		return
	}

	// A render never persists anything, so a token minted for it is not worth keeping.
	if !in.IsRender() && out.Token != token {
		s.setCookie(w, out.Token)
	}
	writeJSON(w, http.StatusOK, Response{View: &out.View})
}

func (s *Server) fail(w http.ResponseWriter, log *slog.Logger, out *spotcheck.Outcome, err error) {
	var view *domain.View
	if out != nil {
		view = &out.View
	}

	switch {
	case domain.IsProtocolError(err):
		log.Info("Interact: client out of sync", "err", err)
		writeJSON(w, http.StatusConflict, Response{View: view, Error: "request does not match the current step"})
	case errors.Is(err, domain.ErrInvalidQuestionnaire):
		log.Info("Interact: questionnaire rejected", "err", err)
		writeJSON(w, http.StatusBadRequest, Response{View: view, Error: "please answer every question (difficulty 1-10)"})
	case errors.Is(err, domain.ErrEmptyCatalog):
		log.Warn("Interact: no steps configured")
		writeJSON(w, http.StatusServiceUnavailable, Response{Error: "no test steps configured; add steps with 'spotcheck steps add'"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		log.Error("Interact: catalog unavailable", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, Response{Error: "test temporarily unavailable"})
	default:
		log.Error("Interact failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, Response{Error: "internal error"})
	}
}

func (s *Server) token(r *http.Request) string {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) setCookie(w http.ResponseWriter, token string) {
	c := &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cookieMaxAge > 0 {
		c.MaxAge = int(s.cookieMaxAge.Seconds())
	}
	http.SetCookie(w, c)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Error("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "spotcheck-http",
		"version":     strings.TrimSpace(spotcheck.Version),
		"api_version": apiVersion,
	})
}

// GetSwagger parses the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	return openapi3.NewLoader().LoadFromData(rawSpec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
