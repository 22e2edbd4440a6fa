package preview

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tmplmail/pkg/logger"
	"github.com/dmitrymomot/tmplmail/pkg/mailer"
)

// Server is an http.Handler exposing a mailer.Renderer.
type Server struct {
	renderer *mailer.Renderer
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a preview server for renderer.
func New(renderer *mailer.Renderer, opts ...Option) *Server {
	s := &Server{
		renderer: renderer,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health/live", LivenessHandler())
	r.Get("/health/ready", ReadinessHandler(s.checks(), WithCheckLogger(s.logger)))

	r.Get("/", s.handleIndex)
	r.Route("/{template}", func(r chi.Router) {
		r.Get("/", s.handleHTML)
		r.Get("/text", s.handleText)
		r.Get("/message", s.handleMessage)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type indexResponse struct {
	Templates []string `json:"templates"`
	Languages []string `json:"languages"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	templates, err := s.renderer.Templates()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse{
		Templates: nonNil(templates),
		Languages: nonNil(s.renderer.Languages()),
	})
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.render(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if msg.Subject != "" {
		w.Header().Set("X-Mail-Subject", msg.Subject)
	}
	_, _ = w.Write([]byte(msg.HTML))
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.render(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(msg.Text))
}

type messageResponse struct {
	Subject  string `json:"subject,omitempty"`
	HTML     string `json:"html"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Subject:  msg.Subject,
		HTML:     msg.HTML,
		Text:     msg.Text,
		Language: msg.Language,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) (*mailer.Message, bool) {
	q := r.URL.Query()

	req := mailer.TemplateRequest{
		Name:     chi.URLParam(r, "template"),
		Language: requestLanguage(r, s.renderer.Languages()),
	}
	if raw := q.Get("data"); raw != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "data must be a JSON object"})
			return nil, false
		}
		req.Data = data
	}

	msg, err := s.renderer.Render(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return msg, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "preview failed", slog.Any("error", err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, mailer.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, mailer.ErrTemplateNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logger.WithAttrs(r.Context(), slog.String("request_id", uuid.NewString()))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.DebugContext(ctx, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
