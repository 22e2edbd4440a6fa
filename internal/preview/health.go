package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tmplmail/pkg/logger"
)

const (
	defaultCheckTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// ErrNoTemplates is reported by the readiness probe when the template
// directory holds no templates.
var ErrNoTemplates = errors.New("preview: no templates found")

// CheckFunc is a single readiness check.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named readiness checks.
type Checks map[string]CheckFunc

// HealthResponse is the JSON body of the health endpoints.
type HealthResponse struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of one readiness check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type checkConfig struct {
	logger  *slog.Logger
	timeout time.Duration
}

// CheckOption configures ReadinessHandler.
type CheckOption func(*checkConfig)

// WithCheckTimeout bounds the total time spent running checks.
func WithCheckTimeout(d time.Duration) CheckOption {
	return func(c *checkConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCheckLogger logs failed checks.
func WithCheckLogger(l *slog.Logger) CheckOption {
	return func(c *checkConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// LivenessHandler always responds OK.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, &HealthResponse{Status: StatusHealthy})
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs checks in parallel and answers 503 if any fails.
func ReadinessHandler(checks Checks, opts ...CheckOption) http.HandlerFunc {
	cfg := &checkConfig{timeout: defaultCheckTimeout, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			writeJSON(w, status, resp)
			return
		}

		w.WriteHeader(status)
		if resp.Status == StatusHealthy {
			_, _ = w.Write([]byte("OK"))
		} else {
			_, _ = w.Write([]byte("Service Unavailable"))
		}
	}
}

func (s *Server) checks() Checks {
	return Checks{
		"templates": func(context.Context) error {
			names, err := s.renderer.Templates()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return ErrNoTemplates
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, checks Checks, cfg *checkConfig) *HealthResponse {
	if len(checks) == 0 {
		return &HealthResponse{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Check, len(checks))
		status  = StatusHealthy
	)

	for name, check := range checks {
		g.Go(func() error {
			result := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				result = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			if result.Status == StatusUnhealthy {
				status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return &HealthResponse{Status: status, Checks: results}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
