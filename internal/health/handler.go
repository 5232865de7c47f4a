// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const probeTimeout = 5 * time.Second

// Checker is a dependency that can be pinged. The database and redis
// wrappers both satisfy it.
type Checker interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name    string
	checker Checker
}

// Handler serves liveness and readiness probes. Liveness only reflects
// process state; readiness pings every registered dependency in parallel
// and degrades when any of them fails.
type Handler struct {
	deps      []dependency
	version   string
	startedAt time.Time
	ready     atomic.Bool
	draining  atomic.Bool
}

func NewHandler(version string, db, redis Checker) *Handler {
	h := &Handler{
		deps: []dependency{
			{name: "database", checker: db},
			{name: "redis", checker: redis},
		},
		version:   version,
		startedAt: time.Now(),
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.draining.Load() {
		h.write(w, http.StatusServiceUnavailable, h.status("shutting_down"))
		return
	}

	h.write(w, http.StatusOK, h.status("ok"))
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.draining.Load():
		h.write(w, http.StatusServiceUnavailable, ReadinessResponse{
			StatusResponse: h.status("shutting_down"),
		})
		return
	case !h.ready.Load():
		h.write(w, http.StatusServiceUnavailable, ReadinessResponse{
			StatusResponse: h.status("not_ready"),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.probeAll(ctx)

	status, code := "ok", http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	h.write(w, code, ReadinessResponse{
		StatusResponse: h.status(status),
		Checks:         checks,
	})
}

func (h *Handler) probeAll(ctx context.Context) []DependencyCheck {
	checks := make([]DependencyCheck, len(h.deps))

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = probe(ctx, dep)
		}()
	}
	wg.Wait()

	return checks
}

func probe(ctx context.Context, dep dependency) DependencyCheck {
	check := DependencyCheck{Name: dep.name, Healthy: true}

	if dep.checker == nil {
		check.Healthy = false
		check.Message = "checker not configured"
		return check
	}

	start := time.Now()
	err := dep.checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

// SetReady flips the readiness gate; the server holds it false until
// startup completes.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown marks the process as draining so the load balancer stops
// routing to it before connections close.
func (h *Handler) SetShutdown(shutdown bool) {
	h.draining.Store(shutdown)
}

func (h *Handler) status(status string) StatusResponse {
	return StatusResponse{
		Status:  status,
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
	}
}

func (h *Handler) write(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

type ReadinessResponse struct {
	StatusResponse
	Checks []DependencyCheck `json:"checks,omitempty"`
}

type DependencyCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
