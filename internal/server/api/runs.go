// Package api provides HTTP API handlers for the run history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/fingerbird/internal/store"
)

const (
	// DefaultLimit is the number of runs listed when no limit is given.
	DefaultLimit = 20
	// MaxLimit caps the limit query parameter.
	MaxLimit = 100
)

// RunsHandler handles HTTP requests for run resources.
type RunsHandler struct {
	store *store.Store
}

// NewRunsHandler creates a new RunsHandler with the given store.
func NewRunsHandler(s *store.Store) *RunsHandler {
	return &RunsHandler{store: s}
}

// Routes returns the router for /api/runs.
func (h *RunsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/best", h.best)
	r.Get("/{id}", h.get)
	return r
}

type runResponse struct {
	ID         string `json:"id"`
	Score      int    `json:"score"`
	Ticks      int    `json:"ticks"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at"`
	DurationMs int64  `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(r *store.Run) runResponse {
	return runResponse{
		ID:         r.ID,
		Score:      r.Score,
		Ticks:      r.Ticks,
		StartedAt:  r.StartedAt.Format(time.RFC3339),
		EndedAt:    r.EndedAt.Format(time.RFC3339),
		DurationMs: r.Duration().Milliseconds(),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/runs and returns the most recent runs.
func (h *RunsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxLimit)
	}

	runs, err := h.store.Runs().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	response := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, toResponse(run))
	}
	writeJSON(w, http.StatusOK, response)
}

// best handles GET /api/runs/best.
func (h *RunsHandler) best(w http.ResponseWriter, r *http.Request) {
	run, err := h.store.Runs().Best()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no runs recorded")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get best run")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(run))
}

// get handles GET /api/runs/{id}.
func (h *RunsHandler) get(w http.ResponseWriter, r *http.Request) {
	run, err := h.store.Runs().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(run))
}
