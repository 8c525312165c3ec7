// Package httpapi exposes the query, index and settings services over a
// small JSON HTTP API, the surface the companion settings UI talks to.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driving"
	"github.com/custodia-labs/recollect/internal/logger"
)

// Server serves the JSON API.
type Server struct {
	query    driving.QueryService
	index    driving.IndexManager
	settings driving.SettingsService

	httpServer *http.Server
}

// NewServer creates an API server listening on the given port.
func NewServer(
	port int,
	query driving.QueryService,
	index driving.IndexManager,
	settings driving.SettingsService,
) *Server {
	s := &Server{
		query:    query,
		index:    index,
		settings: settings,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("POST /api/settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run starts serving. It blocks until the context is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("API listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// settingsPayload is the wire shape of the settings endpoints. Only the
// tunable retrieval fields are exposed; provider credentials stay in the
// config file.
type settingsPayload struct {
	Timezone      string  `json:"timezone"`
	IncludeTitles bool    `json:"include_titles"`
	RetrievalMode string  `json:"retrieval_mode"`
	RecencyWeight float64 `json:"recency_weight"`
	NCandidates   int     `json:"n_candidates"`
	NResults      int     `json:"n_results"`
}

func toPayload(s domain.Settings) settingsPayload {
	return settingsPayload{
		Timezone:      s.Timezone,
		IncludeTitles: s.IncludeTitles,
		RetrievalMode: s.RetrievalMode.String(),
		RecencyWeight: s.RecencyWeight,
		NCandidates:   s.NCandidates,
		NResults:      s.NResults,
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := domain.QueryOptions{}
	if v := q.Get("mode"); v != "" {
		mode := domain.Granularity(v)
		opts.Mode = &mode
	}
	if v := q.Get("n_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "n_results must be a positive integer")
			return
		}
		opts.NResults = &n
	}
	if v := q.Get("recency_weight"); v != "" {
		weight, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "recency_weight must be a number")
			return
		}
		opts.RecencyWeight = &weight
	}

	results, err := s.query.Query(r.Context(), q.Get("q"), opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidGranularity):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("Query failed: %v", err)
			writeError(w, http.StatusInternalServerError, "query failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	// The settings UI polls this endpoint, so it carries the indexing
	// status alongside the tunables.
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": toPayload(s.settings.Get()),
		"status":   s.index.Status(),
		"counts":   s.countsByName(),
	})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.settings.Update(patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTimezone), errors.Is(err, domain.ErrInvalidGranularity):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("Settings update failed: %v", err)
			writeError(w, http.StatusInternalServerError, "settings update failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPayload(updated))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.index.Status()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"progress": status.Progress(),
		"counts":   s.countsByName(),
	})
}

func (s *Server) countsByName() map[string]int {
	counts := make(map[string]int)
	for g, n := range s.index.Counts() {
		counts[g.String()] = n
	}
	return counts
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Rebuild(r.Context()); err != nil {
		logger.Error("Rebuild failed: %v", err)
		writeError(w, http.StatusInternalServerError, "rebuild failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"counts": s.countsByName()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Reset(r.Context()); err != nil {
		logger.Error("Reset failed: %v", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
