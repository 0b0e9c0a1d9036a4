package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/homekit-mqtt/internal/history"
)

// Component health states reported by /health.
const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthDisabled = "disabled"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/adapters", s.handleAdapters)
		r.Get("/history/{aid}/{service}/{characteristic}", s.handleHistory)
	})

	return r
}

// handleHealth checks every configured component. Any failure turns the
// response into a 503 so supervisors can restart or alert.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"mqtt":     s.check(r.Context(), s.broker),
		"database": s.check(r.Context(), s.database),
		"influxdb": s.check(r.Context(), s.influx),
	}

	status, code := healthOK, http.StatusOK
	for _, v := range components {
		if v != healthOK && v != healthDisabled {
			status, code = healthDegraded, http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"version":    s.version,
		"components": components,
	})
}

// check returns "ok", "disabled" for a nil component, or the error text.
func (s *Server) check(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return healthDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := c.HealthCheck(ctx); err != nil {
		return err.Error()
	}
	return healthOK
}

type bridgeStatus struct {
	State       string `json:"state"`
	Accessories int    `json:"accessories"`
	Routes      int    `json:"routes"`
	Dispatched  uint64 `json:"dispatched"`
	Unmatched   uint64 `json:"unmatched"`
	Published   uint64 `json:"published"`
	Dropped     uint64 `json:"dropped"`
	Failures    uint64 `json:"failures"`
	Connections uint64 `json:"connections"`
	Disconnects uint64 `json:"disconnects"`
}

type recorderStatus struct {
	Recorded uint64 `json:"recorded"`
	Dropped  uint64 `json:"dropped"`
	Failures uint64 `json:"failures"`
	Pruned   uint64 `json:"pruned"`
}

type statusResponse struct {
	Version       string          `json:"version"`
	Bridge        bridgeStatus    `json:"bridge"`
	Subscriptions int             `json:"subscriptions"`
	History       *recorderStatus `json:"history,omitempty"`
}

// handleStatus returns the bridge and recorder counters.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.bridge.Stats()
	resp := statusResponse{
		Version: s.version,
		Bridge: bridgeStatus{
			State:       st.State.String(),
			Accessories: st.Accessories,
			Routes:      st.Routes,
			Dispatched:  st.Dispatched,
			Unmatched:   st.Unmatched,
			Published:   st.Published,
			Dropped:     st.Dropped,
			Failures:    st.Failures,
			Connections: st.Connections,
			Disconnects: st.Disconnects,
		},
	}
	if s.broker != nil {
		resp.Subscriptions = s.broker.SubscriptionCount()
	}
	if s.recorder != nil {
		rs := s.recorder.Stats()
		resp.History = &recorderStatus{
			Recorded: rs.Recorded,
			Dropped:  rs.Dropped,
			Failures: rs.Failures,
			Pruned:   rs.Pruned,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAdapters lists the registered adapter names.
func (s *Server) handleAdapters(w http.ResponseWriter, _ *http.Request) {
	names := s.adapters.Names()
	writeJSON(w, http.StatusOK, map[string]any{
		"adapters": names,
		"count":    len(names),
	})
}

type historyEntry struct {
	Value     any    `json:"value"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// handleHistory returns the change log of one characteristic, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "history is disabled")
		return
	}

	aid, err := strconv.ParseUint(chi.URLParam(r, "aid"), 10, 64)
	if err != nil || aid == 0 {
		writeBadRequest(w, "invalid accessory ID")
		return
	}
	svc, err := strconv.Atoi(chi.URLParam(r, "service"))
	if err != nil || svc < 0 {
		writeBadRequest(w, "invalid service index")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
	}

	key := history.Key{AID: aid, Service: svc, Characteristic: chi.URLParam(r, "characteristic")}
	changes, err := s.history.History(r.Context(), key, limit)
	switch {
	case errors.Is(err, history.ErrInvalidKey):
		writeBadRequest(w, err.Error())
		return
	case err != nil:
		s.logger.Warn("loading history failed", "key", key.String(), "error", err)
		writeInternalError(w, "failed to load history")
		return
	}

	entries := make([]historyEntry, 0, len(changes))
	for _, c := range changes {
		entries = append(entries, historyEntry{
			Value:     c.Value,
			Source:    c.Source,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":     key.String(),
		"history": entries,
		"count":   len(entries),
	})
}
