package api

import (
	"net/http"

	"github.com/ayusman/cyberpuppet/internal/store"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// HistoryHandler serves the gesture journal.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type eventsResponse struct {
	Events []*store.Event `json:"events"`
}

type sessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// Events handles GET /api/events?limit=&session=, newest first.
func (h *HistoryHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, defaultLimit, maxLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	events, err := h.store.Events().Recent(r.URL.Query().Get("session"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// Sessions handles GET /api/sessions?limit=.
func (h *HistoryHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, defaultLimit, maxLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: sessions})
}

// Stats handles GET /api/stats.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Events().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
