package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/store"
)

// StateHandler serves the live puppet state and its switches.
type StateHandler struct {
	ctl   Controller
	store *store.Store
	log   zerolog.Logger
}

// NewStateHandler creates a StateHandler. s may be nil, in which case
// settings changes are not persisted.
func NewStateHandler(ctl Controller, s *store.Store, log zerolog.Logger) *StateHandler {
	return &StateHandler{ctl: ctl, store: s, log: log}
}

type settingsRequest struct {
	Tracking *bool `json:"tracking"`
	Sound    *bool `json:"sound"`
}

type settingsResponse struct {
	Tracking bool `json:"tracking"`
	Sound    bool `json:"sound"`
}

// State handles GET /api/state.
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctl.Snapshot())
}

// Settings handles GET /api/settings.
func (h *StateHandler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.current())
}

// UpdateSettings handles PUT /api/settings. Omitted fields are unchanged.
func (h *StateHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Tracking != nil {
		h.ctl.SetTracking(*req.Tracking)
		h.persist(store.SettingTracking, *req.Tracking)
	}
	if req.Sound != nil {
		h.ctl.SetSound(*req.Sound)
		h.persist(store.SettingSound, *req.Sound)
	}

	writeJSON(w, http.StatusOK, h.current())
}

func (h *StateHandler) current() settingsResponse {
	return settingsResponse{Tracking: h.ctl.Tracking(), Sound: h.ctl.Sound()}
}

// persist saves a switch. The live value already changed, so a failure
// only costs the setting across restarts.
func (h *StateHandler) persist(key string, v bool) {
	if h.store == nil {
		return
	}
	if err := h.store.Settings().SetBool(key, v); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("failed to persist setting")
	}
}
