// Package api provides the JSON handlers behind /api.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/cyberpuppet/internal/app"
)

// Controller is the running puppet as the API sees it.
type Controller interface {
	Snapshot() app.Snapshot
	SetTracking(on bool)
	Tracking() bool
	SetSound(on bool)
	Sound() bool
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
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

// queryLimit reads ?limit=, falling back to def and capping at most.
func queryLimit(r *http.Request, def, most int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	if n > most {
		n = most
	}
	return n, true
}
