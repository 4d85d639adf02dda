package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

type gestureResponse struct {
	Label   gesture.Label    `json:"label"`
	Display string           `json:"display"`
	Emoji   string           `json:"emoji"`
	Phrase  string           `json:"phrase"`
	Motion  animation.Motion `json:"motion"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

func toResponse(l gesture.Label) gestureResponse {
	return gestureResponse{
		Label:   l,
		Display: l.DisplayName(),
		Emoji:   l.Emoji(),
		Phrase:  l.Phrase(),
		Motion:  animation.MotionFor(l),
	}
}

// ListGestures handles GET /api/gestures: the fixed catalog in rule order.
func ListGestures(w http.ResponseWriter, r *http.Request) {
	resp := listGesturesResponse{Gestures: make([]gestureResponse, 0, len(gesture.Labels))}
	for _, l := range gesture.Labels {
		resp.Gestures = append(resp.Gestures, toResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGesture handles GET /api/gestures/{label}.
func GetGesture(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "label")
	l := gesture.ParseLabel(name)
	if l.IsNone() {
		writeError(w, http.StatusNotFound, "unknown gesture: "+name)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(l))
}
