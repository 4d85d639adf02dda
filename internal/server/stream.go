package server

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"
)

// streamInterval is how often the stream looks for a new frame.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the preview frames as MJPEG. It never touches the
// camera; frames come from the detection loop.
type StreamHandler struct {
	frames   Frames
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler over frames.
func NewStreamHandler(frames Frames) *StreamHandler {
	return &StreamHandler{frames: frames, interval: streamInterval}
}

// ServeHTTP writes each new frame as one part until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary("frame"); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var sent uint64
	for {
		if data, seq := h.frames.LatestFrame(); seq != sent && len(data) > 0 {
			part, err := mw.CreatePart(textproto.MIMEHeader{
				"Content-Type":   {"image/jpeg"},
				"Content-Length": {strconv.Itoa(len(data))},
			})
			if err != nil {
				return
			}
			if _, err := part.Write(data); err != nil {
				return
			}
			sent = seq
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
