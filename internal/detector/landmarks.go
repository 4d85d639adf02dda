// Package detector provides the hand-landmark data model, its JSON wire
// form, recorded sessions and canonical fixture hands. It has no camera
// dependency; frames are turned into landmarks by package landmarker.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrTooFewLandmarks is returned when a point list cannot form a full hand.
var ErrTooFewLandmarks = errors.New("too few landmarks")

// Point3D is a landmark in normalized image space: x and y in [0,1] with
// y growing downwards, z relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one hand pose: the 21 landmarks of a single detection tick.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64               `json:"score,omitempty"`
}

// FromPoints builds a hand pose from a loosely sized point list.
// Extra points beyond NumLandmarks are ignored.
func FromPoints(points []Point3D) (*HandLandmarks, error) {
	if len(points) < NumLandmarks {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewLandmarks, len(points), NumLandmarks)
	}

	h := &HandLandmarks{}
	copy(h.Points[:], points[:NumLandmarks])
	return h, nil
}

// Mirror returns a copy of the hand flipped horizontally (x -> 1-x), which is
// how a selfie-view overlay or cursor sees it.
func (h *HandLandmarks) Mirror() *HandLandmarks {
	if h == nil {
		return nil
	}

	m := *h
	for i := range m.Points {
		m.Points[i].X = 1 - m.Points[i].X
	}
	return &m
}

// IndexTip returns the index fingertip, used as a pointer position.
func (h *HandLandmarks) IndexTip() Point3D {
	return h.Points[IndexTip]
}
