package app

import (
	"time"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/detector"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Cursor is the index fingertip in normalized screen space.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is the renderer's view of one frame.
type Snapshot struct {
	Raw       gesture.Label           `json:"raw"`
	Confirmed gesture.Label           `json:"confirmed"`
	Display   string                  `json:"display"`
	Motion    animation.Motion        `json:"motion"`
	Pose      animation.Pose          `json:"pose"`
	Hand      *detector.HandLandmarks `json:"hand,omitempty"`
	Cursor    *Cursor                 `json:"cursor,omitempty"`
	Tracking  bool                    `json:"tracking"`
	// Active is false while detection is paused for lack of movement.
	Active bool      `json:"active"`
	At     time.Time `json:"at"`
}
