// Package landmarker turns camera frames into hand landmarks.
package landmarker

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/cyberpuppet/internal/detector"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]detector.HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect. The puppet only
	// follows one hand.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the MediaPipe hand model (0 lite, 1 full).
	ModelComplexity int
}

// DefaultConfig returns a Config tuned for a single puppeteer hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.8,
		MinTrackingConf: 0.8,
		ModelComplexity: 1,
	}
}
