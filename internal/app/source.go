package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/cyberpuppet/internal/capture"
	"github.com/ayusman/cyberpuppet/internal/detector"
	"github.com/ayusman/cyberpuppet/internal/landmarker"
)

// Observation is what a Source saw on one detection tick.
type Observation struct {
	// Hand is the first detected hand, nil when none is visible.
	Hand *detector.HandLandmarks
	// Active is false when the source skipped detection this tick (nothing
	// moved). Inactive ticks leave the confirmed gesture alone.
	Active bool
	// Offset is the tick time from the start of a recording; zero for live
	// sources.
	Offset time.Duration
}

// Source produces detection ticks. Next returns io.EOF when a finite
// source is exhausted.
type Source interface {
	Next(ctx context.Context) (Observation, error)
	Close() error
}

// CameraSource reads the webcam, skips detection while nothing moves and
// keeps the latest frame as JPEG for the preview stream.
type CameraSource struct {
	camera    capture.Camera
	gate      *capture.ActivityGate
	detector  landmarker.Detector
	idleFPS   int
	activeFPS int

	mu    sync.RWMutex
	jpeg  []byte
	frame uint64
}

// NewCameraSource opens camera at idle rate.
func NewCameraSource(camera capture.Camera, gate *capture.ActivityGate, d landmarker.Detector, idleFPS, activeFPS int) (*CameraSource, error) {
	if err := camera.Open(); err != nil {
		return nil, err
	}
	camera.SetFPS(idleFPS)
	return &CameraSource{
		camera:    camera,
		gate:      gate,
		detector:  d,
		idleFPS:   idleFPS,
		activeFPS: activeFPS,
	}, nil
}

func (s *CameraSource) Next(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return Observation{}, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	s.keep(frame)

	mode, changed := s.gate.Observe(frame)
	if changed {
		if mode == capture.ModeActive {
			s.camera.SetFPS(s.activeFPS)
		} else {
			s.camera.SetFPS(s.idleFPS)
		}
	}
	if mode != capture.ModeActive {
		return Observation{}, nil
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		return Observation{}, fmt.Errorf("detect hands: %w", err)
	}

	obs := Observation{Active: true}
	if len(hands) > 0 {
		obs.Hand = &hands[0]
	}
	return obs, nil
}

// keep stores frame as the latest preview JPEG.
func (s *CameraSource) keep(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	s.mu.Lock()
	s.jpeg = data
	s.frame++
	s.mu.Unlock()
}

// LatestFrame returns the most recent JPEG and its sequence number. The
// sequence is zero before the first frame.
func (s *CameraSource) LatestFrame() ([]byte, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jpeg, s.frame
}

func (s *CameraSource) Close() error {
	s.gate.Close()
	derr := s.detector.Close()
	if err := s.camera.Close(); err != nil {
		return err
	}
	return derr
}

// ReplaySource plays back a recorded session. Every recorded tick is
// active.
type ReplaySource struct {
	reader *detector.ReplayReader
	closer io.Closer
}

// NewReplaySource reads a session from r. r is closed by Close when it is
// an io.Closer.
func NewReplaySource(r io.Reader) *ReplaySource {
	s := &ReplaySource{reader: detector.NewReplayReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *ReplaySource) Next(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}

	f, err := s.reader.Next()
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{Active: true, Offset: time.Duration(f.TimestampMs) * time.Millisecond}
	if len(f.Hands) > 0 {
		obs.Hand = &f.Hands[0]
	}
	return obs, nil
}

func (s *ReplaySource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
