package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame differencing parameters.
const (
	BlurSize      = 21
	DiffThreshold = 25
)

// Mode is the detection cadence the gate currently asks for.
type Mode int

const (
	ModeIdle Mode = iota
	ModeActive
)

func (m Mode) String() string {
	if m == ModeActive {
		return "active"
	}
	return "idle"
}

// GateConfig tunes an ActivityGate.
type GateConfig struct {
	// Threshold is the percentage of pixels that must change between frames
	// to count as movement.
	Threshold float64
	// IdleTimeout is how long without movement before falling back to idle.
	IdleTimeout time.Duration
}

// DefaultGateConfig is 1% change and a 2s idle timeout.
func DefaultGateConfig() GateConfig {
	return GateConfig{Threshold: 1.0, IdleTimeout: 2 * time.Second}
}

// ActivityGate watches consecutive frames for movement and switches between
// idle and active mode. Hand detection only runs in active mode, so an
// empty room costs a cheap frame difference instead of a landmark pass.
type ActivityGate struct {
	cfg GateConfig
	now func() time.Time

	mu          sync.Mutex
	prev        gocv.Mat
	initialized bool
	mode        Mode
	lastMotion  time.Time
}

// NewActivityGate creates a gate in idle mode. Zero config fields use the
// defaults.
func NewActivityGate(cfg GateConfig) *ActivityGate {
	def := DefaultGateConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	return &ActivityGate{
		cfg:  cfg,
		now:  time.Now,
		prev: gocv.NewMat(),
	}
}

// Observe feeds the next frame and returns the resulting mode and whether
// it changed.
func (g *ActivityGate) Observe(frame *gocv.Mat) (Mode, bool) {
	moved, _ := g.Difference(frame)
	return g.Update(moved)
}

// Difference compares frame with the previous one and reports whether the
// changed-pixel percentage exceeds the threshold. The first frame only sets
// the baseline.
func (g *ActivityGate) Difference(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: BlurSize, Y: BlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prev)
		g.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100
	blurred.CopyTo(&g.prev)

	return changed > g.cfg.Threshold, changed
}

// Update advances the mode from a movement observation made now.
func (g *ActivityGate) Update(moved bool) (Mode, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	prev := g.mode

	switch {
	case moved:
		g.lastMotion = now
		g.mode = ModeActive
	case g.mode == ModeActive && now.Sub(g.lastMotion) > g.cfg.IdleTimeout:
		g.mode = ModeIdle
	}
	return g.mode, g.mode != prev
}

// Mode returns the current mode.
func (g *ActivityGate) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Reset drops the baseline frame and returns to idle.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prev.Close()
	g.prev = gocv.NewMat()
	g.initialized = false
	g.mode = ModeIdle
}

// Close releases the baseline frame.
func (g *ActivityGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prev.Close()
	g.initialized = false
}
