// Package app runs the puppet: a detection loop that turns landmarks into
// confirmed gestures and a render loop that animates the puppet from them.
//
// The detection loop owns the Tracker and the render loop owns the
// Machine. Gesture edges cross between them over a channel, so neither
// piece of state is ever shared.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/detector"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Default loop rates.
const (
	IdleFPS   = 5
	ActiveFPS = 15
	RenderFPS = 60
)

// edgeBuffer is how many gesture edges may wait for the render loop.
const edgeBuffer = 16

// Config tunes an App.
type Config struct {
	IdleFPS   int
	ActiveFPS int
	RenderFPS int

	Classifier gesture.ClassifierConfig
	Filter     gesture.FilterConfig
	Tuning     animation.Tuning

	// MirrorCursor reflects the fingertip cursor horizontally. Set it when
	// frames are not already mirrored by the camera.
	MirrorCursor bool
	// Tracking is the initial tracking state.
	Tracking bool
}

// DefaultConfig tracks at 5/15 detection FPS and renders at 60.
func DefaultConfig() Config {
	return Config{
		IdleFPS:    IdleFPS,
		ActiveFPS:  ActiveFPS,
		RenderFPS:  RenderFPS,
		Classifier: gesture.DefaultClassifierConfig(),
		Filter:     gesture.DefaultFilterConfig(),
		Tuning:     animation.DefaultTuning(),
		Tracking:   true,
	}
}

// App wires a Source to the gesture tracker, the animation machine and the
// feedback dispatcher.
type App struct {
	cfg    Config
	log    zerolog.Logger
	source Source
	feed   *feedback.Dispatcher
	now    func() time.Time

	tracker *gesture.Tracker
	machine *animation.Machine
	edges   chan gesture.Label

	tracking atomic.Bool

	mu       sync.RWMutex
	detected detection
	snap     Snapshot

	subsMu sync.RWMutex
	subs   []func(Snapshot)

	running atomic.Bool
	wg      sync.WaitGroup
}

// detection is the detection loop's latest output, read by the render loop.
type detection struct {
	raw       gesture.Label
	confirmed gesture.Label
	hand      *detector.HandLandmarks
	active    bool
}

// New creates an App reading from source. feed may be nil.
func New(cfg Config, source Source, feed *feedback.Dispatcher, log zerolog.Logger) *App {
	def := DefaultConfig()
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = def.IdleFPS
	}
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = def.ActiveFPS
	}
	if cfg.RenderFPS <= 0 {
		cfg.RenderFPS = def.RenderFPS
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		source:  source,
		feed:    feed,
		now:     time.Now,
		tracker: gesture.NewTracker(gesture.NewClassifier(cfg.Classifier), cfg.Filter),
		machine: animation.New(cfg.Tuning),
		edges:   make(chan gesture.Label, edgeBuffer),
		detected: detection{
			raw:       gesture.LabelNone,
			confirmed: gesture.LabelNone,
		},
	}
	a.tracking.Store(cfg.Tracking)
	a.snap = a.compose(animation.Pose{}, time.Time{})
	return a
}

// Subscribe registers fn to receive every snapshot. fn runs on the render
// goroutine and must not block.
func (a *App) Subscribe(fn func(Snapshot)) {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()
	a.subs = append(a.subs, fn)
}

// Snapshot returns the latest rendered state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// SetTracking turns detection on or off. Turning it off drops the
// confirmed gesture to none on the next detection tick.
func (a *App) SetTracking(on bool) {
	if a.tracking.Swap(on) != on {
		a.log.Info().Bool("tracking", on).Msg("tracking toggled")
	}
}

// Tracking reports whether detection is on.
func (a *App) Tracking() bool {
	return a.tracking.Load()
}

// SetSound turns spoken phrases on or off.
func (a *App) SetSound(on bool) {
	if a.feed != nil {
		a.feed.SetSound(on)
	}
}

// Sound reports whether phrases are spoken.
func (a *App) Sound() bool {
	return a.feed != nil && a.feed.SoundEnabled()
}

// LatestFrame returns the preview JPEG when the source keeps one.
func (a *App) LatestFrame() ([]byte, uint64) {
	if fs, ok := a.source.(interface{ LatestFrame() ([]byte, uint64) }); ok {
		return fs.LatestFrame()
	}
	return nil, 0
}

// ErrRunning is returned by Start and Run on an App that is already going.
var ErrRunning = errors.New("app already running")

// Start launches the detection and render loops. They stop when ctx is
// cancelled or, for finite sources, when the source is exhausted; Wait
// blocks until then.
func (a *App) Start(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		defer cancel()
		a.detectLoop(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.renderLoop(ctx)
	}()

	a.log.Info().
		Int("idle_fps", a.cfg.IdleFPS).
		Int("active_fps", a.cfg.ActiveFPS).
		Int("render_fps", a.cfg.RenderFPS).
		Msg("puppet started")
	return nil
}

// Wait blocks until both loops have returned.
func (a *App) Wait() {
	a.wg.Wait()
}

// Close releases the source.
func (a *App) Close() error {
	return a.source.Close()
}

// apply folds one tracker update into the detection state and notifies
// the feedback dispatcher of an edge. It reports whether the confirmed
// gesture changed.
func (a *App) apply(u gesture.Update, active bool) bool {
	a.mu.Lock()
	a.detected = detection{raw: u.Raw, confirmed: u.Confirmed, hand: u.Hand, active: active}
	a.mu.Unlock()

	if !u.Changed {
		return false
	}

	a.log.Debug().Str("from", u.Previous.String()).Str("to", u.Confirmed.String()).Msg("gesture changed")

	if a.feed != nil {
		a.feed.Notify(feedback.NewTransition(u.Previous, u.Confirmed, a.now()))
	}
	return true
}

// markIdle records a tick on which detection did not run.
func (a *App) markIdle() {
	a.mu.Lock()
	a.detected.active = false
	a.mu.Unlock()
}

// compose builds a snapshot from the detection state and pose.
func (a *App) compose(pose animation.Pose, at time.Time) Snapshot {
	a.mu.RLock()
	d := a.detected
	a.mu.RUnlock()

	s := Snapshot{
		Raw:       d.raw,
		Confirmed: d.confirmed,
		Display:   d.confirmed.DisplayName(),
		Motion:    a.machine.Motion(),
		Pose:      pose,
		Hand:      d.hand,
		Tracking:  a.Tracking(),
		Active:    d.active,
		At:        at,
	}
	if d.hand != nil {
		tip := d.hand.IndexTip()
		if a.cfg.MirrorCursor {
			tip.X = 1 - tip.X
		}
		s.Cursor = &Cursor{X: tip.X, Y: tip.Y}
	}
	return s
}

// publish stores s and hands it to subscribers.
func (a *App) publish(s Snapshot) {
	a.mu.Lock()
	a.snap = s
	a.mu.Unlock()

	a.subsMu.RLock()
	defer a.subsMu.RUnlock()
	for _, fn := range a.subs {
		fn(s)
	}
}
