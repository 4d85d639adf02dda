package feedback

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// DefaultQueueSize bounds transitions waiting for the worker.
const DefaultQueueSize = 32

// Config tunes a Dispatcher.
type Config struct {
	QueueSize int
	// Sound enables spoken phrases at start.
	Sound bool
}

// Dispatcher delivers transitions to listeners on its own goroutine and
// speaks the phrase of every newly confirmed gesture. A new phrase cuts off
// the one still playing.
type Dispatcher struct {
	log     zerolog.Logger
	speaker Speaker
	queue   chan Transition

	mu        sync.Mutex
	listeners []Listener
	hush      context.CancelFunc

	sound   atomic.Bool
	dropped atomic.Int64

	speaking sync.WaitGroup
	done     chan struct{}
	started  atomic.Bool
}

// NewDispatcher creates a Dispatcher. A nil speaker disables speech.
func NewDispatcher(cfg Config, speaker Speaker, log zerolog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	d := &Dispatcher{
		log:     log,
		speaker: speaker,
		queue:   make(chan Transition, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	d.sound.Store(cfg.Sound)
	return d
}

// Subscribe adds l. Listeners added after Start see only later transitions.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// SetSound turns spoken phrases on or off. Turning sound off also silences
// the phrase in progress.
func (d *Dispatcher) SetSound(on bool) {
	d.sound.Store(on)
	if !on {
		d.mu.Lock()
		d.silence()
		d.mu.Unlock()
	}
}

// SoundEnabled reports whether phrases are spoken.
func (d *Dispatcher) SoundEnabled() bool {
	return d.sound.Load()
}

// Dropped counts transitions discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Notify enqueues t without blocking. It returns false, and the transition
// is dropped, when the queue is full.
func (d *Dispatcher) Notify(t Transition) bool {
	select {
	case d.queue <- t:
		return true
	default:
		d.dropped.Add(1)
		d.log.Warn().Str("to", t.To.String()).Msg("feedback queue full, dropping transition")
		return false
	}
}

// Start runs the worker until ctx is cancelled. It returns immediately.
func (d *Dispatcher) Start(ctx context.Context) {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run(ctx)
}

// Wait blocks until the worker and any speech in progress have finished.
func (d *Dispatcher) Wait() {
	if d.started.Load() {
		<-d.done
	}
	d.speaking.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	defer func() {
		d.mu.Lock()
		d.silence()
		d.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx)
			return
		case t := <-d.queue:
			d.deliver(ctx, t)
		}
	}
}

// drain hands transitions still queued at shutdown to the listeners. They
// are not spoken.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case t := <-d.queue:
			d.notify(ctx, t)
		default:
			return
		}
	}
}

func (d *Dispatcher) notify(ctx context.Context, t Transition) {
	d.mu.Lock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, l := range listeners {
		l.OnTransition(ctx, t)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, t Transition) {
	d.notify(ctx, t)

	if !t.To.IsNone() && d.SoundEnabled() {
		d.speak(ctx, t.To.Phrase())
	}
}

func (d *Dispatcher) speak(ctx context.Context, text string) {
	if d.speaker == nil || text == "" {
		return
	}

	d.mu.Lock()
	d.silence()
	sctx, cancel := context.WithCancel(ctx)
	d.hush = cancel
	d.mu.Unlock()

	d.speaking.Add(1)
	go func() {
		defer d.speaking.Done()
		defer cancel()

		err := d.speaker.Speak(sctx, text)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.log.Warn().Err(err).Str("phrase", text).Msg("speech failed")
		}
	}()
}

// silence cancels the utterance in progress. Callers hold d.mu.
func (d *Dispatcher) silence() {
	if d.hush != nil {
		d.hush()
		d.hush = nil
	}
}
