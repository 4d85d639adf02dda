package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/gesture"
)

func fpsInterval(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}

// detectLoop ticks the source at idle or active rate and feeds the
// tracker. Returning cancels the render loop.
func (a *App) detectLoop(ctx context.Context) {
	// a dead camera fails every tick; one line per period is enough
	errLog := a.log.Sample(&zerolog.BurstSampler{Burst: 1, Period: 5 * time.Second})

	active := false
	ticker := time.NewTicker(fpsInterval(a.cfg.IdleFPS))
	defer ticker.Stop()

	wasTracking := a.Tracking()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.Tracking() {
			if wasTracking {
				wasTracking = false
				if a.apply(a.tracker.Reset(), false) {
					a.sendEdge(ctx, gesture.LabelNone)
				}
			}
			continue
		}
		wasTracking = true

		obs, err := a.source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			if a.apply(a.tracker.Reset(), false) {
				a.sendEdge(ctx, gesture.LabelNone)
			}
			a.log.Info().Msg("source exhausted")
			return
		case ctx.Err() != nil:
			return
		case err != nil:
			errLog.Warn().Err(err).Msg("detection tick failed")
			continue
		}

		if obs.Active != active {
			active = obs.Active
			fps := a.cfg.IdleFPS
			if active {
				fps = a.cfg.ActiveFPS
			}
			ticker.Reset(fpsInterval(fps))
			a.log.Debug().Bool("active", active).Int("fps", fps).Msg("detection rate changed")
		}

		if !obs.Active {
			a.markIdle()
			continue
		}

		u := a.tracker.Step(obs.Hand)
		if a.apply(u, true) {
			a.sendEdge(ctx, u.Confirmed)
		}
	}
}

// sendEdge hands a confirmed label to the render loop, blocking only if
// the render loop has fallen edgeBuffer edges behind.
func (a *App) sendEdge(ctx context.Context, l gesture.Label) {
	select {
	case a.edges <- l:
	case <-ctx.Done():
	}
}

// renderLoop advances the machine by wall-clock time each render tick.
// The detect loop may queue a final edge just before it stops, so one more
// frame is rendered on the way out.
func (a *App) renderLoop(ctx context.Context) {
	ticker := time.NewTicker(fpsInterval(a.cfg.RenderFPS))
	defer ticker.Stop()

	last := a.now()
	for {
		select {
		case <-ctx.Done():
			a.renderFrame(last)
			return
		case <-ticker.C:
		}
		last = a.renderFrame(last)
	}
}

// renderFrame applies queued edges, advances from last to now and
// publishes. It returns now.
func (a *App) renderFrame(last time.Time) time.Time {
	a.drainEdges()

	now := a.now()
	pose := a.machine.Advance(now.Sub(last).Seconds())
	a.publish(a.compose(pose, now))
	return now
}

func (a *App) drainEdges() {
	for {
		select {
		case l := <-a.edges:
			a.machine.OnGestureChange(l)
		default:
			return
		}
	}
}

// Run drives the whole pipeline on the calling goroutine until the source
// is exhausted, without tickers. Each observation is one detection tick;
// the machine first advances by the recorded time since the previous tick
// (one active-rate frame when the recording has no usable times). The end
// of the source counts as the hand leaving.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer a.running.Store(false)

	frame := fpsInterval(a.cfg.ActiveFPS)
	start := a.now()

	var (
		elapsed time.Duration
		prev    time.Duration
		first   = true
	)

	// advance moves the machine past dt, lets update touch the detection
	// state, then publishes.
	advance := func(dt time.Duration, update func()) {
		elapsed += dt
		pose := a.machine.Advance(dt.Seconds())
		update()
		a.publish(a.compose(pose, start.Add(elapsed)))
	}
	step := func(u gesture.Update, active bool) func() {
		return func() {
			if a.apply(u, active) {
				a.machine.OnGestureChange(u.Confirmed)
			}
		}
	}

	for {
		obs, err := a.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			advance(frame, step(a.tracker.Reset(), false))
			return nil
		}
		if err != nil {
			return err
		}

		dt := obs.Offset - prev
		switch {
		case first:
			dt = 0
		case dt <= 0:
			dt = frame
		}
		first = false
		prev = obs.Offset

		if !obs.Active {
			advance(dt, a.markIdle)
			continue
		}
		advance(dt, step(a.tracker.Step(obs.Hand), true))
	}
}
