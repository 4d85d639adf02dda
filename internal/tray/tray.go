// Package tray puts the puppet's switches in the system tray.
package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Controls are the switches the tray flips.
type Controls interface {
	SetTracking(on bool)
	Tracking() bool
	SetSound(on bool)
	Sound() bool
}

// Tray is the system tray menu. It also listens for gesture transitions to
// show the current gesture.
type Tray struct {
	controls Controls
	onOpen   func()
	onQuit   func()

	mu          sync.RWMutex
	current     gesture.Label
	menuTrack   *systray.MenuItem
	menuSound   *systray.MenuItem
	menuGesture *systray.MenuItem
}

// New creates a Tray over controls.
func New(controls Controls) *Tray {
	return &Tray{controls: controls, current: gesture.LabelNone}
}

// OnOpen sets the callback for "Open Puppet".
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run shows the tray and blocks until Quit. It must be called from the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle(gestureTitle(gesture.LabelNone))
	systray.SetTooltip("Cyber Puppet")

	t.mu.Lock()
	t.menuTrack = systray.AddMenuItem(trackingTitle(t.controls.Tracking()), "Toggle hand tracking")
	t.menuSound = systray.AddMenuItem(soundTitle(t.controls.Sound()), "Toggle spoken phrases")
	systray.AddSeparator()
	t.menuGesture = systray.AddMenuItem(gestureTitle(t.current), "Current gesture")
	t.menuGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Puppet...", "Open the puppet in a browser")
	menuQuit := systray.AddMenuItem("Quit", "Quit Cyber Puppet")

	go func() {
		for {
			select {
			case <-t.menuTrack.ClickedCh:
				t.toggleTracking()
			case <-t.menuSound.ClickedCh:
				t.toggleSound()
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) toggleTracking() {
	on := !t.controls.Tracking()
	t.controls.SetTracking(on)
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.menuTrack.SetTitle(trackingTitle(on))
}

func (t *Tray) toggleSound() {
	on := !t.controls.Sound()
	t.controls.SetSound(on)
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.menuSound.SetTitle(soundTitle(on))
}

// OnTransition shows the new confirmed gesture.
func (t *Tray) OnTransition(_ context.Context, tr feedback.Transition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = tr.To
	if t.menuGesture != nil {
		t.menuGesture.SetTitle(gestureTitle(tr.To))
		systray.SetTitle(gestureTitle(tr.To))
	}
}

// Current returns the last gesture shown.
func (t *Tray) Current() gesture.Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func trackingTitle(on bool) string {
	if on {
		return "● Tracking"
	}
	return "○ Tracking paused"
}

func soundTitle(on bool) string {
	if on {
		return "● Sound"
	}
	return "○ Muted"
}

func gestureTitle(l gesture.Label) string {
	if l.IsNone() {
		return "🖐 no gesture"
	}
	return l.DisplayName()
}
