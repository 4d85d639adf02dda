// Package feedback fans confirmed gesture changes out to side-effect
// listeners (journal, tray, publisher) and speaks the gesture's phrase.
// Nothing here runs on the detection goroutine: Notify only enqueues.
package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Transition is one confirmed gesture edge.
type Transition struct {
	ID   uuid.UUID     `json:"id"`
	From gesture.Label `json:"from"`
	To   gesture.Label `json:"to"`
	At   time.Time     `json:"at"`
}

// NewTransition stamps an edge with a fresh ID.
func NewTransition(from, to gesture.Label, at time.Time) Transition {
	return Transition{ID: uuid.New(), From: from, To: to, At: at}
}

// Listener reacts to transitions. Calls come from a single goroutine in
// order.
type Listener interface {
	OnTransition(ctx context.Context, t Transition)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, t Transition)

func (f ListenerFunc) OnTransition(ctx context.Context, t Transition) { f(ctx, t) }
