package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/cyberpuppet/internal/app"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

func TestHub_Throttle(t *testing.T) {
	hub := NewHub(100*time.Millisecond, zerolog.Nop())
	c := &liveClient{send: make(chan []byte, clientBuffer)}
	hub.clients[c] = struct{}{}

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	hub.Publish(app.Snapshot{Confirmed: gesture.LabelNone, At: at})
	hub.Publish(app.Snapshot{Confirmed: gesture.LabelNone, At: at.Add(10 * time.Millisecond)})
	assert.Len(t, c.send, 1)

	// an edge is never throttled
	hub.Publish(app.Snapshot{Confirmed: gesture.LabelWave, At: at.Add(20 * time.Millisecond)})
	assert.Len(t, c.send, 2)

	hub.Publish(app.Snapshot{Confirmed: gesture.LabelWave, At: at.Add(150 * time.Millisecond)})
	assert.Len(t, c.send, 3)
}

func TestHub_SlowClientDropsFrames(t *testing.T) {
	hub := NewHub(time.Nanosecond, zerolog.Nop())
	c := &liveClient{send: make(chan []byte, clientBuffer)}
	hub.clients[c] = struct{}{}

	at := time.Now()
	for i := 0; i < clientBuffer*3; i++ {
		hub.Publish(app.Snapshot{At: at.Add(time.Duration(i) * time.Millisecond)})
	}
	assert.Len(t, c.send, clientBuffer)
}

func TestHub_CloseDropsClients(t *testing.T) {
	hub := NewHub(0, zerolog.Nop())
	assert.Equal(t, DefaultLiveInterval, hub.interval)

	c := &liveClient{send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}
	hub.Close()

	assert.Zero(t, hub.Clients())
	_, open := <-c.send
	assert.False(t, open)

	// publishing after close is a no-op
	hub.Publish(app.Snapshot{})
}

func TestHub_EdgeReachesFullClient(t *testing.T) {
	hub := NewHub(time.Nanosecond, zerolog.Nop())
	c := &liveClient{send: make(chan []byte, clientBuffer)}
	hub.clients[c] = struct{}{}

	at := time.Now()
	for i := 0; i < clientBuffer; i++ {
		hub.Publish(app.Snapshot{Confirmed: gesture.LabelNone, At: at.Add(time.Duration(i) * time.Millisecond)})
	}
	require.Len(t, c.send, clientBuffer)

	hub.Publish(app.Snapshot{Confirmed: gesture.LabelRock, At: at.Add(time.Second)})
	require.Len(t, c.send, clientBuffer)

	var last []byte
	for len(c.send) > 0 {
		last = <-c.send
	}
	var snap map[string]any
	require.NoError(t, json.Unmarshal(last, &snap))
	assert.Equal(t, "rock", snap["confirmed"])
}

func TestHub_RegisterAfterClose(t *testing.T) {
	hub := NewHub(0, zerolog.Nop())
	assert.True(t, hub.register(&liveClient{send: make(chan []byte, 1)}))
	assert.Equal(t, 1, hub.Clients())

	hub.Close()
	assert.False(t, hub.register(&liveClient{send: make(chan []byte, 1)}))
	assert.Zero(t, hub.Clients())
}
