package publish

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu           sync.Mutex
	sent         []message
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message{topic, qos, retained, payload.([]byte)})
	return doneToken{err: c.err}
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestPublisher_OnTransition(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, Config{TopicPrefix: "lab/puppet"}, zerolog.Nop())

	tr := feedback.NewTransition(gesture.LabelNone, gesture.LabelPeace, time.Unix(1700000000, 0).UTC())
	p.OnTransition(context.Background(), tr)

	require.Len(t, fc.sent, 1)
	m := fc.sent[0]
	assert.Equal(t, "lab/puppet/gesture", m.topic)
	assert.Equal(t, byte(1), m.qos)
	assert.True(t, m.retained)

	var got GestureMessage
	require.NoError(t, json.Unmarshal(m.payload, &got))
	assert.Equal(t, tr.ID.String(), got.ID)
	assert.Equal(t, gesture.LabelPeace, got.Label)
	assert.Equal(t, gesture.LabelNone, got.Previous)
	assert.Equal(t, "✌️ Peace Bro", got.Display)
}

func TestPublisher_PoseRateLimit(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, Config{PoseInterval: 100 * time.Millisecond}, zerolog.Nop())

	at := time.Unix(1700000000, 0)
	msg := PoseMessage{Label: gesture.LabelYay, Motion: animation.MotionJump, Pose: animation.Pose{Vertical: 1}}

	msg.At = at
	assert.True(t, p.PublishPose(msg))
	msg.At = at.Add(50 * time.Millisecond)
	assert.False(t, p.PublishPose(msg))
	msg.At = at.Add(100 * time.Millisecond)
	assert.True(t, p.PublishPose(msg))

	require.Len(t, fc.sent, 2)
	assert.Equal(t, "cyberpuppet/pose", fc.sent[0].topic)
	assert.False(t, fc.sent[0].retained)
	assert.Contains(t, string(fc.sent[0].payload), `"motion":"jump"`)
}

func TestPublisher_Errors(t *testing.T) {
	fc := &fakeClient{err: errors.New("broker gone")}
	p := newPublisher(fc, Config{}, zerolog.Nop())

	assert.True(t, p.PublishPose(PoseMessage{At: time.Now()}), "pose errors surface asynchronously")
	p.OnTransition(context.Background(), feedback.NewTransition(gesture.LabelNone, gesture.LabelFist, time.Now()))
	assert.Len(t, fc.sent, 2)

	p.Close()
	assert.True(t, fc.disconnected)
}
