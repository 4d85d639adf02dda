// Package publish mirrors confirmed gestures and the puppet pose onto an
// MQTT broker so other devices can follow along.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Topic suffixes under the configured prefix.
const (
	TopicGesture = "gesture"
	TopicPose    = "pose"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// ErrConnectTimeout is returned when the broker does not answer in time.
var ErrConnectTimeout = errors.New("mqtt connect timed out")

// Config selects the broker and topics.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	// PoseInterval is the minimum gap between pose messages.
	PoseInterval time.Duration
}

// GestureMessage is the retained payload on <prefix>/gesture.
type GestureMessage struct {
	ID       string        `json:"id"`
	Label    gesture.Label `json:"label"`
	Previous gesture.Label `json:"previous"`
	Display  string        `json:"display"`
	At       time.Time     `json:"at"`
}

// PoseMessage is the payload on <prefix>/pose.
type PoseMessage struct {
	Label  gesture.Label    `json:"label"`
	Motion animation.Motion `json:"motion"`
	Pose   animation.Pose   `json:"pose"`
	At     time.Time        `json:"at"`
}

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher sends gesture transitions and rate-limited poses. It is a
// feedback.Listener.
type Publisher struct {
	client client
	cfg    Config
	log    zerolog.Logger

	mu       sync.Mutex
	lastPose time.Time
}

// Connect dials the broker and returns a Publisher for it.
func Connect(cfg Config, log zerolog.Logger) (*Publisher, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = "cyberpuppet"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Msg("mqtt connection lost")
		})

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrConnectTimeout, cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}

	log.Info().Str("broker", cfg.Broker).Msg("connected to mqtt broker")
	return newPublisher(c, cfg, log), nil
}

func newPublisher(c client, cfg Config, log zerolog.Logger) *Publisher {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "cyberpuppet"
	}
	return &Publisher{client: c, cfg: cfg, log: log}
}

// Topic returns the full topic for suffix.
func (p *Publisher) Topic(suffix string) string {
	return p.cfg.TopicPrefix + "/" + suffix
}

// OnTransition publishes t as a retained message, so late subscribers
// learn the current gesture.
func (p *Publisher) OnTransition(_ context.Context, t feedback.Transition) {
	msg := GestureMessage{
		ID:       t.ID.String(),
		Label:    t.To,
		Previous: t.From,
		Display:  t.To.DisplayName(),
		At:       t.At,
	}
	if err := p.publish(TopicGesture, 1, true, msg); err != nil {
		p.log.Warn().Err(err).Str("label", t.To.String()).Msg("publish gesture failed")
	}
}

// PublishPose queues msg unless one went out less than PoseInterval ago.
// It never waits for the broker and reports whether msg was queued.
func (p *Publisher) PublishPose(msg PoseMessage) bool {
	p.mu.Lock()
	if !p.lastPose.IsZero() && msg.At.Sub(p.lastPose) < p.cfg.PoseInterval {
		p.mu.Unlock()
		return false
	}
	p.lastPose = msg.At
	p.mu.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		p.log.Debug().Err(err).Msg("marshal pose failed")
		return false
	}

	token := p.client.Publish(p.Topic(TopicPose), 0, false, payload)
	go func() {
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			p.log.Debug().Err(token.Error()).Msg("publish pose failed")
		}
	}()
	return true
}

// Close disconnects, giving in-flight messages a moment to drain.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) publish(suffix string, qos byte, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", suffix, err)
	}

	token := p.client.Publish(p.Topic(suffix), qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out", suffix)
	}
	return token.Error()
}
