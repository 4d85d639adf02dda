package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/plugin"
)

// Speaker turns text into sound. Speak blocks until the utterance ends or
// ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// PluginSpeaker speaks through whichever discovered plugin offers the
// speak action.
type PluginSpeaker struct {
	manager  *plugin.Manager
	executor *plugin.Executor
}

// NewPluginSpeaker creates a PluginSpeaker.
func NewPluginSpeaker(manager *plugin.Manager, executor *plugin.Executor) *PluginSpeaker {
	return &PluginSpeaker{manager: manager, executor: executor}
}

func (s *PluginSpeaker) Speak(ctx context.Context, text string) error {
	p, err := s.manager.ForAction(plugin.ActionSpeak)
	if err != nil {
		return err
	}

	params, err := json.Marshal(plugin.SpeakParams{Text: text})
	if err != nil {
		return fmt.Errorf("marshal speak params: %w", err)
	}

	resp, err := s.executor.Execute(ctx, p, &plugin.Request{Action: plugin.ActionSpeak, Params: params})
	if err != nil {
		return err
	}
	return resp.Err()
}

// LogSpeaker writes phrases to the log instead of the speakers.
type LogSpeaker struct {
	log zerolog.Logger
}

// NewLogSpeaker creates a LogSpeaker.
func NewLogSpeaker(log zerolog.Logger) *LogSpeaker {
	return &LogSpeaker{log: log}
}

func (s *LogSpeaker) Speak(_ context.Context, text string) error {
	s.log.Info().Str("phrase", text).Msg("speak")
	return nil
}
