package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/feedback"
)

// Journal records every transition under one session. It is a
// feedback.Listener.
type Journal struct {
	store   *Store
	session string
	log     zerolog.Logger
}

// OpenJournal starts a new session tagged with source.
func OpenJournal(s *Store, source string, log zerolog.Logger) (*Journal, error) {
	sess := &Session{ID: uuid.NewString(), Source: source}
	if err := s.Sessions().Create(sess); err != nil {
		return nil, err
	}
	return &Journal{store: s, session: sess.ID, log: log.With().Str("session", sess.ID).Logger()}, nil
}

// SessionID returns the journal's session.
func (j *Journal) SessionID() string {
	return j.session
}

// OnTransition records t. Write failures are only logged.
func (j *Journal) OnTransition(_ context.Context, t feedback.Transition) {
	e := &Event{
		ID:         t.ID.String(),
		SessionID:  j.session,
		Label:      t.To,
		Previous:   t.From,
		OccurredAt: t.At,
	}
	if err := j.store.Events().Record(e); err != nil {
		j.log.Error().Err(err).Str("label", t.To.String()).Msg("journal write failed")
	}
}

// Close ends the session.
func (j *Journal) Close() error {
	return j.store.Sessions().End(j.session, time.Now())
}
