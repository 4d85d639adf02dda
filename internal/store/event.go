package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Event is a journaled gesture transition.
type Event struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"session_id"`
	Label      gesture.Label `json:"label"`
	Previous   gesture.Label `json:"previous"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventRepository reads and writes gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record appends e to the journal.
func (r *EventRepository) Record(e *Event) error {
	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, session_id, label, previous, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Label.String(), e.Previous.String(), e.OccurredAt.UTC(),
	)
	return err
}

// Recent returns up to limit events, newest first. An empty sessionID
// spans all sessions.
func (r *EventRepository) Recent(sessionID string, limit int) ([]*Event, error) {
	query := `SELECT id, session_id, label, previous, occurred_at FROM gesture_events`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		var (
			e               Event
			label, previous string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &label, &previous, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Label = gesture.ParseLabel(label)
		e.Previous = gesture.ParseLabel(previous)
		events = append(events, &e)
	}
	return events, rows.Err()
}

// LabelCount is how often a gesture was confirmed.
type LabelCount struct {
	Label   gesture.Label `json:"label"`
	Display string        `json:"display"`
	Count   int           `json:"count"`
}

// Stats summarises the journal.
type Stats struct {
	Sessions    int          `json:"sessions"`
	Transitions int          `json:"transitions"`
	Gestures    []LabelCount `json:"gestures"`
}

// Stats counts confirmations per gesture. Every known gesture appears, in
// rule order, even with a zero count.
func (r *EventRepository) Stats() (*Stats, error) {
	var st Stats
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&st.Sessions); err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM gesture_events`).Scan(&st.Transitions); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM gesture_events GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[gesture.Label]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[gesture.ParseLabel(label)] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, l := range gesture.Labels {
		st.Gestures = append(st.Gestures, LabelCount{Label: l, Display: l.DisplayName(), Count: counts[l]})
	}
	return &st, nil
}
