package store

import "fmt"

var migrations = []string{
	// one row per run of the tracker
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL DEFAULT 'camera',
		started_at DATETIME NOT NULL,
		ended_at DATETIME
	)`,

	// confirmed gesture transitions, including returns to none
	`CREATE TABLE IF NOT EXISTS gesture_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		previous TEXT NOT NULL,
		occurred_at DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_gesture_events_session_id ON gesture_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_gesture_events_label ON gesture_events(label)`,
}

func (s *Store) runMigrations() error {
	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
