// Package store persists per-profile client-side state that must survive
// restarts but does not belong on the server: read positions, message
// drafts and notification preferences.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoDraft is returned when a channel has no saved draft.
var ErrNoDraft = errors.New("no draft saved")

const schema = `
CREATE TABLE IF NOT EXISTS read_state (
	profile    TEXT NOT NULL,
	channel    TEXT NOT NULL,
	last_seq   INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (profile, channel)
);
CREATE TABLE IF NOT EXISTS drafts (
	profile    TEXT NOT NULL,
	channel    TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (profile, channel)
);
CREATE TABLE IF NOT EXISTS prefs (
	profile      TEXT NOT NULL,
	channel      TEXT NOT NULL,
	muted        INTEGER NOT NULL DEFAULT 0,
	mention_only INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (profile, channel)
);`

// Prefs holds per-channel notification preferences.
type Prefs struct {
	Muted       bool
	MentionOnly bool
}

// Store is a sqlite-backed state store scoped to one profile.
type Store struct {
	db      *sql.DB
	profile string
}

// DefaultPath returns the state database location under the user's data
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "natter", "state.db"), nil
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" in tests.
func Open(path, profile string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state db: %w", err)
	}

	return &Store{db: db, profile: profile}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LastRead returns the last read sequence for a channel, zero when the
// channel was never opened.
func (s *Store) LastRead(channel string) (uint64, error) {
	var seq uint64
	err := s.db.QueryRow(
		`SELECT last_seq FROM read_state WHERE profile = ? AND channel = ?`,
		s.profile, channel,
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read last_seq: %w", err)
	}
	return seq, nil
}

// LastReads returns the read positions for all channels of this profile in
// one query, for the channel list refresh.
func (s *Store) LastReads() (map[string]uint64, error) {
	rows, err := s.db.Query(
		`SELECT channel, last_seq FROM read_state WHERE profile = ?`, s.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	defer rows.Close()

	out := make(map[string]uint64)
	for rows.Next() {
		var channel string
		var seq uint64
		if err := rows.Scan(&channel, &seq); err != nil {
			return nil, fmt.Errorf("failed to scan read state: %w", err)
		}
		out[channel] = seq
	}
	return out, rows.Err()
}

// MarkRead records that everything up to seq in a channel has been seen.
// A lower seq than already recorded is ignored.
func (s *Store) MarkRead(channel string, seq uint64) error {
	_, err := s.db.Exec(`
		INSERT INTO read_state (profile, channel, last_seq, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (profile, channel)
		DO UPDATE SET last_seq = MAX(last_seq, excluded.last_seq), updated_at = excluded.updated_at`,
		s.profile, channel, seq, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark read: %w", err)
	}
	return nil
}

// Draft returns the saved draft for a channel.
func (s *Store) Draft(channel string) (string, error) {
	var body string
	err := s.db.QueryRow(
		`SELECT body FROM drafts WHERE profile = ? AND channel = ?`,
		s.profile, channel,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoDraft
	}
	if err != nil {
		return "", fmt.Errorf("failed to read draft: %w", err)
	}
	return body, nil
}

// SaveDraft stores the in-progress message for a channel. An empty body
// removes the draft.
func (s *Store) SaveDraft(channel, body string) error {
	if body == "" {
		return s.DeleteDraft(channel)
	}
	_, err := s.db.Exec(`
		INSERT INTO drafts (profile, channel, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (profile, channel)
		DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		s.profile, channel, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// DeleteDraft removes a channel's draft, if any.
func (s *Store) DeleteDraft(channel string) error {
	_, err := s.db.Exec(
		`DELETE FROM drafts WHERE profile = ? AND channel = ?`, s.profile, channel)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// ChannelPrefs returns the notification preferences for a channel,
// defaulting to everything enabled.
func (s *Store) ChannelPrefs(channel string) (Prefs, error) {
	var p Prefs
	err := s.db.QueryRow(
		`SELECT muted, mention_only FROM prefs WHERE profile = ? AND channel = ?`,
		s.profile, channel,
	).Scan(&p.Muted, &p.MentionOnly)
	if errors.Is(err, sql.ErrNoRows) {
		return Prefs{}, nil
	}
	if err != nil {
		return Prefs{}, fmt.Errorf("failed to read prefs: %w", err)
	}
	return p, nil
}

// SavePrefs stores the notification preferences for a channel.
func (s *Store) SavePrefs(channel string, p Prefs) error {
	_, err := s.db.Exec(`
		INSERT INTO prefs (profile, channel, muted, mention_only)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (profile, channel)
		DO UPDATE SET muted = excluded.muted, mention_only = excluded.mention_only`,
		s.profile, channel, p.Muted, p.MentionOnly)
	if err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}
	return nil
}
