// Package nickstore persists per-guild nicknames in a sqlite database.
package nickstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultDirMode  = 0o755
	defaultFileMode = 0o600
)

type Store struct {
	path string
	db   *sql.DB
}

// Open opens (creating if needed) the nickname database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("nickstore: db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("nickstore: create dir: %w", err)
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("nickstore: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{path: path, db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := os.Chmod(path, defaultFileMode); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS nicknames (
	guild_id   TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	nickname   TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (guild_id, user_id)
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("nickstore: migrate: %w", err)
	}
	return nil
}

// Set stores the nickname for a user within a guild, replacing any
// previous one.
func (s *Store) Set(ctx context.Context, guildID, userID, nickname string) error {
	guildID = strings.TrimSpace(guildID)
	userID = strings.TrimSpace(userID)
	nickname = strings.TrimSpace(nickname)
	if userID == "" {
		return errors.New("nickstore: user id is required")
	}
	if nickname == "" {
		return errors.New("nickstore: nickname is required")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO nicknames (guild_id, user_id, nickname, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (guild_id, user_id) DO UPDATE SET
	nickname = excluded.nickname,
	updated_at = excluded.updated_at`,
		guildID, userID, nickname, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("nickstore: set: %w", err)
	}
	return nil
}

// Get returns the stored nickname, reporting whether one exists.
func (s *Store) Get(ctx context.Context, guildID, userID string) (string, bool, error) {
	var nickname string
	err := s.db.QueryRowContext(ctx, `
SELECT nickname FROM nicknames WHERE guild_id = ? AND user_id = ?`,
		strings.TrimSpace(guildID), strings.TrimSpace(userID)).Scan(&nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("nickstore: get: %w", err)
	}
	return nickname, true, nil
}

// Delete removes the stored nickname. Deleting a missing row is not an
// error.
func (s *Store) Delete(ctx context.Context, guildID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM nicknames WHERE guild_id = ? AND user_id = ?`,
		strings.TrimSpace(guildID), strings.TrimSpace(userID))
	if err != nil {
		return fmt.Errorf("nickstore: delete: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
