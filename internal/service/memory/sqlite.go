package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

// SQLiteStore persists session history in a local SQLite file so
// conversations survive restarts.
type SQLiteStore struct {
	db       *sql.DB
	maxTurns int
}

// OpenSQLiteStore opens (or creates) the database at path, ensuring the
// parent directory exists and bootstrapping the schema.
func OpenSQLiteStore(path string, maxTurns int) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db at %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db at %s: %w", path, err)
	}

	store := &SQLiteStore{db: db, maxTurns: maxTurns}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS turns (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Append inserts the turn and trims the session back to the cap, oldest
// rows first.
func (s *SQLiteStore) Append(sessionID string, role chat.Role, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO turns (session_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		sessionID, string(role), content, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM turns
		WHERE session_id = ?
		AND id NOT IN (
			SELECT id FROM turns
			WHERE session_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`, sessionID, sessionID, s.maxTurns)
	if err != nil {
		return fmt.Errorf("trim session %s: %w", sessionID, err)
	}

	return tx.Commit()
}

// History returns the ordered turns of a session, empty if unseen.
func (s *SQLiteStore) History(sessionID string) ([]chat.Turn, error) {
	rows, err := s.db.Query(
		"SELECT role, content, created_at FROM turns WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var role, content, createdAt string
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		ts, _ := time.Parse(time.RFC3339Nano, createdAt)
		turns = append(turns, chat.Turn{Role: chat.Role(role), Content: content, CreatedAt: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return turns, nil
}

// Clear removes all turns of a session.
func (s *SQLiteStore) Clear(sessionID string) error {
	if _, err := s.db.Exec("DELETE FROM turns WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clear session %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
