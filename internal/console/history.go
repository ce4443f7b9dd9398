package console

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// historyDBPath is where a project keeps its console history.
const historyDBPath = ".pipegen/history.db"

// Entry is one recorded console command.
type Entry struct {
	ID        string
	SessionID string
	Command   string
	Input     string
	OK        bool
	CreatedAt time.Time
}

// HistoryStore persists console commands in a per-project SQLite database
// so sessions can review what was tried before.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the history database under the
// project root.
func OpenHistory(root string) (*HistoryStore, error) {
	path := filepath.Join(root, filepath.FromSlash(historyDBPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS history (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	command    TEXT NOT NULL,
	input      TEXT NOT NULL,
	ok         INTEGER NOT NULL,
	created_at TEXT NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Record appends one command to the history.
func (s *HistoryStore) Record(ctx context.Context, sessionID, command, input string, ok bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, session_id, command, input, ok, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, command, input, boolToInt(ok),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, command, input, ok, created_at
		 FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ok int
		var created string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Command, &e.Input, &ok, &created); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.OK = ok != 0
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
