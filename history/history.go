// Package history stores evaluation traces in a SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	kamin "github.com/rphilander/kamin/core"
)

const schema = `CREATE TABLE IF NOT EXISTS traces (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	input     TEXT NOT NULL,
	output    TEXT NOT NULL,
	result    TEXT NOT NULL,
	error     TEXT NOT NULL,
	kind      TEXT NOT NULL,
	timestamp TEXT NOT NULL
)`

// Store is a kamin.TraceStore backed by SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database file at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	log.Printf("opened history database: %s", path)
	return &Store{db: db}, nil
}

// Append inserts one trace.
func (s *Store) Append(t kamin.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO traces (input, output, result, error, kind, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Input, t.Output, t.Result, t.Error, t.Kind, t.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns the last limit traces, oldest first. limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]kamin.Trace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT input, output, result, error, kind, timestamp FROM
		(SELECT * FROM traces ORDER BY id DESC LIMIT ?) ORDER BY id ASC`
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	traces := make([]kamin.Trace, 0)
	for rows.Next() {
		var t kamin.Trace
		if err := rows.Scan(&t.Input, &t.Output, &t.Result, &t.Error, &t.Kind, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		traces = append(traces, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return traces, nil
}

// Clear deletes every stored trace.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM traces`); err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
