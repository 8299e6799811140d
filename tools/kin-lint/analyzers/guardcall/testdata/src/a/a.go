package a

import (
	"context"
	"database/sql"
	"sync"
)

type guard struct {
	mu sync.Mutex
	db *sql.DB
}

func (g *guard) with(ctx context.Context, fn func(db *sql.DB) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.db)
}

type store struct {
	conn *guard
	raw  *sql.DB
}

func (s *store) bad(ctx context.Context, id string) error {
	_, err := s.raw.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id) // want "sql.DB.ExecContext called outside with"
	return err
}

func (s *store) badRow(ctx context.Context) int {
	var n int
	_ = s.raw.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n) // want "sql.DB.QueryRowContext called outside with"
	return n
}

func (s *store) badTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM relationships`) // want "sql.Tx.ExecContext called outside with"
	return err
}

func (s *store) good(ctx context.Context, id string) error {
	return s.conn.with(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
		return err
	})
}

func (s *store) goodNested(ctx context.Context) (int, error) {
	var n int
	err := s.conn.with(ctx, func(db *sql.DB) error {
		scan := func() error {
			return db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n)
		}
		return scan()
	})
	return n, err
}

func (s *store) goodClose() error {
	return s.raw.Close()
}

// Helpers without a receiver are handed a guarded handle.
func count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n)
	return n, err
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		return nil, err
	}
	return db, nil
}
