package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// guard owns the single database handle. Every operation runs inside with,
// so at most one statement sequence touches the connection at a time.
type guard struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

func newGuard(db *sql.DB) *guard {
	return &guard{db: db}
}

// with runs fn while holding the connection.
func (g *guard) with(ctx context.Context, fn func(db *sql.DB) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return fmt.Errorf("%w: database is closed", entities.ErrStorageUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(g.db)
}

func (g *guard) close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	return g.db.Close()
}
