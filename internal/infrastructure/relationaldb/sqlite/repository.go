// Package sqlite provides a SQLite implementation of the RelationalDB interface.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
	"github.com/ersonp/kinship/internal/infrastructure/config"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

var _ ports.RelationalDB = (*Repository)(nil)

// Repository implements ports.RelationalDB using SQLite.
// All statements go through a single guarded connection.
type Repository struct {
	conn   *guard
	path   string
	logger *zap.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for statement-level debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository opens (creating if needed) the database at cfg.Path.
// Failures to reach the file are reported as entities.ErrStorageUnavailable.
func NewRepository(cfg config.SQLiteConfig, opts ...Option) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	repo := &Repository{
		path:   cfg.Path,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(repo)
	}

	if !isMemory(cfg.Path) {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %w", entities.ErrStorageUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening sqlite database: %w", entities.ErrStorageUnavailable, err)
	}

	// One connection: an in-memory database lives and dies with it, and
	// per-connection pragmas below must stick.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connecting to %s: %w", entities.ErrStorageUnavailable, cfg.Path, err)
	}

	if err := applyPragmas(db, cfg.BusyTimeoutMS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", entities.ErrStorageUnavailable, err)
	}

	repo.conn = newGuard(db)
	repo.logger.Debug("opened sqlite database", zap.String("path", cfg.Path))
	return repo, nil
}

// applyPragmas sets connection configuration.
func applyPragmas(db *sql.DB, busyTimeoutMS int) error {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = config.DefaultBusyTimeoutMS
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS),
		// Relationship endpoints are declared as foreign keys but not
		// enforced: deleting a person leaves its relationships in place.
		"PRAGMA foreign_keys = OFF",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	return nil
}

func isMemory(path string) bool {
	return path == memoryPath || strings.HasPrefix(path, "file::memory:")
}

// Close closes the database connection. Later calls fail with ErrStorageUnavailable.
func (r *Repository) Close() error {
	return r.conn.close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}
