package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// classify wraps a driver error with the matching domain error kind.
// Errors that match no kind are wrapped unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if kind := kindOf(err); kind != nil {
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func kindOf(err error) error {
	if errors.Is(err, sql.ErrConnDone) {
		return entities.ErrStorageUnavailable
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return entities.ErrDuplicateID
		}
		switch code & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			if strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed") {
				return entities.ErrDuplicateID
			}
			return entities.ErrConstraintViolation
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_READONLY,
			sqlite3.SQLITE_PERM, sqlite3.SQLITE_FULL, sqlite3.SQLITE_NOTADB,
			sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return entities.ErrStorageUnavailable
		}
		return nil
	}

	// Fallback for wrapped errors that lost their type.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return entities.ErrDuplicateID
	case strings.Contains(msg, "constraint failed"):
		return entities.ErrConstraintViolation
	case strings.Contains(msg, "database is closed"):
		return entities.ErrStorageUnavailable
	}
	return nil
}
