package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Failure kinds surfaced by the persistence layer. Stores wrap one of these
// with %w so callers can branch with errors.Is.
var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNotFound            = errors.New("not found")
)

// Kind names used by presentation layers.
const (
	KindStorageUnavailable  = "storage_unavailable"
	KindDuplicateID         = "duplicate_id"
	KindConstraintViolation = "constraint_violation"
	KindNotFound            = "not_found"
	KindInternal            = "internal"
)

// KindOf returns the kind name for err, or "" for a nil error.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateID):
		return KindDuplicateID
	case errors.Is(err, ErrConstraintViolation):
		return KindConstraintViolation
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	default:
		return KindInternal
	}
}

// requireFields returns ErrConstraintViolation naming every empty field.
func requireFields(entity string, fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s missing required fields: %s", ErrConstraintViolation, entity, strings.Join(missing, ", "))
}
