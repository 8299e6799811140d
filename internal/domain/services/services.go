// Package services holds the caller-side rules around the stores: id and
// timestamp defaults, the reference policy, and snapshot transfer.
package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// TimestampLayout is the ISO 8601 form used for createdAt and updatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// newID returns a new identifier (can be mocked in tests).
var newID = func() string {
	return uuid.New().String()
}

// pickColor chooses a relationship color from the default palette.
var pickColor = func() string {
	return entities.DefaultColors[rand.IntN(len(entities.DefaultColors))]
}

// Timestamp returns the current UTC time in TimestampLayout.
func Timestamp() string {
	return timeNow().UTC().Format(TimestampLayout)
}

// Option configures the services that create relationships.
type Option func(*options)

type options struct {
	strictReferences bool
}

// WithStrictReferences requires both relationship endpoints to exist.
func WithStrictReferences(strict bool) Option {
	return func(o *options) {
		o.strictReferences = strict
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func fillPersonDefaults(p *entities.Person) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = Timestamp()
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = p.CreatedAt
	}
}

func fillRelationshipDefaults(r *entities.Relationship) {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Color == "" {
		r.Color = pickColor()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = Timestamp()
	}
	if r.UpdatedAt == "" {
		r.UpdatedAt = r.CreatedAt
	}
}

// requirePerson fails with ErrConstraintViolation when id names no stored person.
func requirePerson(ctx context.Context, store ports.PersonStore, role, id string) error {
	if id == "" {
		// Reported by validation as a missing field.
		return nil
	}
	p, err := store.GetPerson(ctx, id)
	if err != nil {
		return fmt.Errorf("looking up %s person: %w", role, err)
	}
	if p == nil {
		return fmt.Errorf("%w: %s person %s does not exist", entities.ErrConstraintViolation, role, id)
	}
	return nil
}
