// Package ports defines the storage interfaces the domain depends on.
package ports

import (
	"context"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// PersonStore persists individuals.
type PersonStore interface {
	// CreatePerson inserts a new person. Fails with ErrDuplicateID on id
	// collision and ErrConstraintViolation when a required field is empty.
	CreatePerson(ctx context.Context, person *entities.Person) (*entities.Person, error)

	// GetPerson returns the person with the given id, or nil if none exists.
	GetPerson(ctx context.Context, id string) (*entities.Person, error)

	// GetAllPersons returns every person in insertion order.
	GetAllPersons(ctx context.Context) ([]entities.Person, error)

	// UpdatePerson replaces the mutable fields of an existing person.
	// Returns ErrNotFound when no row has person.ID.
	UpdatePerson(ctx context.Context, person *entities.Person) (*entities.Person, error)

	// DeletePerson removes a person. Deleting an absent id is not an error.
	// Relationships pointing at the person are left in place.
	DeletePerson(ctx context.Context, id string) error

	// CountPersons returns the number of stored persons.
	CountPersons(ctx context.Context) (int, error)
}

// RelationshipStore persists edges between persons.
type RelationshipStore interface {
	// CreateRelationship inserts a new relationship. Endpoints are not
	// checked against the persons table.
	CreateRelationship(ctx context.Context, rel *entities.Relationship) (*entities.Relationship, error)

	// GetRelationship returns the relationship with the given id, or nil.
	GetRelationship(ctx context.Context, id string) (*entities.Relationship, error)

	// GetAllRelationships returns every relationship in insertion order.
	GetAllRelationships(ctx context.Context) ([]entities.Relationship, error)

	// GetRelationshipsForPerson returns every relationship where personID is
	// either endpoint. Empty, not an error, when there are none.
	GetRelationshipsForPerson(ctx context.Context, personID string) ([]entities.Relationship, error)

	// UpdateRelationship replaces the mutable fields of an existing relationship.
	// Returns ErrNotFound when no row has rel.ID.
	UpdateRelationship(ctx context.Context, rel *entities.Relationship) (*entities.Relationship, error)

	// DeleteRelationship removes a relationship. Deleting an absent id is not an error.
	DeleteRelationship(ctx context.Context, id string) error

	// CountRelationships returns the number of stored relationships.
	CountRelationships(ctx context.Context) (int, error)
}

// RelationalDB is the full persistence surface for one family tree.
type RelationalDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	PersonStore
	RelationshipStore
}
