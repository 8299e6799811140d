package services

import (
	"context"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// RelationshipService manages relationships between persons.
type RelationshipService struct {
	store ports.RelationalDB
	opts  options
}

// NewRelationshipService creates a new RelationshipService.
// Endpoints are unchecked unless WithStrictReferences(true) is given.
func NewRelationshipService(store ports.RelationalDB, opts ...Option) *RelationshipService {
	return &RelationshipService{
		store: store,
		opts:  buildOptions(opts),
	}
}

// Strict reports whether endpoints are checked on create and update.
func (s *RelationshipService) Strict() bool {
	return s.opts.strictReferences
}

// Create stores a new relationship, assigning an id, color and timestamps when empty.
func (s *RelationshipService) Create(ctx context.Context, rel *entities.Relationship) (*entities.Relationship, error) {
	fillRelationshipDefaults(rel)
	if err := s.checkEndpoints(ctx, rel); err != nil {
		return nil, err
	}
	return s.store.CreateRelationship(ctx, rel)
}

// Get returns the relationship with the given id, or nil.
func (s *RelationshipService) Get(ctx context.Context, id string) (*entities.Relationship, error) {
	return s.store.GetRelationship(ctx, id)
}

// List returns every relationship in insertion order.
func (s *RelationshipService) List(ctx context.Context) ([]entities.Relationship, error) {
	return s.store.GetAllRelationships(ctx)
}

// ListForPerson returns relationships where personID is either endpoint.
func (s *RelationshipService) ListForPerson(ctx context.Context, personID string) ([]entities.Relationship, error) {
	return s.store.GetRelationshipsForPerson(ctx, personID)
}

// Update stamps UpdatedAt and replaces the stored relationship.
func (s *RelationshipService) Update(ctx context.Context, rel *entities.Relationship) (*entities.Relationship, error) {
	if err := s.checkEndpoints(ctx, rel); err != nil {
		return nil, err
	}
	rel.UpdatedAt = Timestamp()
	return s.store.UpdateRelationship(ctx, rel)
}

// Delete removes a relationship if present.
func (s *RelationshipService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRelationship(ctx, id)
}

// Count returns the number of relationships.
func (s *RelationshipService) Count(ctx context.Context) (int, error) {
	return s.store.CountRelationships(ctx)
}

func (s *RelationshipService) checkEndpoints(ctx context.Context, rel *entities.Relationship) error {
	if !s.opts.strictReferences {
		return nil
	}
	if err := requirePerson(ctx, s.store, "from", rel.FromPersonID); err != nil {
		return err
	}
	return requirePerson(ctx, s.store, "to", rel.ToPersonID)
}
