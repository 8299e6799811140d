package services

import (
	"context"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// PersonService manages persons in a tree.
type PersonService struct {
	store ports.PersonStore
}

// NewPersonService creates a new PersonService.
func NewPersonService(store ports.PersonStore) *PersonService {
	return &PersonService{store: store}
}

// Create stores a new person, assigning an id and timestamps when empty.
func (s *PersonService) Create(ctx context.Context, p *entities.Person) (*entities.Person, error) {
	fillPersonDefaults(p)
	return s.store.CreatePerson(ctx, p)
}

// Get returns the person with the given id, or nil if none exists.
func (s *PersonService) Get(ctx context.Context, id string) (*entities.Person, error) {
	return s.store.GetPerson(ctx, id)
}

// List returns every person in insertion order.
func (s *PersonService) List(ctx context.Context) ([]entities.Person, error) {
	return s.store.GetAllPersons(ctx)
}

// Update stamps UpdatedAt and replaces the stored person.
func (s *PersonService) Update(ctx context.Context, p *entities.Person) (*entities.Person, error) {
	p.UpdatedAt = Timestamp()
	return s.store.UpdatePerson(ctx, p)
}

// Delete removes a person. Their relationships are left in place.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	return s.store.DeletePerson(ctx, id)
}

// Count returns the number of persons.
func (s *PersonService) Count(ctx context.Context) (int, error) {
	return s.store.CountPersons(ctx)
}
