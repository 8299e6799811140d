// Package mocks provides in-memory implementations of the domain ports for tests.
package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// RelationalDB is an in-memory implementation of ports.RelationalDB.
// It mirrors the SQLite repository: insertion order, typed errors,
// idempotent deletes and unchecked endpoints.
type RelationalDB struct {
	mu            sync.Mutex
	persons       []entities.Person
	relationships []entities.Relationship

	// Err, when set, is returned by every operation.
	Err error

	EnsureSchemaCalls int
}

// NewRelationalDB creates a new mock RelationalDB.
func NewRelationalDB() *RelationalDB {
	return &RelationalDB{}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *RelationalDB) EnsureSchema(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureSchemaCalls++
	return m.Err
}

// Close closes the database connection.
func (m *RelationalDB) Close() error {
	return nil
}

// Person methods.

// CreatePerson inserts a new person.
func (m *RelationalDB) CreatePerson(_ context.Context, p *entities.Person) (*entities.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("creating person: %w", err)
	}
	if m.personIndex(p.ID) >= 0 {
		return nil, fmt.Errorf("creating person %s: %w", p.ID, entities.ErrDuplicateID)
	}
	m.persons = append(m.persons, *p)
	return p, nil
}

// GetPerson returns the person with the given id, or nil.
func (m *RelationalDB) GetPerson(_ context.Context, id string) (*entities.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	i := m.personIndex(id)
	if i < 0 {
		return nil, nil
	}
	p := m.persons[i]
	return &p, nil
}

// GetAllPersons returns every person in insertion order.
func (m *RelationalDB) GetAllPersons(_ context.Context) ([]entities.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]entities.Person{}, m.persons...), nil
}

// UpdatePerson replaces an existing person.
func (m *RelationalDB) UpdatePerson(_ context.Context, p *entities.Person) (*entities.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("updating person: %w", err)
	}
	i := m.personIndex(p.ID)
	if i < 0 {
		return nil, fmt.Errorf("updating person %s: %w", p.ID, entities.ErrNotFound)
	}
	updated := *p
	updated.CreatedAt = m.persons[i].CreatedAt
	m.persons[i] = updated
	return p, nil
}

// DeletePerson removes a person if present.
func (m *RelationalDB) DeletePerson(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if i := m.personIndex(id); i >= 0 {
		m.persons = slices.Delete(m.persons, i, i+1)
	}
	return nil
}

// CountPersons returns the number of persons.
func (m *RelationalDB) CountPersons(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.persons), m.Err
}

// Relationship methods.

// CreateRelationship inserts a new relationship.
func (m *RelationalDB) CreateRelationship(_ context.Context, r *entities.Relationship) (*entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("creating relationship: %w", err)
	}
	if m.relationshipIndex(r.ID) >= 0 {
		return nil, fmt.Errorf("creating relationship %s: %w", r.ID, entities.ErrDuplicateID)
	}
	m.relationships = append(m.relationships, *r)
	return r, nil
}

// GetRelationship returns the relationship with the given id, or nil.
func (m *RelationalDB) GetRelationship(_ context.Context, id string) (*entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	i := m.relationshipIndex(id)
	if i < 0 {
		return nil, nil
	}
	r := m.relationships[i]
	return &r, nil
}

// GetAllRelationships returns every relationship in insertion order.
func (m *RelationalDB) GetAllRelationships(_ context.Context) ([]entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]entities.Relationship{}, m.relationships...), nil
}

// GetRelationshipsForPerson returns relationships touching personID.
func (m *RelationalDB) GetRelationshipsForPerson(_ context.Context, personID string) ([]entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := []entities.Relationship{}
	for i := range m.relationships {
		if m.relationships[i].Involves(personID) {
			result = append(result, m.relationships[i])
		}
	}
	return result, nil
}

// UpdateRelationship replaces an existing relationship.
func (m *RelationalDB) UpdateRelationship(_ context.Context, r *entities.Relationship) (*entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("updating relationship: %w", err)
	}
	i := m.relationshipIndex(r.ID)
	if i < 0 {
		return nil, fmt.Errorf("updating relationship %s: %w", r.ID, entities.ErrNotFound)
	}
	updated := *r
	updated.CreatedAt = m.relationships[i].CreatedAt
	m.relationships[i] = updated
	return r, nil
}

// DeleteRelationship removes a relationship if present.
func (m *RelationalDB) DeleteRelationship(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if i := m.relationshipIndex(id); i >= 0 {
		m.relationships = slices.Delete(m.relationships, i, i+1)
	}
	return nil
}

// CountRelationships returns the number of relationships.
func (m *RelationalDB) CountRelationships(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.relationships), m.Err
}

func (m *RelationalDB) personIndex(id string) int {
	return slices.IndexFunc(m.persons, func(p entities.Person) bool { return p.ID == id })
}

func (m *RelationalDB) relationshipIndex(id string) int {
	return slices.IndexFunc(m.relationships, func(r entities.Relationship) bool { return r.ID == id })
}
