package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/services"
)

// PersonHandler handles person operations.
type PersonHandler struct {
	service *services.PersonService
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(service *services.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// PersonInput holds the fields a caller supplies for a new person.
type PersonInput struct {
	ID         string   `json:"id"` // Optional; generated when empty
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	BirthDate  *string  `json:"birthDate"`
	DeathDate  *string  `json:"deathDate"`
	Photo      *string  `json:"photo"`
	Generation int      `json:"generation"`
	PositionX  *float64 `json:"positionX"`
	PositionY  *float64 `json:"positionY"`
}

// PersonPatch lists the fields to change. Nil fields are left alone; an
// empty string clears an optional text field.
type PersonPatch struct {
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	BirthDate  *string  `json:"birthDate"`
	DeathDate  *string  `json:"deathDate"`
	Photo      *string  `json:"photo"`
	Generation *int     `json:"generation"`
	PositionX  *float64 `json:"positionX"`
	PositionY  *float64 `json:"positionY"`
}

// PersonListOptions configures person listing.
type PersonListOptions struct {
	Search string // Case-insensitive match on first or last name (empty = all)
}

// HandleCreate creates a new person.
func (h *PersonHandler) HandleCreate(ctx context.Context, in PersonInput) (*entities.Person, error) {
	p := &entities.Person{
		ID:         strings.TrimSpace(in.ID),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		BirthDate:  blankToNil(in.BirthDate),
		DeathDate:  blankToNil(in.DeathDate),
		Photo:      blankToNil(in.Photo),
		Generation: in.Generation,
		PositionX:  in.PositionX,
		PositionY:  in.PositionY,
	}
	return h.service.Create(ctx, p)
}

// HandleGet returns a person, or an ErrNotFound error.
func (h *PersonHandler) HandleGet(ctx context.Context, id string) (*entities.Person, error) {
	p, err := h.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("person %s: %w", id, entities.ErrNotFound)
	}
	return p, nil
}

// HandleList returns persons in insertion order, optionally filtered by name.
func (h *PersonHandler) HandleList(ctx context.Context, opts PersonListOptions) ([]entities.Person, error) {
	persons, err := h.service.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	query := entities.NormalizeName(opts.Search)
	if query == "" {
		return persons, nil
	}

	filtered := make([]entities.Person, 0, len(persons))
	for i := range persons {
		if matchesName(&persons[i], query) {
			filtered = append(filtered, persons[i])
		}
	}
	return filtered, nil
}

// matchesName reports whether the folded query occurs in either name or the full name.
func matchesName(p *entities.Person, query string) bool {
	return strings.Contains(entities.NormalizeName(p.FirstName), query) ||
		strings.Contains(entities.NormalizeName(p.LastName), query) ||
		strings.Contains(entities.NormalizeName(p.FullName()), query)
}

// HandleUpdate applies a patch to an existing person.
func (h *PersonHandler) HandleUpdate(ctx context.Context, id string, patch PersonPatch) (*entities.Person, error) {
	p, err := h.HandleGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		p.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		p.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.BirthDate != nil {
		p.BirthDate = blankToNil(patch.BirthDate)
	}
	if patch.DeathDate != nil {
		p.DeathDate = blankToNil(patch.DeathDate)
	}
	if patch.Photo != nil {
		p.Photo = blankToNil(patch.Photo)
	}
	if patch.Generation != nil {
		p.Generation = *patch.Generation
	}
	if patch.PositionX != nil {
		p.PositionX = patch.PositionX
	}
	if patch.PositionY != nil {
		p.PositionY = patch.PositionY
	}

	return h.service.Update(ctx, p)
}

// HandleDelete removes a person. Deleting an unknown id is not an error.
func (h *PersonHandler) HandleDelete(ctx context.Context, id string) error {
	return h.service.Delete(ctx, id)
}

// HandleCount returns the total number of persons.
func (h *PersonHandler) HandleCount(ctx context.Context) (int, error) {
	return h.service.Count(ctx)
}

// blankToNil trims s and maps an empty result to nil.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
