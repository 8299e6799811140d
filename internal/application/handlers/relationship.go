package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/services"
)

// KnownRelationTypes lists the relationship types the tree view draws.
// Other non-empty types are stored as given.
var KnownRelationTypes = []string{
	string(entities.RelationParent),
	string(entities.RelationChild),
	string(entities.RelationSibling),
	string(entities.RelationSpouse),
}

// RelationshipHandler handles relationship operations.
type RelationshipHandler struct {
	service *services.RelationshipService
	persons *services.PersonService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(service *services.RelationshipService, persons *services.PersonService) *RelationshipHandler {
	return &RelationshipHandler{
		service: service,
		persons: persons,
	}
}

// RelationshipInput holds the fields a caller supplies for a new relationship.
type RelationshipInput struct {
	ID             string  `json:"id"` // Optional; generated when empty
	FromPersonID   string  `json:"fromPersonId"`
	ToPersonID     string  `json:"toPersonId"`
	Type           string  `json:"type"`
	SpouseType     *string `json:"spouseType"`
	MarriageNumber *int    `json:"marriageNumber"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	Color          string  `json:"color"` // Optional; picked from the palette when empty
}

// RelationshipPatch lists the fields to change. Nil fields are left alone;
// an empty string clears an optional text field.
type RelationshipPatch struct {
	FromPersonID   *string `json:"fromPersonId"`
	ToPersonID     *string `json:"toPersonId"`
	Type           *string `json:"type"`
	SpouseType     *string `json:"spouseType"`
	MarriageNumber *int    `json:"marriageNumber"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	Color          *string `json:"color"`
}

// ListOptions configures relationship listing behavior.
type ListOptions struct {
	Type string // Filter by relationship type (empty = all)
}

// RelationshipInfo contains a relationship with its endpoint persons.
// From and To are nil when the endpoint does not exist.
type RelationshipInfo struct {
	Relationship entities.Relationship `json:"relationship"`
	From         *entities.Person      `json:"from,omitempty"`
	To           *entities.Person      `json:"to,omitempty"`
}

// ListResult contains the result of listing a person's relationships.
type ListResult struct {
	Person        *entities.Person   `json:"person"`
	Relationships []RelationshipInfo `json:"relationships"`
}

// HandleCreate creates a new relationship.
func (h *RelationshipHandler) HandleCreate(ctx context.Context, in RelationshipInput) (*entities.Relationship, error) {
	spouseType, err := parseSpouseType(in.SpouseType)
	if err != nil {
		return nil, err
	}

	rel := &entities.Relationship{
		ID:             strings.TrimSpace(in.ID),
		FromPersonID:   strings.TrimSpace(in.FromPersonID),
		ToPersonID:     strings.TrimSpace(in.ToPersonID),
		Type:           parseRelationType(in.Type),
		SpouseType:     spouseType,
		MarriageNumber: in.MarriageNumber,
		StartDate:      blankToNil(in.StartDate),
		EndDate:        blankToNil(in.EndDate),
		Color:          strings.TrimSpace(in.Color),
	}
	return h.service.Create(ctx, rel)
}

// HandleGet returns a relationship, or an ErrNotFound error.
func (h *RelationshipHandler) HandleGet(ctx context.Context, id string) (*entities.Relationship, error) {
	rel, err := h.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, fmt.Errorf("relationship %s: %w", id, entities.ErrNotFound)
	}
	return rel, nil
}

// HandleListAll returns every relationship in insertion order.
func (h *RelationshipHandler) HandleListAll(ctx context.Context) ([]entities.Relationship, error) {
	return h.service.List(ctx)
}

// HandleUpdate applies a patch to an existing relationship.
func (h *RelationshipHandler) HandleUpdate(ctx context.Context, id string, patch RelationshipPatch) (*entities.Relationship, error) {
	rel, err := h.HandleGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FromPersonID != nil {
		rel.FromPersonID = strings.TrimSpace(*patch.FromPersonID)
	}
	if patch.ToPersonID != nil {
		rel.ToPersonID = strings.TrimSpace(*patch.ToPersonID)
	}
	if patch.Type != nil {
		rel.Type = parseRelationType(*patch.Type)
	}
	if patch.SpouseType != nil {
		spouseType, err := parseSpouseType(patch.SpouseType)
		if err != nil {
			return nil, err
		}
		rel.SpouseType = spouseType
	}
	if patch.MarriageNumber != nil {
		rel.MarriageNumber = patch.MarriageNumber
	}
	if patch.StartDate != nil {
		rel.StartDate = blankToNil(patch.StartDate)
	}
	if patch.EndDate != nil {
		rel.EndDate = blankToNil(patch.EndDate)
	}
	if patch.Color != nil {
		rel.Color = strings.TrimSpace(*patch.Color)
	}

	return h.service.Update(ctx, rel)
}

// HandleDelete removes a relationship by ID.
func (h *RelationshipHandler) HandleDelete(ctx context.Context, id string) error {
	return h.service.Delete(ctx, id)
}

// HandleList returns a person's relationships with both endpoints resolved.
// An unknown person yields a nil Person and whatever edges still name it.
func (h *RelationshipHandler) HandleList(ctx context.Context, personID string, opts ListOptions) (*ListResult, error) {
	person, err := h.persons.Get(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("getting person: %w", err)
	}

	relationships, err := h.service.ListForPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	// Filter by type if specified
	if opts.Type != "" {
		want := parseRelationType(opts.Type)
		filtered := make([]entities.Relationship, 0, len(relationships))
		for i := range relationships {
			if relationships[i].Type == want {
				filtered = append(filtered, relationships[i])
			}
		}
		relationships = filtered
	}

	// Resolve each endpoint once
	cache := make(map[string]*entities.Person)
	if person != nil {
		cache[person.ID] = person
	}
	lookup := func(id string) (*entities.Person, error) {
		if p, ok := cache[id]; ok {
			return p, nil
		}
		p, err := h.persons.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting person %s: %w", id, err)
		}
		cache[id] = p
		return p, nil
	}

	result := &ListResult{
		Person:        person,
		Relationships: make([]RelationshipInfo, 0, len(relationships)),
	}
	for i := range relationships {
		from, err := lookup(relationships[i].FromPersonID)
		if err != nil {
			return nil, err
		}
		to, err := lookup(relationships[i].ToPersonID)
		if err != nil {
			return nil, err
		}
		result.Relationships = append(result.Relationships, RelationshipInfo{
			Relationship: relationships[i],
			From:         from,
			To:           to,
		})
	}

	return result, nil
}

// HandleCount returns the total number of relationships.
func (h *RelationshipHandler) HandleCount(ctx context.Context) (int, error) {
	return h.service.Count(ctx)
}

// parseRelationType normalizes a relationship type string.
func parseRelationType(s string) entities.RelationType {
	return entities.RelationType(strings.ToLower(strings.TrimSpace(s)))
}

// parseSpouseType accepts married, unmarried, or blank (cleared).
func parseSpouseType(s *string) (*string, error) {
	v := blankToNil(s)
	if v == nil {
		return nil, nil
	}
	switch lower := strings.ToLower(*v); lower {
	case entities.SpouseMarried, entities.SpouseUnmarried:
		return &lower, nil
	default:
		return nil, fmt.Errorf("%w: invalid spouse type %q (valid: married, unmarried)", entities.ErrConstraintViolation, *v)
	}
}
