package entities

// RelationType discriminates relationships. The set is open: any non-empty
// string is accepted, the constants are the values the tree UI knows about.
type RelationType string

const (
	RelationParent  RelationType = "parent" // from parent to child
	RelationChild   RelationType = "child"  // from child to parent
	RelationSibling RelationType = "sibling"
	RelationSpouse  RelationType = "spouse"
)

// Spouse relationship kinds, stored in Relationship.SpouseType.
const (
	SpouseMarried   = "married"
	SpouseUnmarried = "unmarried"
)

// DefaultColors is the palette callers pick from when a relationship has no color.
var DefaultColors = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b",
	"#8b5cf6", "#ec4899", "#06b6d4", "#84cc16",
}

// Relationship represents a directed, typed edge between two persons.
type Relationship struct {
	ID             string       `json:"id"`
	FromPersonID   string       `json:"fromPersonId"`
	ToPersonID     string       `json:"toPersonId"`
	Type           RelationType `json:"type"`
	SpouseType     *string      `json:"spouseType"`     // Only meaningful for spouse edges
	MarriageNumber *int         `json:"marriageNumber"` // Ordinal for repeated marriages
	StartDate      *string      `json:"startDate"`
	EndDate        *string      `json:"endDate"`
	Color          string       `json:"color"`
	CreatedAt      string       `json:"createdAt"`
	UpdatedAt      string       `json:"updatedAt"`
}

// Validate reports ErrConstraintViolation when a required field is empty.
func (r *Relationship) Validate() error {
	return requireFields("relationship", map[string]string{
		"id":           r.ID,
		"fromPersonId": r.FromPersonID,
		"toPersonId":   r.ToPersonID,
		"type":         string(r.Type),
		"color":        r.Color,
		"createdAt":    r.CreatedAt,
		"updatedAt":    r.UpdatedAt,
	})
}

// Involves reports whether personID is either endpoint.
func (r *Relationship) Involves(personID string) bool {
	return r.FromPersonID == personID || r.ToPersonID == personID
}

// Other returns the endpoint opposite to personID.
func (r *Relationship) Other(personID string) string {
	if r.FromPersonID == personID {
		return r.ToPersonID
	}
	return r.FromPersonID
}
