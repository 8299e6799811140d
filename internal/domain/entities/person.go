// Package entities contains core domain data structures.
package entities

import (
	"strings"

	"golang.org/x/text/cases"
)

// Person is a node in a family tree.
// Optional fields are nil when absent; the persistence layer stores them as NULL.
type Person struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	BirthDate  *string  `json:"birthDate"`
	DeathDate  *string  `json:"deathDate"`
	Photo      *string  `json:"photo"`      // Path or URI, opaque to this layer
	Generation int      `json:"generation"` // Caller-maintained, never inferred
	PositionX  *float64 `json:"positionX"`
	PositionY  *float64 `json:"positionY"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// Validate reports ErrConstraintViolation when a required field is empty.
func (p *Person) Validate() error {
	return requireFields("person", map[string]string{
		"id":        p.ID,
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"createdAt": p.CreatedAt,
		"updatedAt": p.UpdatedAt,
	})
}

// FullName returns "First Last" with surrounding space removed.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// NormalizeName folds case (Unicode-aware) and trims whitespace for matching.
func NormalizeName(name string) string {
	// Casers carry state and must not be shared between goroutines.
	return cases.Fold().String(strings.TrimSpace(name))
}

// Ptr returns a pointer to v. Handy for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
