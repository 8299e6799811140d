package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPerson() Person {
	return Person{
		ID:        "p1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		CreatedAt: "t0",
		UpdatedAt: "t0",
	}
}

func validRelationship() Relationship {
	return Relationship{
		ID:           "r1",
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Type:         "colleague",
		Color:        "#000000",
		CreatedAt:    "t0",
		UpdatedAt:    "t0",
	}
}

func TestPerson_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Person)
		missing string
	}{
		{name: "valid", mutate: func(p *Person) {}},
		{name: "missing id", mutate: func(p *Person) { p.ID = "" }, missing: "id"},
		{name: "missing first name", mutate: func(p *Person) { p.FirstName = "" }, missing: "firstName"},
		{name: "missing last name", mutate: func(p *Person) { p.LastName = "" }, missing: "lastName"},
		{name: "missing created at", mutate: func(p *Person) { p.CreatedAt = "" }, missing: "createdAt"},
		{name: "missing updated at", mutate: func(p *Person) { p.UpdatedAt = "" }, missing: "updatedAt"},
		{name: "optional fields may be nil", mutate: func(p *Person) { p.BirthDate = nil; p.PositionX = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPerson()
			tt.mutate(&p)
			err := p.Validate()
			if tt.missing == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrConstraintViolation)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestRelationship_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := validRelationship()
		assert.NoError(t, r.Validate())
	})

	t.Run("lists every missing field", func(t *testing.T) {
		r := Relationship{ID: "r1"}
		err := r.Validate()
		require.ErrorIs(t, err, ErrConstraintViolation)
		assert.Contains(t, err.Error(), "color, createdAt, fromPersonId, toPersonId, type, updatedAt")
	})
}

func TestRelationship_Endpoints(t *testing.T) {
	r := validRelationship()

	assert.True(t, r.Involves("p1"))
	assert.True(t, r.Involves("p2"))
	assert.False(t, r.Involves("p3"))
	assert.Equal(t, "p2", r.Other("p1"))
	assert.Equal(t, "p1", r.Other("p2"))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: ""},
		{name: "not found", err: fmt.Errorf("updating person: %w", ErrNotFound), expected: KindNotFound},
		{name: "duplicate", err: fmt.Errorf("creating person: %w", ErrDuplicateID), expected: KindDuplicateID},
		{name: "constraint", err: ErrConstraintViolation, expected: KindConstraintViolation},
		{name: "storage", err: fmt.Errorf("opening: %w", ErrStorageUnavailable), expected: KindStorageUnavailable},
		{name: "other", err: errors.New("boom"), expected: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Ada", expected: "ada"},
		{input: "  LOVELACE ", expected: "lovelace"},
		{input: "Straße", expected: "strasse"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestPerson_FullName(t *testing.T) {
	p := validPerson()
	assert.Equal(t, "Ada Lovelace", p.FullName())

	p.LastName = ""
	assert.Equal(t, "Ada", p.FullName())
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot()
	assert.NotNil(t, s.Persons)
	assert.NotNil(t, s.Relationships)
	assert.Empty(t, s.Persons)
}
