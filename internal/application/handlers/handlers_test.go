package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/mocks"
	"github.com/ersonp/kinship/internal/domain/services"
)

const testTimestamp = "2024-03-01T12:30:00.000Z"

// fixture bundles handlers sharing one in-memory store.
type fixture struct {
	db            *mocks.RelationalDB
	persons       *PersonHandler
	relationships *RelationshipHandler
	transfer      *TransferHandler
}

func newFixture(t *testing.T, opts ...services.Option) *fixture {
	t.Helper()
	db := mocks.NewRelationalDB()
	personService := services.NewPersonService(db)
	return &fixture{
		db:            db,
		persons:       NewPersonHandler(personService),
		relationships: NewRelationshipHandler(services.NewRelationshipService(db, opts...), personService),
		transfer:      NewTransferHandler(services.NewTransferService(db, opts...)),
	}
}

// seedPerson stores a person with fixed timestamps directly in the mock.
func (f *fixture) seedPerson(t *testing.T, id, first, last string) *entities.Person {
	t.Helper()
	p, err := f.db.CreatePerson(t.Context(), &entities.Person{
		ID:        id,
		FirstName: first,
		LastName:  last,
		CreatedAt: testTimestamp,
		UpdatedAt: testTimestamp,
	})
	require.NoError(t, err)
	return p
}

// seedRelationship stores a relationship with fixed color and timestamps.
func (f *fixture) seedRelationship(t *testing.T, id, from, to string, typ entities.RelationType) *entities.Relationship {
	t.Helper()
	r, err := f.db.CreateRelationship(t.Context(), &entities.Relationship{
		ID:           id,
		FromPersonID: from,
		ToPersonID:   to,
		Type:         typ,
		Color:        "#3b82f6",
		CreatedAt:    testTimestamp,
		UpdatedAt:    testTimestamp,
	})
	require.NoError(t, err)
	return r
}
