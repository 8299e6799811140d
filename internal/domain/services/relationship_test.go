package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/mocks"
)

func seedPersons(t *testing.T, db *mocks.RelationalDB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := db.CreatePerson(context.Background(), &entities.Person{
			ID: id, FirstName: "First " + id, LastName: "Last", CreatedAt: "t0", UpdatedAt: "t0",
		})
		require.NoError(t, err)
	}
}

func TestRelationshipService_Create(t *testing.T) {
	freezeClock(t)
	ctx := context.Background()

	t.Run("fills id color and timestamps", func(t *testing.T) {
		svc := NewRelationshipService(mocks.NewRelationalDB())
		assert.False(t, svc.Strict())

		rel, err := svc.Create(ctx, &entities.Relationship{
			FromPersonID: "p1",
			ToPersonID:   "p2",
			Type:         entities.RelationParent,
		})
		require.NoError(t, err)
		assert.Equal(t, "id-1", rel.ID)
		assert.Equal(t, "#3b82f6", rel.Color)
		assert.Equal(t, frozenTimestamp, rel.CreatedAt)
		assert.Equal(t, frozenTimestamp, rel.UpdatedAt)
	})

	t.Run("loose policy accepts dangling endpoints", func(t *testing.T) {
		svc := NewRelationshipService(mocks.NewRelationalDB())

		_, err := svc.Create(ctx, &entities.Relationship{FromPersonID: "nobody", ToPersonID: "ghost", Type: "colleague"})
		require.NoError(t, err)
	})

	t.Run("strict policy rejects missing endpoint", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		seedPersons(t, db, "p1")
		svc := NewRelationshipService(db, WithStrictReferences(true))
		assert.True(t, svc.Strict())

		_, err := svc.Create(ctx, &entities.Relationship{FromPersonID: "p1", ToPersonID: "p2", Type: entities.RelationSpouse})
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrConstraintViolation)
		assert.Contains(t, err.Error(), "to person p2")

		count, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("strict policy accepts existing endpoints", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		seedPersons(t, db, "p1", "p2")
		svc := NewRelationshipService(db, WithStrictReferences(true))

		_, err := svc.Create(ctx, &entities.Relationship{FromPersonID: "p1", ToPersonID: "p2", Type: entities.RelationSpouse})
		require.NoError(t, err)
	})

	t.Run("strict policy surfaces storage errors", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		db.Err = entities.ErrStorageUnavailable
		svc := NewRelationshipService(db, WithStrictReferences(true))

		_, err := svc.Create(ctx, &entities.Relationship{FromPersonID: "p1", ToPersonID: "p2", Type: entities.RelationSpouse})
		assert.True(t, errors.Is(err, entities.ErrStorageUnavailable))
	})
}

func TestRelationshipService_UpdateAndList(t *testing.T) {
	freezeClock(t)
	ctx := context.Background()
	db := mocks.NewRelationalDB()
	svc := NewRelationshipService(db)

	for _, rel := range []*entities.Relationship{
		{ID: "r1", FromPersonID: "p1", ToPersonID: "p2", Type: entities.RelationParent, CreatedAt: "t0"},
		{ID: "r2", FromPersonID: "p3", ToPersonID: "p1", Type: entities.RelationSibling, CreatedAt: "t0"},
		{ID: "r3", FromPersonID: "p3", ToPersonID: "p4", Type: entities.RelationSpouse, CreatedAt: "t0"},
	} {
		_, err := svc.Create(ctx, rel)
		require.NoError(t, err)
	}

	forP1, err := svc.ListForPerson(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, forP1, 2)
	assert.Equal(t, "r1", forP1[0].ID)
	assert.Equal(t, "r2", forP1[1].ID)

	rel, err := svc.Get(ctx, "r3")
	require.NoError(t, err)
	rel.SpouseType = entities.Ptr(entities.SpouseMarried)
	rel.UpdatedAt = "stale"

	updated, err := svc.Update(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, frozenTimestamp, updated.UpdatedAt)

	_, err = svc.Update(ctx, &entities.Relationship{ID: "ghost", FromPersonID: "a", ToPersonID: "b", Type: "x", Color: "#000", CreatedAt: "t0"})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "r1"))
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
