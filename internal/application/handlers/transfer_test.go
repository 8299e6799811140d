package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/services"
)

func TestTransferHandler_HandleExport(t *testing.T) {
	f := newFixture(t)
	seedLovelace(t, f)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := f.transfer.HandleExport(t.Context(), &buf, "JSON")
		require.NoError(t, err)
		assert.Equal(t, 3, result.Persons)
		assert.Equal(t, 3, result.Relationships)

		var snap entities.Snapshot
		require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
		require.Len(t, snap.Persons, 3)
		assert.Equal(t, "ada", snap.Persons[0].ID)
		assert.Equal(t, "married", *snap.Relationships[0].SpouseType)
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := f.transfer.HandleExport(t.Context(), &buf, "csv")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "id,first_name,last_name"))
		assert.True(t, strings.HasPrefix(lines[1], "ada,Ada,Lovelace,1815-12-10"))
	})

	t.Run("gedcom", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := f.transfer.HandleExport(t.Context(), &buf, "gedcom")
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "0 HEAD")
		assert.Contains(t, buf.String(), "1 NAME Ada /Lovelace/")
		assert.True(t, strings.HasSuffix(buf.String(), "0 TRLR\n"))
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := f.transfer.HandleExport(t.Context(), &bytes.Buffer{}, "xml")
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "xml")
	})
}

func TestTransferHandler_HandleExport_StorageError(t *testing.T) {
	f := newFixture(t)
	f.db.Err = entities.ErrStorageUnavailable

	_, err := f.transfer.HandleExport(t.Context(), &bytes.Buffer{}, "json")

	require.ErrorIs(t, err, entities.ErrStorageUnavailable)
}

func TestTransferHandler_ExportImportRoundTrip(t *testing.T) {
	src := newFixture(t)
	seedLovelace(t, src)

	var buf bytes.Buffer
	_, err := src.transfer.HandleExport(t.Context(), &buf, "json")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	dst := newFixture(t)
	result, err := dst.transfer.HandleImport(t.Context(), path, ImportOptions{Format: "auto"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.PersonsImported)
	assert.Equal(t, 3, result.RelationshipsImported)
	assert.Empty(t, result.Errors)

	want, err := src.db.GetAllPersons(t.Context())
	require.NoError(t, err)
	got, err := dst.db.GetAllPersons(t.Context())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTransferHandler_HandleImport_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	content := "first_name,last_name,birth_date\nAda,Lovelace,1815-12-10\nCharles,Babbage,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	f := newFixture(t)
	result, err := f.transfer.HandleImport(t.Context(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PersonsImported)

	persons, err := f.persons.HandleList(t.Context(), PersonListOptions{})
	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.Equal(t, "Ada", persons[0].FirstName)
	assert.NotEmpty(t, persons[0].ID)
	assert.Nil(t, persons[1].BirthDate)
}

func TestTransferHandler_HandleImport_Errors(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)

	t.Run("unknown extension", func(t *testing.T) {
		_, err := f.transfer.HandleImport(t.Context(), filepath.Join(dir, "tree.xml"), ImportOptions{})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := f.transfer.HandleImport(t.Context(), filepath.Join(dir, "absent.json"), ImportOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening file")
	})

	t.Run("malformed input", func(t *testing.T) {
		path := filepath.Join(dir, "broken.txt")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := f.transfer.HandleImport(t.Context(), path, ImportOptions{Format: "json"})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "parsing input")
	})

	t.Run("reader needs a format", func(t *testing.T) {
		_, err := f.transfer.HandleImportReader(t.Context(), strings.NewReader("{}"), ImportOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "json, csv, gedcom")
	})
}

func TestTransferHandler_HandleImportReader_Replace(t *testing.T) {
	f := newFixture(t)
	f.seedPerson(t, "old", "Old", "Entry")
	f.seedRelationship(t, "r-old", "old", "old", entities.RelationSibling)

	input := `{"persons":[{"id":"p1","firstName":"Ada","lastName":"Lovelace"}],"relationships":[]}`
	result, err := f.transfer.HandleImportReader(t.Context(), strings.NewReader(input), ImportOptions{
		Format: "json",
		Mode:   services.ModeReplace,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Removed)
	assert.Equal(t, 1, result.PersonsImported)

	persons, err := f.db.GetAllPersons(t.Context())
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "p1", persons[0].ID)
}

func TestTransferHandler_HandleImportSnapshot_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.db.Err = errors.Join(entities.ErrStorageUnavailable, errors.New("database is locked"))

	snap := entities.NewSnapshot()
	snap.Persons = append(snap.Persons, entities.Person{ID: "p1", FirstName: "Ada", LastName: "Lovelace"})

	_, err := f.transfer.HandleImportSnapshot(t.Context(), snap, ImportOptions{})

	require.ErrorIs(t, err, entities.ErrStorageUnavailable)
}
