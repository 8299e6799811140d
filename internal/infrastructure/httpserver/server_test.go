package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/mocks"
	"github.com/ersonp/kinship/internal/domain/services"
)

func newTestServer(t *testing.T, opts ...services.Option) (*Server, *mocks.RelationalDB) {
	t.Helper()
	db := mocks.NewRelationalDB()
	personService := services.NewPersonService(db)
	srv := New("default", Handlers{
		Persons:       handlers.NewPersonHandler(personService),
		Relationships: handlers.NewRelationshipHandler(services.NewRelationshipService(db, opts...), personService),
		Transfer:      handlers.NewTransferHandler(services.NewTransferService(db, opts...)),
	}, nil)
	return srv, db
}

// do sends a request and decodes a JSON response body into out when non-nil.
func do(t *testing.T, srv *Server, method, target, body string, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestPersonRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	var created entities.Person
	resp := do(t, srv, http.MethodPost, "/persons", `{"id":"ada","firstName":"Ada","lastName":"Lovelace","birthDate":"1815-12-10"}`, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ada", created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	var fetched entities.Person
	resp = do(t, srv, http.MethodGet, "/persons/ada", "", &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, fetched)

	var updated entities.Person
	resp = do(t, srv, http.MethodPut, "/persons/ada", `{"deathDate":"1852-11-27","generation":1}`, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1852-11-27", *updated.DeathDate)
	assert.Equal(t, 1, updated.Generation)

	do(t, srv, http.MethodPost, "/persons", `{"firstName":"Charles","lastName":"Babbage"}`, nil)

	var listed []entities.Person
	resp = do(t, srv, http.MethodGet, "/persons?search=babb", "", &listed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)
	assert.Equal(t, "Charles", listed[0].FirstName)

	resp = do(t, srv, http.MethodDelete, "/persons/ada", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodDelete, "/persons/ada", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRelationshipRoutes(t *testing.T) {
	srv, db := newTestServer(t)
	for _, id := range []string{"ada", "charles"} {
		_, err := db.CreatePerson(t.Context(), &entities.Person{ID: id, FirstName: id, LastName: "X", CreatedAt: "t", UpdatedAt: "t"})
		require.NoError(t, err)
	}

	var rel entities.Relationship
	resp := do(t, srv, http.MethodPost, "/relationships", `{"id":"r1","fromPersonId":"ada","toPersonId":"charles","type":"sibling"}`, &rel)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, entities.DefaultColors, rel.Color)

	var result handlers.ListResult
	resp = do(t, srv, http.MethodGet, "/persons/charles/relationships", "", &result)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, "ada", result.Relationships[0].From.ID)

	resp = do(t, srv, http.MethodGet, "/persons/charles/relationships?type=spouse", "", &result)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, result.Relationships)

	var updated entities.Relationship
	resp = do(t, srv, http.MethodPut, "/relationships/r1", `{"color":"#ef4444"}`, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#ef4444", updated.Color)

	var all []entities.Relationship
	do(t, srv, http.MethodGet, "/relationships", "", &all)
	require.Len(t, all, 1)

	resp = do(t, srv, http.MethodDelete, "/relationships/r1", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var errResp ErrorResponse
	resp = do(t, srv, http.MethodGet, "/relationships/r1", "", &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, entities.KindNotFound, errResp.Kind)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		method   string
		target   string
		body     string
		wantCode int
		wantKind string
	}{
		{"missing person", false, http.MethodGet, "/persons/ghost", "", http.StatusNotFound, entities.KindNotFound},
		{"update missing person", false, http.MethodPut, "/persons/ghost", `{"firstName":"X"}`, http.StatusNotFound, entities.KindNotFound},
		{"duplicate id", false, http.MethodPost, "/persons", `{"id":"seed","firstName":"A","lastName":"B"}`, http.StatusConflict, entities.KindDuplicateID},
		{"missing field", false, http.MethodPost, "/persons", `{"firstName":"A"}`, http.StatusUnprocessableEntity, entities.KindConstraintViolation},
		{"strict dangling endpoint", true, http.MethodPost, "/relationships", `{"fromPersonId":"seed","toPersonId":"ghost","type":"parent"}`, http.StatusUnprocessableEntity, entities.KindConstraintViolation},
		{"malformed body", false, http.MethodPost, "/persons", `{"firstName":`, http.StatusBadRequest, KindBadRequest},
		{"bad export format", false, http.MethodGet, "/export?format=xml", "", http.StatusBadRequest, KindBadRequest},
		{"bad import mode", false, http.MethodPost, "/import?mode=append", `{}`, http.StatusBadRequest, KindBadRequest},
		{"unknown route", false, http.MethodGet, "/nowhere", "", http.StatusNotFound, entities.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, db := newTestServer(t, services.WithStrictReferences(tt.strict))
			_, err := db.CreatePerson(t.Context(), &entities.Person{ID: "seed", FirstName: "S", LastName: "E", CreatedAt: "t", UpdatedAt: "t"})
			require.NoError(t, err)

			var errResp ErrorResponse
			resp := do(t, srv, tt.method, tt.target, tt.body, &errResp)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantKind, errResp.Kind)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestStorageUnavailable(t *testing.T) {
	srv, db := newTestServer(t)
	db.Err = entities.ErrStorageUnavailable

	var errResp ErrorResponse
	resp := do(t, srv, http.MethodGet, "/persons", "", &errResp)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, entities.KindStorageUnavailable, errResp.Kind)
}

func TestHealth(t *testing.T) {
	srv, db := newTestServer(t)
	_, err := db.CreatePerson(t.Context(), &entities.Person{ID: "p1", FirstName: "A", LastName: "B", CreatedAt: "t", UpdatedAt: "t"})
	require.NoError(t, err)

	var body map[string]any
	resp := do(t, srv, http.MethodGet, "/health", "", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "default", body["tree"])
	assert.InDelta(t, 1, body["persons"], 0)
	assert.InDelta(t, 0, body["relationships"], 0)
}

func TestExportImport(t *testing.T) {
	src, db := newTestServer(t)
	_, err := db.CreatePerson(t.Context(), &entities.Person{ID: "ada", FirstName: "Ada", LastName: "Lovelace", CreatedAt: "t", UpdatedAt: "t"})
	require.NoError(t, err)
	_, err = db.CreateRelationship(t.Context(), &entities.Relationship{ID: "r1", FromPersonID: "ada", ToPersonID: "ghost", Type: "child", Color: "#000000", CreatedAt: "t", UpdatedAt: "t"})
	require.NoError(t, err)

	resp := do(t, src, http.MethodGet, "/export", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	dst, dstDB := newTestServer(t)

	var dry services.ImportResult
	resp = do(t, dst, http.MethodPost, "/import?dry_run=true", string(exported), &dry)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, dry.PersonsImported)
	count, err := dstDB.CountPersons(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count, "dry run must not write")

	var result services.ImportResult
	resp = do(t, dst, http.MethodPost, "/import?mode=replace", string(exported), &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, result.PersonsImported)
	assert.Equal(t, 1, result.RelationshipsImported)

	resp = do(t, dst, http.MethodGet, "/export?format=markdown", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	md, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(md), "| Ada Lovelace | child | unknown (ghost) | - | - |")
}
