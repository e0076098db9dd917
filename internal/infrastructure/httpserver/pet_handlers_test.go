package httpserver_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetsCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/pets", map[string]any{"name": "Rex", "type": "dog", "age": 3}, validToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created pet.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, env.userID, created.UserID)
	assert.Equal(t, "years", created.AgeUnit)

	rec = env.do(t, http.MethodGet, "/api/pets", nil, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []pet.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = env.do(t, http.MethodPut, "/api/pets/"+created.ID.String(), map[string]any{"breed": "beagle"}, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"breed":"beagle"`)
	assert.Contains(t, rec.Body.String(), `"name":"Rex"`)

	rec = env.do(t, http.MethodGet, "/api/pets/"+created.ID.String(), nil, validToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/pets/"+created.ID.String(), nil, validToken)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.pets.Pets)
}

func TestPets_Errors(t *testing.T) {
	env := newTestEnv(t)
	foreign := &pet.Pet{ID: uuid.New(), UserID: uuid.New(), Name: "Tom", Type: "cat"}
	env.pets.Pets[foreign.ID] = foreign

	rec := env.do(t, http.MethodGet, "/api/pets/"+foreign.ID.String(), nil, validToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/pets/"+foreign.ID.String(), nil, validToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/pets/"+uuid.NewString(), nil, validToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/pets/not-a-uuid", nil, validToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/pets", map[string]any{"name": "Nameless"}, validToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	rex := &pet.Pet{ID: uuid.New(), UserID: env.userID, Name: "Rex", Type: "dog"}
	env.pets.Pets[rex.ID] = rex

	for _, day := range []string{"2026-02-01", "2026-02-28T18:30", "2026-03-01"} {
		rec := env.do(t, http.MethodPost, "/api/pets/events", map[string]any{
			"petId": rex.ID, "title": "Walk " + day, "type": "exercise", "startDate": day,
		}, validToken)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/api/pets/events?petId="+rex.ID.String()+"&start=2026-02-01&end=2026-02-28", nil, validToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var events []pet.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 2)
	assert.True(t, env.events.LastFilter.From.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, env.events.LastFilter.To.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	rec = env.do(t, http.MethodPatch, "/api/pets/events/"+events[0].ID.String(), map[string]any{"completed": true}, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)

	rec = env.do(t, http.MethodDelete, "/api/pets/events/"+events[0].ID.String(), nil, validToken)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, env.events.Events, 2)
}

func TestEvents_BadInput(t *testing.T) {
	env := newTestEnv(t)
	rex := &pet.Pet{ID: uuid.New(), UserID: env.userID, Name: "Rex", Type: "dog"}
	env.pets.Pets[rex.ID] = rex

	for _, path := range []string{
		"/api/pets/events?start=01-02-2026",
		"/api/pets/events?end=tomorrow",
		"/api/pets/events?petId=rex",
	} {
		rec := env.do(t, http.MethodGet, path, nil, validToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := env.do(t, http.MethodPost, "/api/pets/events", map[string]any{
		"petId": rex.ID, "title": "Bath", "type": "grooming", "startDate": "next week",
	}, validToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_date", decodeError(t, rec).Code)

	rec = env.do(t, http.MethodPost, "/api/pets/events", map[string]any{
		"petId": rex.ID, "title": "Bath", "type": "spa", "startDate": "2026-02-01",
	}, validToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/pets/events", map[string]any{
		"petId": uuid.New(), "title": "Bath", "type": "grooming", "startDate": "2026-02-01",
	}, validToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
