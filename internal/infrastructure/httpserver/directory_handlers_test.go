package httpserver_test

import (
	"net/http"
	"testing"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRoutes(t *testing.T) {
	vet := &directory.Provider{ID: uuid.New(), Name: "Amsterdam Pet Clinic", City: "Amsterdam", Category: "Veterinarian"}
	env := newTestEnv(t, func(e *testEnv) {
		e.dir.Providers = []*directory.Provider{vet}
		e.dir.CityInfo = []*directory.CityInfo{{ID: uuid.New(), City: "Amsterdam", Title: "Dog Leash Laws in Amsterdam"}}
	})

	rec := env.do(t, http.MethodGet, "/api/services?city=amsterdam&category=all", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Amsterdam Pet Clinic")

	rec = env.do(t, http.MethodGet, "/api/services/"+vet.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/services/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/info?city=Amsterdam", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dog Leash Laws")

	for _, path := range []string{"/api/services", "/api/info?category=vet"} {
		rec = env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "city is required", decodeError(t, rec).Error)
	}
}
