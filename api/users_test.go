package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndGetUser(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/api/users", `{"id":"u1","name":"Ada"}`)
	require.NoError(t, env.handler.UpsertUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = env.request(http.MethodGet, "/api/users/u1", "")
	c.SetParamNames("user_id")
	c.SetParamValues("u1")
	require.NoError(t, env.handler.GetUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "u1", data["id"])
	assert.Equal(t, "Ada", data["name"])
}

func TestUpsertUserUpdatesName(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodPost, "/api/users", `{"id":"u1","name":"Before"}`)
	require.NoError(t, env.handler.UpsertUser(c))

	c, rec := env.request(http.MethodPost, "/api/users", `{"id":"u1","name":"After"}`)
	require.NoError(t, env.handler.UpsertUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = env.request(http.MethodGet, "/api/users/u1", "")
	c.SetParamNames("user_id")
	c.SetParamValues("u1")
	require.NoError(t, env.handler.GetUser(c))

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "After", data["name"])
}

func TestUpsertUserRequiresID(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/api/users", `{"name":"nameless"}`)
	require.NoError(t, env.handler.UpsertUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "id is required")
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodGet, "/api/users/missing", "")
	c.SetParamNames("user_id")
	c.SetParamValues("missing")
	require.NoError(t, env.handler.GetUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodGet, "/api/users", "")
	require.NoError(t, env.handler.ListUsers(c))
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	c, _ = env.request(http.MethodPost, "/api/users", `{"id":"u1","name":"Ada"}`)
	require.NoError(t, env.handler.UpsertUser(c))
	c, _ = env.request(http.MethodPost, "/api/users", `{"id":"u2","name":"Grace"}`)
	require.NoError(t, env.handler.UpsertUser(c))

	c, rec = env.request(http.MethodGet, "/api/users", "")
	require.NoError(t, env.handler.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	users := envelope["data"].([]interface{})
	assert.Len(t, users, 2)
}
