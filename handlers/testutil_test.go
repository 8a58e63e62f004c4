package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"registration-tracker/models"
	"registration-tracker/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, cache *services.Cache) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection: each in-memory sqlite connection is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Country{},
		&models.Company{},
		&models.Person{},
		&models.User{},
	))

	ConfigureAuth("test-secret", time.Hour)
	ResetEvents()

	h := NewHandler(db, cache)
	app := fiber.New()
	h.RegisterRoutes(app)

	env := &testEnv{app: app, db: db}

	status, body := env.request(t, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"firstName": "Test",
		"lastName":  "Admin",
		"email":     "admin@example.com",
		"password":  "hunter22",
	})
	require.Equal(t, http.StatusCreated, status)
	env.token, _ = body["token"].(string)
	require.NotEmpty(t, env.token)

	return env
}

// request issues an unauthenticated request.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return e.do(t, method, path, body, "")
}

// authed issues a request with the env's bearer token.
func (e *testEnv) authed(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return e.do(t, method, path, body, e.token)
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func dataList(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	list, ok := body["data"].([]interface{})
	require.True(t, ok, "expected data array, got %v", body["data"])
	return list
}

func dataMap(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	m, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "expected data object, got %v", body["data"])
	return m
}

func idOf(t *testing.T, body map[string]interface{}) uint {
	t.Helper()
	id, ok := dataMap(t, body)["id"].(float64)
	require.True(t, ok)
	return uint(id)
}
