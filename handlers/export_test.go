package handlers

import (
	"net/http"
	"testing"

	"registration-tracker/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportContainsAllCollections(t *testing.T) {
	env := newTestEnv(t)
	env.createCountry(t, "Ethiopia", "ET")
	status, _ := env.authed(t, http.MethodPost, "/api/v1/companies", fiber.Map{"name": "Acme", "country": "Ethiopia"})
	require.Equal(t, http.StatusCreated, status)
	env.createPerson(t, "Abebe", "Bikila", nil)

	status, body := env.authed(t, http.MethodGet, "/api/v1/backup/export", nil)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "1.0", body["version"])
	assert.Len(t, body["countries"], 1)
	assert.Len(t, body["companies"], 1)
	assert.Len(t, body["people"], 1)
}

func TestImportRejectsMissingVersion(t *testing.T) {
	env := newTestEnv(t)
	status, _ := env.authed(t, http.MethodPost, "/api/v1/backup/import", fiber.Map{
		"countries": []fiber.Map{{"name": "Ethiopia", "code": "ET"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestImportUpsertsByNaturalKey(t *testing.T) {
	env := newTestEnv(t)
	env.createCountry(t, "Ethiopia", "ET")

	payload := fiber.Map{
		"version": "1.0",
		"countries": []fiber.Map{
			{"name": "Ethiopia", "code": "ET", "capital": "Addis Ababa", "isActive": true},
			{"name": "Brazil", "code": "BR", "isActive": true},
		},
		"companies": []fiber.Map{
			{"name": "Acme", "country": "Ethiopia", "industry": "Tech", "isActive": true},
		},
		"people": []fiber.Map{
			{"firstName": "Abebe", "lastName": "Bikila", "email": "abebe@example.com", "isActive": true},
		},
	}

	status, body := env.authed(t, http.MethodPost, "/api/v1/backup/import", payload)
	require.Equal(t, http.StatusOK, status)
	summary := dataMap(t, body)
	assert.EqualValues(t, 2, summary["countries"])
	assert.EqualValues(t, 1, summary["companies"])
	assert.EqualValues(t, 1, summary["people"])

	// Existing Ethiopia was updated in place, not duplicated.
	var countries int64
	env.db.Model(&models.Country{}).Count(&countries)
	assert.EqualValues(t, 2, countries)

	var ethiopia models.Country
	require.NoError(t, env.db.Where("name = ?", "Ethiopia").First(&ethiopia).Error)
	assert.Equal(t, "Addis Ababa", ethiopia.Capital)

	// Re-importing the same payload stays idempotent on counts.
	status, _ = env.authed(t, http.MethodPost, "/api/v1/backup/import", payload)
	require.Equal(t, http.StatusOK, status)
	env.db.Model(&models.Country{}).Count(&countries)
	assert.EqualValues(t, 2, countries)
}
