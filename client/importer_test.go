package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI is an in-memory create-only API that enforces country uniqueness
// the way the server does.
type stubAPI struct {
	mu          sync.Mutex
	countries   map[string]bool // keyed by name and code
	countryRows []map[string]interface{}
	companies   []map[string]interface{}
	people      []map[string]interface{}
}

func newStubAPI() *stubAPI {
	return &stubAPI{countries: map[string]bool{}}
}

func (s *stubAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/countries", func(w http.ResponseWriter, r *http.Request) {
		var row map[string]interface{}
		json.NewDecoder(r.Body).Decode(&row)
		name, _ := row["name"].(string)
		code, _ := row["code"].(string)
		code = strings.ToUpper(code)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.countries[name] || s.countries[code] {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false, "error": "Country with this name or code already exists",
			})
			return
		}
		s.countries[name] = true
		s.countries[code] = true
		s.countryRows = append(s.countryRows, row)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": len(s.countries), "name": name, "code": code},
		})
	})
	mux.HandleFunc("/api/v1/companies", func(w http.ResponseWriter, r *http.Request) {
		var row map[string]interface{}
		json.NewDecoder(r.Body).Decode(&row)
		s.mu.Lock()
		s.companies = append(s.companies, row)
		s.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": row})
	})
	mux.HandleFunc("/api/v1/people", func(w http.ResponseWriter, r *http.Request) {
		var row map[string]interface{}
		json.NewDecoder(r.Body).Decode(&row)
		s.mu.Lock()
		s.people = append(s.people, row)
		s.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": row})
	})
	return mux
}

func TestParseCSVDialect(t *testing.T) {
	rows := parseCSV("name,code\nWakanda, wk \n\nAtlantis,AT\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "Wakanda", rows[0]["name"])
	assert.Equal(t, "wk", rows[0]["code"], "cells are trimmed, not upper-cased client-side")
	assert.Equal(t, "Atlantis", rows[1]["name"])
}

func TestParseCSVPadsShortRows(t *testing.T) {
	rows := parseCSV("name,code,capital\nWakanda,WK")
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["capital"])
}

func TestImportCSVCountriesThenConflictOnRepeat(t *testing.T) {
	api := newStubAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	imp := NewImporter(New(srv.URL))
	csv := []byte("name,code\nWakanda,WK\n")

	batch, err := imp.ImportFile("countries.csv", csv, ModeCountries)
	require.NoError(t, err)
	require.NotEmpty(t, batch.BatchID)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 0, batch.Failed)

	// Identical row again: that record fails, nothing aborts.
	batch, err = imp.ImportFile("countries.csv", csv, ModeCountries)
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Results, 1)
	assert.False(t, batch.Results[0].OK())
	assert.Contains(t, batch.Results[0].Err, "already exists")
}

func TestImportContinuesPastFailures(t *testing.T) {
	api := newStubAPI()
	api.countries["Wakanda"] = true
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	imp := NewImporter(New(srv.URL))
	csv := []byte("name,code\nWakanda,WK\nAtlantis,AT\n")

	batch, err := imp.ImportFile("countries.csv", csv, ModeCountries)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, 1, batch.Succeeded, "failure on row 1 does not block row 2")
	assert.Equal(t, "Atlantis", batch.Results[1].Name)
	assert.True(t, batch.Results[1].OK())
}

func TestImportJSONKeyedPayload(t *testing.T) {
	api := newStubAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	imp := NewImporter(New(srv.URL))
	blob := []byte(`{
		"countries": [{"name": "Wakanda", "code": "WK"}],
		"people": [{"firstName": "Abebe", "lastName": "Bikila"}]
	}`)

	batch, err := imp.ImportFile("bulk.json", blob, ModeAll)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Succeeded)
	require.Len(t, api.people, 1)
	assert.Equal(t, "Abebe Bikila", batch.Results[1].Name)
}

func TestImportJSONBareArrayNeedsMode(t *testing.T) {
	imp := NewImporter(New("http://unused"))

	_, err := imp.ImportFile("bulk.json", []byte(`[{"name":"Wakanda","code":"WK"}]`), ModeAll)
	assert.Error(t, err)
}

func TestImportCompanySplitsListCells(t *testing.T) {
	api := newStubAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	imp := NewImporter(New(srv.URL))
	csv := []byte("name,country,domains\nAcme,Ethiopia,acme.et\n")

	batch, err := imp.ImportFile("companies.csv", csv, ModeCompanies)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Succeeded)

	require.Len(t, api.companies, 1)
	domains, ok := api.companies[0]["domains"].([]interface{})
	require.True(t, ok, "domains cell must arrive as a list: %v", api.companies[0]["domains"])
	assert.Equal(t, "acme.et", domains[0])
}

func TestImportCoercesNumericCells(t *testing.T) {
	api := newStubAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	imp := NewImporter(New(srv.URL))

	csv := []byte("name,code,population\nWakanda,WK,6000000\nAtlantis,AT,\n")
	batch, err := imp.ImportFile("countries.csv", csv, ModeCountries)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Succeeded)

	require.Len(t, api.countryRows, 2)
	// The typed server endpoint rejects "6000000" as a string; it must be
	// sent as a JSON number.
	assert.Equal(t, float64(6000000), api.countryRows[0]["population"])
	// An empty cell is omitted rather than sent as "".
	_, present := api.countryRows[1]["population"]
	assert.False(t, present)

	csv = []byte("name,country,foundedYear\nAcme,Wakanda,1999\n")
	batch, err = imp.ImportFile("companies.csv", csv, ModeCompanies)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Succeeded)
	require.Len(t, api.companies, 1)
	assert.Equal(t, float64(1999), api.companies[0]["foundedYear"])
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	imp := NewImporter(New("http://unused"))
	_, err := imp.ImportFile("data.xlsx", nil, ModeCountries)
	assert.Error(t, err)
}
