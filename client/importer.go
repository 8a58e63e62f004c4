package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Mode selects which collections an import touches.
type Mode string

const (
	ModeCompanies Mode = "companies"
	ModeCountries Mode = "countries"
	ModePeople    Mode = "people"
	ModeAll       Mode = "all"
)

// RecordResult is the outcome of one imported record.
type RecordResult struct {
	Collection string `json:"collection"`
	Row        int    `json:"row"` // 1-based position within its collection
	Name       string `json:"name"`
	Err        string `json:"error,omitempty"`
}

// OK reports whether the record imported successfully.
func (r RecordResult) OK() bool { return r.Err == "" }

// BatchResult aggregates an import run. Individual failures never abort the
// batch; records already created stay committed.
type BatchResult struct {
	BatchID   string         `json:"batchId"`
	Results   []RecordResult `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// Importer performs bulk imports from JSON or CSV payloads, issuing one
// create call per record sequentially.
type Importer struct {
	client *Client
}

// NewImporter creates an importer over the given client.
func NewImporter(c *Client) *Importer {
	return &Importer{client: c}
}

// payload is the keyed-array JSON import format. A bare JSON array is also
// accepted and assigned to the collection named by the mode.
type payload struct {
	Companies []map[string]interface{} `json:"companies"`
	Countries []map[string]interface{} `json:"countries"`
	People    []map[string]interface{} `json:"people"`
}

// ImportFile parses data (JSON when filename ends in .json, CSV when .csv)
// and imports the records selected by mode.
func (imp *Importer) ImportFile(filename string, data []byte, mode Mode) (*BatchResult, error) {
	var p payload
	switch {
	case strings.HasSuffix(filename, ".json"):
		parsed, err := parseJSON(data, mode)
		if err != nil {
			return nil, err
		}
		p = *parsed
	case strings.HasSuffix(filename, ".csv"):
		rows := parseCSV(string(data))
		p = keyRows(rows, mode)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .json or .csv)", filename)
	}

	return imp.importPayload(p, mode), nil
}

func parseJSON(data []byte, mode Mode) (*payload, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err == nil &&
		(p.Companies != nil || p.Countries != nil || p.People != nil) {
		return &p, nil
	}

	// Bare array: assign to the collection the caller asked for.
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid JSON import file: %w", err)
	}
	if mode == ModeAll {
		return nil, fmt.Errorf("a bare JSON array needs an explicit collection mode")
	}
	return keyRowsPtr(rows, mode), nil
}

// parseCSV reads a header row and comma-delimited records. This is the
// dialect the dashboard import accepts: plain splits, no quoting or
// escaping, blank lines skipped.
func parseCSV(text string) []map[string]interface{} {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []map[string]interface{}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		row := make(map[string]interface{}, len(headers))
		for i, header := range headers {
			if i < len(values) {
				row[header] = strings.TrimSpace(values[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func keyRows(rows []map[string]interface{}, mode Mode) payload {
	return *keyRowsPtr(rows, mode)
}

func keyRowsPtr(rows []map[string]interface{}, mode Mode) *payload {
	p := &payload{}
	switch mode {
	case ModeCompanies:
		p.Companies = rows
	case ModeCountries:
		p.Countries = rows
	case ModePeople:
		p.People = rows
	}
	return p
}

// importPayload creates every record sequentially. A failure on one record
// is recorded and the run continues with the next.
func (imp *Importer) importPayload(p payload, mode Mode) *BatchResult {
	batch := &BatchResult{BatchID: uuid.NewString()}

	if mode == ModeCompanies || mode == ModeAll {
		for i, row := range p.Companies {
			name := stringField(row, "name")
			_, err := imp.client.CreateCompany(coerceNumbers(companyFields(row), "foundedYear"))
			batch.add("companies", i+1, name, err)
		}
	}
	if mode == ModeCountries || mode == ModeAll {
		for i, row := range p.Countries {
			name := stringField(row, "name")
			_, err := imp.client.CreateCountry(coerceNumbers(row, "population"))
			batch.add("countries", i+1, name, err)
		}
	}
	if mode == ModePeople || mode == ModeAll {
		for i, row := range p.People {
			name := strings.TrimSpace(stringField(row, "firstName") + " " + stringField(row, "lastName"))
			_, err := imp.client.CreatePerson(row)
			batch.add("people", i+1, name, err)
		}
	}

	return batch
}

func (b *BatchResult) add(collection string, row int, name string, err error) {
	result := RecordResult{Collection: collection, Row: row, Name: name}
	if err != nil {
		result.Err = err.Error()
		b.Failed++
	} else {
		b.Succeeded++
	}
	b.Results = append(b.Results, result)
}

func stringField(row map[string]interface{}, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

// coerceNumbers converts numeric cells the CSV parser read as strings into
// JSON numbers so the typed create endpoints accept them. Empty cells are
// dropped; anything that fails to parse is passed through unchanged and left
// for the server to reject.
func coerceNumbers(row map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = v
	}
	for _, key := range keys {
		raw, ok := out[key].(string)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			delete(out, key)
			continue
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			out[key] = n
		}
	}
	return out
}

// companyFields converts comma-joined list cells (domains, subdomains,
// ipAddresses) into string slices before the create call.
func companyFields(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = v
	}
	for _, key := range []string{"domains", "subdomains", "ipAddresses"} {
		if raw, ok := out[key].(string); ok {
			var items []string
			for _, item := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(item); trimmed != "" {
					items = append(items, trimmed)
				}
			}
			out[key] = items
		}
	}
	return out
}
