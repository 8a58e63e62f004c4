// Package client is a typed Go client for the registration tracker API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"registration-tracker/models"
)

const apiPrefix = "/api/v1"

// APIError is a non-2xx API response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 APIError.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// IsConflict reports whether err is a 409 APIError.
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusConflict
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client is the registration tracker API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string

	// OnUnauthorized fires whenever the server answers 401, before the
	// error is returned. Session uses it to purge stored credentials.
	OnUnauthorized func()
}

// New creates a client for the API at baseURL (scheme://host[:port]).
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token presented on every request.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

// envelope mirrors the server's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	User    *models.User    `json:"user"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) do(method, path string, body interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("invalid response body: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return &env, nil
}

func decode(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// ===== Auth =====

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(email, password string) (*models.User, error) {
	env, err := c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	c.token = env.Token
	return env.User, nil
}

// RegisterUser creates an account and stores the returned token.
func (c *Client) RegisterUser(firstName, lastName, email, password string) (*models.User, error) {
	env, err := c.do(http.MethodPost, "/auth/register", map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	})
	if err != nil {
		return nil, err
	}
	c.token = env.Token
	return env.User, nil
}

// Logout acknowledges server-side and clears the local token.
func (c *Client) Logout() error {
	_, err := c.do(http.MethodPost, "/auth/logout", nil)
	c.token = ""
	return err
}

// Me resolves the current token to its user.
func (c *Client) Me() (*models.User, error) {
	env, err := c.do(http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := decode(env.Data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ===== Countries =====

// CountryWithCounts is a country annotated with dependent counts.
type CountryWithCounts struct {
	models.Country
	CompanyCount int64 `json:"companyCount"`
	PersonCount  int64 `json:"personCount"`
}

// CountryDetail embeds the country's companies.
type CountryDetail struct {
	models.Country
	Companies    []models.Company `json:"companies"`
	CompanyCount int64            `json:"companyCount"`
	PersonCount  int64            `json:"personCount"`
}

func (c *Client) ListCountries() ([]CountryWithCounts, error) {
	env, err := c.do(http.MethodGet, "/countries", nil)
	if err != nil {
		return nil, err
	}
	var countries []CountryWithCounts
	if err := decode(env.Data, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *Client) GetCountry(id uint) (*CountryDetail, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/countries/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var detail CountryDetail
	if err := decode(env.Data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateCountry(fields map[string]interface{}) (*models.Country, error) {
	env, err := c.do(http.MethodPost, "/countries", fields)
	if err != nil {
		return nil, err
	}
	var country models.Country
	if err := decode(env.Data, &country); err != nil {
		return nil, err
	}
	return &country, nil
}

func (c *Client) UpdateCountry(id uint, fields map[string]interface{}) (*models.Country, error) {
	env, err := c.do(http.MethodPut, fmt.Sprintf("/countries/%d", id), fields)
	if err != nil {
		return nil, err
	}
	var country models.Country
	if err := decode(env.Data, &country); err != nil {
		return nil, err
	}
	return &country, nil
}

// CascadeResult reports the dependents removed by a force delete.
type CascadeResult struct {
	CompaniesDeleted int64 `json:"companiesDeleted"`
	PeopleDeleted    int64 `json:"peopleDeleted"`
}

// DeleteCountry deletes a country. With force set, dependents are removed
// first and the returned CascadeResult reports how many.
func (c *Client) DeleteCountry(id uint, force bool) (*CascadeResult, error) {
	path := fmt.Sprintf("/countries/%d", id)
	if force {
		path += "?force=" + url.QueryEscape("true")
	}
	env, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	var meta CascadeResult
	if err := decode(env.Meta, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) ListCountryCompanies(id uint) ([]models.Company, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/countries/%d/companies", id), nil)
	if err != nil {
		return nil, err
	}
	var companies []models.Company
	if err := decode(env.Data, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *Client) ListCountryPeople(id uint) ([]models.Person, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/countries/%d/people", id), nil)
	if err != nil {
		return nil, err
	}
	var people []models.Person
	if err := decode(env.Data, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// ===== Companies =====

// CompanyDetail embeds the company's people.
type CompanyDetail struct {
	models.Company
	People      []models.Person `json:"people"`
	PersonCount int64           `json:"personCount"`
}

func (c *Client) ListCompanies() ([]models.Company, error) {
	env, err := c.do(http.MethodGet, "/companies", nil)
	if err != nil {
		return nil, err
	}
	var companies []models.Company
	if err := decode(env.Data, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *Client) GetCompany(id uint) (*CompanyDetail, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/companies/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var detail CompanyDetail
	if err := decode(env.Data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateCompany(fields map[string]interface{}) (*models.Company, error) {
	env, err := c.do(http.MethodPost, "/companies", fields)
	if err != nil {
		return nil, err
	}
	var company models.Company
	if err := decode(env.Data, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) UpdateCompany(id uint, fields map[string]interface{}) (*models.Company, error) {
	env, err := c.do(http.MethodPut, fmt.Sprintf("/companies/%d", id), fields)
	if err != nil {
		return nil, err
	}
	var company models.Company
	if err := decode(env.Data, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) DeleteCompany(id uint) error {
	_, err := c.do(http.MethodDelete, fmt.Sprintf("/companies/%d", id), nil)
	return err
}

func (c *Client) ListCompanyPeople(id uint) ([]models.Person, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/companies/%d/people", id), nil)
	if err != nil {
		return nil, err
	}
	var people []models.Person
	if err := decode(env.Data, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// ===== People =====

// ListPeople returns people, capped at limit when limit > 0.
func (c *Client) ListPeople(limit int) ([]models.Person, error) {
	path := "/people"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	env, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var people []models.Person
	if err := decode(env.Data, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) GetPerson(id uint) (*models.Person, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/people/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decode(env.Data, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *Client) CreatePerson(fields map[string]interface{}) (*models.Person, error) {
	env, err := c.do(http.MethodPost, "/people", fields)
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decode(env.Data, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *Client) UpdatePerson(id uint, fields map[string]interface{}) (*models.Person, error) {
	env, err := c.do(http.MethodPut, fmt.Sprintf("/people/%d", id), fields)
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decode(env.Data, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *Client) DeletePerson(id uint) error {
	_, err := c.do(http.MethodDelete, fmt.Sprintf("/people/%d", id), nil)
	return err
}

func (c *Client) ListPeopleByCountry(countryID uint) ([]models.Person, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/people/country/%d", countryID), nil)
	if err != nil {
		return nil, err
	}
	var people []models.Person
	if err := decode(env.Data, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) ListPeopleByCompany(companyID uint) ([]models.Person, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/people/company/%d", companyID), nil)
	if err != nil {
		return nil, err
	}
	var people []models.Person
	if err := decode(env.Data, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) UpdatePersonStatus(id uint, status bool) (*models.Person, error) {
	env, err := c.do(http.MethodPatch, fmt.Sprintf("/people/%d/status", id), map[string]bool{"status": status})
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decode(env.Data, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// ===== Dashboard =====

// DashboardStats mirrors the server's aggregate counters.
type DashboardStats struct {
	TotalCompanies      int64 `json:"totalCompanies"`
	TotalCountries      int64 `json:"totalCountries"`
	TotalPeople         int64 `json:"totalPeople"`
	TotalSubdomains     int   `json:"totalSubdomains"`
	TotalIPs            int   `json:"totalIPs"`
	ActiveRegistrations int64 `json:"activeRegistrations"`
}

func (c *Client) GetDashboardStats() (*DashboardStats, error) {
	env, err := c.do(http.MethodGet, "/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats DashboardStats
	if err := decode(env.Data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Activity is one recent-activity feed entry.
type Activity struct {
	Time    string `json:"time"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (c *Client) GetRecentActivity() ([]Activity, error) {
	env, err := c.do(http.MethodGet, "/dashboard/activities", nil)
	if err != nil {
		return nil, err
	}
	var activities []Activity
	if err := decode(env.Data, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
