package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// countryWithCounts annotates a country with live-computed dependent counts.
type countryWithCounts struct {
	models.Country
	CompanyCount int64 `json:"companyCount"`
	PersonCount  int64 `json:"personCount"`
}

type countryDetail struct {
	models.Country
	Companies    []models.Company `json:"companies"`
	CompanyCount int64            `json:"companyCount"`
	PersonCount  int64            `json:"personCount"`
}

func (h *Handler) countDependents(countryName string) (companies int64, people int64) {
	h.DB.Model(&models.Company{}).Where("country = ?", countryName).Count(&companies)
	h.DB.Model(&models.Person{}).Where("country = ?", countryName).Count(&people)
	return
}

// GetCountries lists all countries sorted by name, each annotated with
// companyCount and personCount computed against the live collections.
// GET /api/v1/countries
func (h *Handler) GetCountries(c *fiber.Ctx) error {
	var countries []models.Country
	if err := h.DB.Order("name ASC").Find(&countries).Error; err != nil {
		return serverError(c)
	}

	annotated := make([]countryWithCounts, 0, len(countries))
	for _, country := range countries {
		companies, people := h.countDependents(country.Name)
		annotated = append(annotated, countryWithCounts{
			Country:      country,
			CompanyCount: companies,
			PersonCount:  people,
		})
	}

	return okCount(c, annotated, len(annotated))
}

// GetCountry returns a single country with its companies embedded.
// GET /api/v1/countries/:id
func (h *Handler) GetCountry(c *fiber.Ctx) error {
	var country models.Country
	if err := h.DB.First(&country, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	var companies []models.Company
	if err := h.DB.Where("country = ?", country.Name).Order("name ASC").Find(&companies).Error; err != nil {
		return serverError(c)
	}

	var personCount int64
	h.DB.Model(&models.Person{}).Where("country = ?", country.Name).Count(&personCount)

	return ok(c, countryDetail{
		Country:      country,
		Companies:    companies,
		CompanyCount: int64(len(companies)),
		PersonCount:  personCount,
	})
}

type countryInput struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Region     string `json:"region"`
	Continent  string `json:"continent"`
	Capital    string `json:"capital"`
	Population int64  `json:"population"`
	Currency   string `json:"currency"`
	Language   string `json:"language"`
}

// CreateCountry creates a country. Name and code are globally unique; the
// code is normalized to upper case before the uniqueness check and storage.
// POST /api/v1/countries
func (h *Handler) CreateCountry(c *fiber.Ctx) error {
	var input countryInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Name == "" || input.Code == "" {
		return fail(c, http.StatusBadRequest, "Name and code are required")
	}
	if len(input.Code) < 2 || len(input.Code) > 3 {
		return fail(c, http.StatusBadRequest, "Code must be 2 to 3 characters")
	}

	var existing models.Country
	err := h.DB.Where("name = ? OR code = ?", input.Name, input.Code).First(&existing).Error
	if err == nil {
		return fail(c, http.StatusConflict, "Country with this name or code already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serverError(c)
	}

	country := models.Country{
		Name:       input.Name,
		Code:       input.Code,
		Region:     input.Region,
		Continent:  input.Continent,
		Capital:    input.Capital,
		Population: input.Population,
		Currency:   input.Currency,
		Language:   input.Language,
		IsActive:   true,
	}
	if err := h.DB.Create(&country).Error; err != nil {
		return serverError(c)
	}

	system.Info("Country created: %s (%s)", country.Name, country.Code)
	AddEvent("success", "Country registered: "+country.Name)
	h.invalidateStats(c)

	return created(c, country)
}

type countryUpdate struct {
	Name       *string `json:"name"`
	Code       *string `json:"code"`
	Region     *string `json:"region"`
	Continent  *string `json:"continent"`
	Capital    *string `json:"capital"`
	Population *int64  `json:"population"`
	Currency   *string `json:"currency"`
	Language   *string `json:"language"`
	IsActive   *bool   `json:"isActive"`
}

// UpdateCountry applies a partial update. Only the fields present in the
// body change. Renaming does not cascade to Company/Person country strings.
// PUT /api/v1/countries/:id
func (h *Handler) UpdateCountry(c *fiber.Ctx) error {
	var country models.Country
	if err := h.DB.First(&country, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	var input countryUpdate
	if err := c.BodyParser(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	if input.Name != nil || input.Code != nil {
		name := country.Name
		if input.Name != nil {
			name = strings.TrimSpace(*input.Name)
		}
		code := country.Code
		if input.Code != nil {
			code = strings.ToUpper(strings.TrimSpace(*input.Code))
		}
		var existing models.Country
		err := h.DB.Where("id <> ? AND (name = ? OR code = ?)", country.ID, name, code).First(&existing).Error
		if err == nil {
			return fail(c, http.StatusConflict, "Another country with this name or code already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return serverError(c)
		}
		country.Name = name
		country.Code = code
	}
	if input.Region != nil {
		country.Region = *input.Region
	}
	if input.Continent != nil {
		country.Continent = *input.Continent
	}
	if input.Capital != nil {
		country.Capital = *input.Capital
	}
	if input.Population != nil {
		country.Population = *input.Population
	}
	if input.Currency != nil {
		country.Currency = *input.Currency
	}
	if input.Language != nil {
		country.Language = *input.Language
	}
	if input.IsActive != nil {
		country.IsActive = *input.IsActive
	}

	if err := h.DB.Save(&country).Error; err != nil {
		return serverError(c)
	}

	h.invalidateStats(c)

	return ok(c, country)
}

// DeleteCountry removes a country. With dependents present the delete is
// refused unless ?force=true, in which case dependent companies and people
// are deleted first. The three deletes are separate operations, not a
// transaction.
// DELETE /api/v1/countries/:id?force=true
func (h *Handler) DeleteCountry(c *fiber.Ctx) error {
	var country models.Country
	if err := h.DB.First(&country, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	companyCount, personCount := h.countDependents(country.Name)
	force := strings.EqualFold(c.Query("force"), "true")

	if force && (companyCount > 0 || personCount > 0) {
		companiesDeleted := h.DB.Where("country = ?", country.Name).Delete(&models.Company{})
		if companiesDeleted.Error != nil {
			system.Error("Cascade delete of companies for %s failed: %v", country.Name, companiesDeleted.Error)
			return serverError(c)
		}
		peopleDeleted := h.DB.Where("country = ?", country.Name).Delete(&models.Person{})
		if peopleDeleted.Error != nil {
			system.Error("Cascade delete of people for %s failed: %v", country.Name, peopleDeleted.Error)
			return serverError(c)
		}
		if err := h.DB.Delete(&country).Error; err != nil {
			return serverError(c)
		}
		system.Warn("Country force-deleted: %s (%d companies, %d people cascaded)",
			country.Name, companiesDeleted.RowsAffected, peopleDeleted.RowsAffected)
		AddEvent("warning", "Country force-deleted: "+country.Name)
		h.invalidateStats(c)
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{},
			"meta": fiber.Map{
				"companiesDeleted": companiesDeleted.RowsAffected,
				"peopleDeleted":    peopleDeleted.RowsAffected,
			},
		})
	}

	if companyCount > 0 || personCount > 0 {
		return fail(c, http.StatusConflict, fmt.Sprintf(
			"Cannot delete country with %d companies and %d people associated", companyCount, personCount))
	}

	if err := h.DB.Delete(&country).Error; err != nil {
		return serverError(c)
	}

	system.Info("Country deleted: %s", country.Name)
	AddEvent("info", "Country deleted: "+country.Name)
	h.invalidateStats(c)

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetCountryCompanies lists companies of a country sorted by name.
// GET /api/v1/countries/:id/companies
func (h *Handler) GetCountryCompanies(c *fiber.Ctx) error {
	var country models.Country
	if err := h.DB.First(&country, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	var companies []models.Company
	if err := h.DB.Where("country = ?", country.Name).Order("name ASC").Find(&companies).Error; err != nil {
		return serverError(c)
	}

	return okCount(c, companies, len(companies))
}

// GetCountryPeople lists people of a country sorted by last, then first name.
// GET /api/v1/countries/:id/people
func (h *Handler) GetCountryPeople(c *fiber.Ctx) error {
	var country models.Country
	if err := h.DB.First(&country, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	var people []models.Person
	if err := h.DB.Where("country = ?", country.Name).Order("last_name ASC, first_name ASC").Find(&people).Error; err != nil {
		return serverError(c)
	}

	return okCount(c, people, len(people))
}
