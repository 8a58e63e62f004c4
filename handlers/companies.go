package handlers

import (
	"net/http"
	"strings"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
)

type companyDetail struct {
	models.Company
	People      []models.Person `json:"people"`
	PersonCount int64           `json:"personCount"`
}

// GetCompanies lists all companies sorted by name.
// GET /api/v1/companies
func (h *Handler) GetCompanies(c *fiber.Ctx) error {
	var companies []models.Company
	if err := h.DB.Order("name ASC").Find(&companies).Error; err != nil {
		return serverError(c)
	}
	return okCount(c, companies, len(companies))
}

// GetCompany returns a company with its people embedded, matched by
// company name.
// GET /api/v1/companies/:id
func (h *Handler) GetCompany(c *fiber.Ctx) error {
	var company models.Company
	if err := h.DB.First(&company, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Company not found")
	}

	var people []models.Person
	if err := h.DB.Where("company = ?", company.Name).Order("last_name ASC, first_name ASC").Find(&people).Error; err != nil {
		return serverError(c)
	}

	return ok(c, companyDetail{
		Company:     company,
		People:      people,
		PersonCount: int64(len(people)),
	})
}

type companyInput struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Industry    string   `json:"industry"`
	Website     string   `json:"website"`
	FoundedYear int      `json:"foundedYear"`
	Domains     []string `json:"domains"`
	Subdomains  []string `json:"subdomains"`
	IPAddresses []string `json:"ipAddresses"`
}

// CreateCompany creates a company. Duplicate names are allowed.
// POST /api/v1/companies
func (h *Handler) CreateCompany(c *fiber.Ctx) error {
	var input companyInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fail(c, http.StatusBadRequest, "Name is required")
	}

	company := models.Company{
		Name:        input.Name,
		Country:     strings.TrimSpace(input.Country),
		Industry:    input.Industry,
		Website:     input.Website,
		FoundedYear: input.FoundedYear,
		Domains:     input.Domains,
		Subdomains:  input.Subdomains,
		IPAddresses: input.IPAddresses,
		IsActive:    true,
	}
	if err := h.DB.Create(&company).Error; err != nil {
		return serverError(c)
	}

	system.Info("Company created: %s", company.Name)
	AddEvent("success", "Company registered: "+company.Name)
	h.invalidateStats(c)

	return created(c, company)
}

type companyUpdate struct {
	Name        *string   `json:"name"`
	Country     *string   `json:"country"`
	Industry    *string   `json:"industry"`
	Website     *string   `json:"website"`
	FoundedYear *int      `json:"foundedYear"`
	Domains     *[]string `json:"domains"`
	Subdomains  *[]string `json:"subdomains"`
	IPAddresses *[]string `json:"ipAddresses"`
	IsActive    *bool     `json:"isActive"`
}

// UpdateCompany applies a partial update.
// PUT /api/v1/companies/:id
func (h *Handler) UpdateCompany(c *fiber.Ctx) error {
	var company models.Company
	if err := h.DB.First(&company, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Company not found")
	}

	var input companyUpdate
	if err := c.BodyParser(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return fail(c, http.StatusBadRequest, "Name cannot be empty")
		}
		company.Name = name
	}
	if input.Country != nil {
		company.Country = strings.TrimSpace(*input.Country)
	}
	if input.Industry != nil {
		company.Industry = *input.Industry
	}
	if input.Website != nil {
		company.Website = *input.Website
	}
	if input.FoundedYear != nil {
		company.FoundedYear = *input.FoundedYear
	}
	if input.Domains != nil {
		company.Domains = *input.Domains
	}
	if input.Subdomains != nil {
		company.Subdomains = *input.Subdomains
	}
	if input.IPAddresses != nil {
		company.IPAddresses = *input.IPAddresses
	}
	if input.IsActive != nil {
		company.IsActive = *input.IsActive
	}

	if err := h.DB.Save(&company).Error; err != nil {
		return serverError(c)
	}

	h.invalidateStats(c)
	return ok(c, company)
}

// DeleteCompany removes a company. People referencing it keep their
// company string.
// DELETE /api/v1/companies/:id
func (h *Handler) DeleteCompany(c *fiber.Ctx) error {
	var company models.Company
	if err := h.DB.First(&company, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Company not found")
	}

	if err := h.DB.Delete(&company).Error; err != nil {
		return serverError(c)
	}

	system.Info("Company deleted: %s", company.Name)
	AddEvent("info", "Company deleted: "+company.Name)
	h.invalidateStats(c)

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetCompanyPeople lists people belonging to a company.
// GET /api/v1/companies/:id/people
func (h *Handler) GetCompanyPeople(c *fiber.Ctx) error {
	var company models.Company
	if err := h.DB.First(&company, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Company not found")
	}

	var people []models.Person
	if err := h.DB.Where("company = ?", company.Name).Order("last_name ASC, first_name ASC").Find(&people).Error; err != nil {
		return serverError(c)
	}

	return okCount(c, people, len(people))
}
