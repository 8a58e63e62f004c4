package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
)

// GetPeople lists people sorted by last, then first name. An optional
// ?limit= caps the result count.
// GET /api/v1/people
func (h *Handler) GetPeople(c *fiber.Ctx) error {
	query := h.DB.Order("last_name ASC, first_name ASC")
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return fail(c, http.StatusBadRequest, "limit must be a non-negative integer")
		}
		if limit > 0 {
			query = query.Limit(limit)
		}
	}

	var people []models.Person
	if err := query.Find(&people).Error; err != nil {
		return serverError(c)
	}
	return okCount(c, people, len(people))
}

// GetPerson returns a single person.
// GET /api/v1/people/:id
func (h *Handler) GetPerson(c *fiber.Ctx) error {
	var person models.Person
	if err := h.DB.First(&person, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Person not found")
	}
	return ok(c, person)
}

type personInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Company    string `json:"company"`
	Country    string `json:"country"`
	City       string `json:"city"`
}

// CreatePerson creates a person.
// POST /api/v1/people
func (h *Handler) CreatePerson(c *fiber.Ctx) error {
	var input personInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" {
		return fail(c, http.StatusBadRequest, "firstName and lastName are required")
	}

	person := models.Person{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      strings.TrimSpace(strings.ToLower(input.Email)),
		Phone:      input.Phone,
		Position:   input.Position,
		Department: input.Department,
		Company:    strings.TrimSpace(input.Company),
		Country:    strings.TrimSpace(input.Country),
		City:       input.City,
		IsActive:   true,
	}
	if err := h.DB.Create(&person).Error; err != nil {
		return serverError(c)
	}

	system.Info("Person created: %s %s", person.FirstName, person.LastName)
	AddEvent("success", "Person registered: "+person.FirstName+" "+person.LastName)
	h.invalidateStats(c)

	return created(c, person)
}

type personUpdate struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Position   *string `json:"position"`
	Department *string `json:"department"`
	Company    *string `json:"company"`
	Country    *string `json:"country"`
	City       *string `json:"city"`
	IsActive   *bool   `json:"isActive"`
}

// UpdatePerson applies a partial update.
// PUT /api/v1/people/:id
func (h *Handler) UpdatePerson(c *fiber.Ctx) error {
	var person models.Person
	if err := h.DB.First(&person, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Person not found")
	}

	var input personUpdate
	if err := c.BodyParser(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	if input.FirstName != nil {
		person.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		person.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		person.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}
	if input.Phone != nil {
		person.Phone = *input.Phone
	}
	if input.Position != nil {
		person.Position = *input.Position
	}
	if input.Department != nil {
		person.Department = *input.Department
	}
	if input.Company != nil {
		person.Company = strings.TrimSpace(*input.Company)
	}
	if input.Country != nil {
		person.Country = strings.TrimSpace(*input.Country)
	}
	if input.City != nil {
		person.City = *input.City
	}
	if input.IsActive != nil {
		person.IsActive = *input.IsActive
	}

	if err := h.DB.Save(&person).Error; err != nil {
		return serverError(c)
	}

	h.invalidateStats(c)
	return ok(c, person)
}

// DeletePerson removes a person.
// DELETE /api/v1/people/:id
func (h *Handler) DeletePerson(c *fiber.Ctx) error {
	var person models.Person
	if err := h.DB.First(&person, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Person not found")
	}

	if err := h.DB.Delete(&person).Error; err != nil {
		return serverError(c)
	}

	system.Info("Person deleted: %s %s", person.FirstName, person.LastName)
	h.invalidateStats(c)

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetPeopleByCountry lists people of the country resolved by id.
// GET /api/v1/people/country/:id
func (h *Handler) GetPeopleByCountry(c *fiber.Ctx) error {
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

// GetPeopleByCompany lists people of the company resolved by id.
// GET /api/v1/people/company/:id
func (h *Handler) GetPeopleByCompany(c *fiber.Ctx) error {
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

type statusUpdate struct {
	Status *bool `json:"status"`
}

// UpdatePersonStatus toggles a person's active flag without touching any
// other field.
// PATCH /api/v1/people/:id/status
func (h *Handler) UpdatePersonStatus(c *fiber.Ctx) error {
	var person models.Person
	if err := h.DB.First(&person, c.Params("id")).Error; err != nil {
		return fail(c, http.StatusNotFound, "Person not found")
	}

	var input statusUpdate
	if err := c.BodyParser(&input); err != nil || input.Status == nil {
		return fail(c, http.StatusBadRequest, "status is required")
	}

	person.IsActive = *input.Status
	if err := h.DB.Model(&person).Update("is_active", *input.Status).Error; err != nil {
		return serverError(c)
	}

	h.invalidateStats(c)
	return ok(c, person)
}
