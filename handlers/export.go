package handlers

import (
	"net/http"
	"time"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
)

// BackupData is the full dataset for export/import.
type BackupData struct {
	ExportedAt time.Time        `json:"exported_at"`
	Version    string           `json:"version"`
	Countries  []models.Country `json:"countries"`
	Companies  []models.Company `json:"companies"`
	People     []models.Person  `json:"people"`
}

// ExportData exports all collections as a JSON download.
// GET /api/v1/backup/export
func (h *Handler) ExportData(c *fiber.Ctx) error {
	backup := BackupData{
		ExportedAt: time.Now(),
		Version:    "1.0",
	}

	h.DB.Order("name ASC").Find(&backup.Countries)
	h.DB.Order("name ASC").Find(&backup.Companies)
	h.DB.Order("last_name ASC, first_name ASC").Find(&backup.People)

	filename := "regtrack-backup-" + time.Now().Format("2006-01-02") + ".json"
	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("Content-Type", "application/json")

	system.Info("Dataset exported")
	AddEvent("success", "Dataset exported")

	return c.JSON(backup)
}

// ImportData restores a previously exported dataset. Records are matched by
// natural key (country name, company name+country, person email or full
// name+company); matches are updated, the rest created. Each collection is
// processed independently, best-effort.
// POST /api/v1/backup/import
func (h *Handler) ImportData(c *fiber.Ctx) error {
	var backup BackupData
	if err := c.BodyParser(&backup); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid backup file format")
	}
	if backup.Version == "" {
		return fail(c, http.StatusBadRequest, "Invalid backup file: missing version")
	}

	var countriesUpserted, companiesUpserted, peopleUpserted int

	for _, country := range backup.Countries {
		var existing models.Country
		if err := h.DB.Where("name = ?", country.Name).First(&existing).Error; err == nil {
			existing.Code = country.Code
			existing.Region = country.Region
			existing.Continent = country.Continent
			existing.Capital = country.Capital
			existing.Population = country.Population
			existing.Currency = country.Currency
			existing.Language = country.Language
			existing.IsActive = country.IsActive
			if h.DB.Save(&existing).Error == nil {
				countriesUpserted++
			}
		} else {
			country.ID = 0
			if h.DB.Create(&country).Error == nil {
				countriesUpserted++
			}
		}
	}

	for _, company := range backup.Companies {
		var existing models.Company
		if err := h.DB.Where("name = ? AND country = ?", company.Name, company.Country).First(&existing).Error; err == nil {
			existing.Industry = company.Industry
			existing.Website = company.Website
			existing.FoundedYear = company.FoundedYear
			existing.Domains = company.Domains
			existing.Subdomains = company.Subdomains
			existing.IPAddresses = company.IPAddresses
			existing.IsActive = company.IsActive
			if h.DB.Save(&existing).Error == nil {
				companiesUpserted++
			}
		} else {
			company.ID = 0
			if h.DB.Create(&company).Error == nil {
				companiesUpserted++
			}
		}
	}

	for _, person := range backup.People {
		query := h.DB.Where("first_name = ? AND last_name = ? AND company = ?",
			person.FirstName, person.LastName, person.Company)
		if person.Email != "" {
			query = h.DB.Where("email = ?", person.Email)
		}
		var existing models.Person
		if err := query.First(&existing).Error; err == nil {
			existing.Email = person.Email
			existing.Phone = person.Phone
			existing.Position = person.Position
			existing.Department = person.Department
			existing.Company = person.Company
			existing.Country = person.Country
			existing.City = person.City
			existing.IsActive = person.IsActive
			if h.DB.Save(&existing).Error == nil {
				peopleUpserted++
			}
		} else {
			person.ID = 0
			if h.DB.Create(&person).Error == nil {
				peopleUpserted++
			}
		}
	}

	system.Info("Dataset imported: %d countries, %d companies, %d people",
		countriesUpserted, companiesUpserted, peopleUpserted)
	AddEvent("success", "Dataset imported")
	h.invalidateStats(c)

	return ok(c, fiber.Map{
		"countries": countriesUpserted,
		"companies": companiesUpserted,
		"people":    peopleUpserted,
	})
}
