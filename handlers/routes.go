package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts all API routes on the app under /api/v1.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/metrics", MetricsHandler())
	app.Get("/healthz", h.Healthz)

	api := app.Group("/api/v1")

	// ===== Public Routes (No Auth Required) =====
	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)

	// ===== Protected Routes (JWT Required) =====
	protected := api.Group("", h.RequireAuth())

	// Auth
	protected.Post("/auth/logout", h.Logout)
	protected.Get("/auth/me", h.Me)

	// Countries
	protected.Get("/countries", h.GetCountries)
	protected.Post("/countries", h.CreateCountry)
	protected.Get("/countries/:id", h.GetCountry)
	protected.Put("/countries/:id", h.UpdateCountry)
	protected.Delete("/countries/:id", h.DeleteCountry)
	protected.Get("/countries/:id/companies", h.GetCountryCompanies)
	protected.Get("/countries/:id/people", h.GetCountryPeople)

	// Companies
	protected.Get("/companies", h.GetCompanies)
	protected.Post("/companies", h.CreateCompany)
	protected.Get("/companies/:id", h.GetCompany)
	protected.Put("/companies/:id", h.UpdateCompany)
	protected.Delete("/companies/:id", h.DeleteCompany)
	protected.Get("/companies/:id/people", h.GetCompanyPeople)

	// People
	protected.Get("/people", h.GetPeople)
	protected.Post("/people", h.CreatePerson)
	protected.Get("/people/country/:id", h.GetPeopleByCountry)
	protected.Get("/people/company/:id", h.GetPeopleByCompany)
	protected.Get("/people/:id", h.GetPerson)
	protected.Put("/people/:id", h.UpdatePerson)
	protected.Delete("/people/:id", h.DeletePerson)
	protected.Patch("/people/:id/status", h.UpdatePersonStatus)

	// User Management
	protected.Get("/users", h.GetUsers)
	protected.Delete("/users/:id", h.DeleteUser)

	// Dashboard
	protected.Get("/dashboard/stats", h.GetDashboardStats)
	protected.Get("/dashboard/activities", h.GetDashboardActivities)

	// Backup & Restore
	protected.Get("/backup/export", h.ExportData)
	protected.Post("/backup/import", h.ImportData)
}

// Healthz reports liveness, including a database ping.
// GET /healthz
func (h *Handler) Healthz(c *fiber.Ctx) error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
	}
	if err := sqlDB.Ping(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
