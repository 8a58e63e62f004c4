package handlers

import (
	"net/http"

	"registration-tracker/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	DB    *gorm.DB
	Cache *services.Cache
}

func NewHandler(db *gorm.DB, cache *services.Cache) *Handler {
	return &Handler{DB: db, Cache: cache}
}

// Envelope helpers. Every endpoint answers with the same shape:
// {success, data?, count?, error?, message?}.

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okCount(c *fiber.Ctx, data interface{}, count int) error {
	return c.JSON(fiber.Map{"success": true, "count": count, "data": data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg, "message": msg})
}

func serverError(c *fiber.Ctx) error {
	return fail(c, http.StatusInternalServerError, "Server error")
}
