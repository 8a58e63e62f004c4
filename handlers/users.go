package handlers

import (
	"net/http"
	"strconv"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
)

// GetUsers lists all accounts. Password hashes never serialize.
// GET /api/v1/users
func (h *Handler) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("email ASC").Find(&users).Error; err != nil {
		return serverError(c)
	}
	return okCount(c, users, len(users))
}

// DeleteUser removes an account. Deleting the account behind the current
// token is refused.
// DELETE /api/v1/users/:id
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	current := c.Locals("user").(*models.User)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	if uint(id) == current.ID {
		return fail(c, http.StatusBadRequest, "Cannot delete your own account")
	}

	var user models.User
	if err := h.DB.First(&user, uint(id)).Error; err != nil {
		return fail(c, http.StatusNotFound, "User not found")
	}

	if err := h.DB.Delete(&user).Error; err != nil {
		return serverError(c)
	}

	system.Info("User deleted: %s (by %s)", user.Email, current.Email)

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}
