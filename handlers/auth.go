package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const notAuthorizedMsg = "Not authorized to access this route"

var (
	jwtSecret []byte
	tokenTTL  = 24 * time.Hour
)

// ConfigureAuth sets the JWT signing secret and token lifetime. Must be
// called before any route is served.
func ConfigureAuth(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func signToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// Register creates a new account. Every account gets the admin role.
// POST /api/v1/auth/register
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "firstName, lastName, email and password are required")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fail(c, http.StatusConflict, "User with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serverError(c)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c)
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      "admin",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return serverError(c)
	}

	t, err := signToken(user.ID)
	if err != nil {
		return serverError(c)
	}

	system.Info("User registered: %s", user.Email)
	AddEvent("success", "New user registered: "+user.Email)

	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "token": t, "user": user})
}

// Login verifies credentials and issues a session token. The response never
// reveals whether the email or the password was wrong.
// POST /api/v1/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		system.Warn("Failed login attempt for email: %s", req.Email)
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		system.Warn("Failed login attempt for email: %s", req.Email)
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	t, err := signToken(user.ID)
	if err != nil {
		return serverError(c)
	}

	system.Info("User logged in: %s", user.Email)
	AddEvent("success", "User logged in: "+user.Email)

	return c.JSON(fiber.Map{"success": true, "token": t, "user": user})
}

// Logout is stateless; the client discards its token.
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// Me returns the user resolved from the bearer token.
// GET /api/v1/auth/me
func (h *Handler) Me(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return ok(c, user)
}

// RequireAuth validates the bearer token and loads the referenced user.
// Any failure (missing header, bad signature, expiry, deleted user) yields
// the same 401.
func (h *Handler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return fail(c, http.StatusUnauthorized, notAuthorizedMsg)
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, okm := token.Method.(*jwt.SigningMethodHMAC); !okm {
				return nil, errors.New("invalid signing method")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			return fail(c, http.StatusUnauthorized, notAuthorizedMsg)
		}

		claims, okc := token.Claims.(jwt.MapClaims)
		if !okc {
			return fail(c, http.StatusUnauthorized, notAuthorizedMsg)
		}
		sub, oks := claims["sub"].(float64)
		if !oks {
			return fail(c, http.StatusUnauthorized, notAuthorizedMsg)
		}

		var user models.User
		if err := h.DB.First(&user, uint(sub)).Error; err != nil {
			return fail(c, http.StatusUnauthorized, notAuthorizedMsg)
		}

		c.Locals("user", &user)
		return c.Next()
	}
}
