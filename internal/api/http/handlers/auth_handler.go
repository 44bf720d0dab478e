package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/carventory/internal/api/dto"
	"github.com/spec-kit/carventory/internal/service"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// AuthHandler exposes signup and login for marketplace users. Login runs the
// user-then-admin fallback chain.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.UserSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password are required", nil)
	}

	user, err := h.auth.RegisterUser(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user created successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	response := fiber.Map{
		"success": true,
		"message": "login successful",
		"auth":    dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}
	if result.Admin != nil {
		response["admin"] = dto.NewAdminResponse(result.Admin)
	} else {
		response["user"] = dto.NewUserResponse(result.User)
	}
	return c.JSON(response)
}
