package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/carventory/internal/api/dto"
	"github.com/spec-kit/carventory/internal/service"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// AdminHandler exposes the showroom onboarding workflow.
type AdminHandler struct {
	admins *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: adminService}
}

// Signup handles POST /admin/signup.
func (h *AdminHandler) Signup(c *fiber.Ctx) error {
	var req dto.AdminSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" ||
		req.PhoneNumber == "" || req.NationalID == "" || req.ShowroomName == "" {
		return apperrors.NewValidationError("name, email, password, phone_number, national_id and showroom_name are required", nil)
	}

	_, emailSent, err := h.admins.Signup(c.Context(), service.AdminSignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		PhoneNumber:  req.PhoneNumber,
		NationalID:   req.NationalID,
		ShowroomName: req.ShowroomName,
		TaxID:        req.TaxID,
	})
	if err != nil {
		return err
	}

	message := "admin registered successfully; please check your email for verification"
	if !emailSent {
		message = "admin account created but the verification email could not be sent; please contact support"
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// Verify handles POST /admin/verify.
func (h *AdminHandler) Verify(c *fiber.Ctx) error {
	var req dto.AdminVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		return apperrors.NewValidationError("verification token is required", nil)
	}

	if err := h.admins.Verify(c.Context(), req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "email verified successfully; you can log in once approved",
	})
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	result, err := h.admins.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"auth":    dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		"admin":   dto.NewAdminResponse(result.Admin),
	})
}

// PendingRequests handles GET /admin/pending-requests. Super admin only.
func (h *AdminHandler) PendingRequests(c *fiber.Ctx) error {
	pending, err := h.admins.ListPending(c.Context())
	if err != nil {
		return err
	}

	items := make([]dto.AdminResponse, 0, len(pending))
	for i := range pending {
		items = append(items, dto.NewAdminResponse(&pending[i]))
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"pending_admins": items,
	})
}

// ApproveAdmin handles POST /admin/approve-admin/:id. Super admin only.
func (h *AdminHandler) ApproveAdmin(c *fiber.Ctx) error {
	var req dto.ApproveAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.admins.Decide(c.Context(), c.Params("id"), req.Approve); err != nil {
		return err
	}

	message := "admin rejected successfully"
	if req.Approve {
		message = "admin approved successfully"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
