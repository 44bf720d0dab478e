package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/carventory/internal/api/dto"
	"github.com/spec-kit/carventory/internal/auth"
	"github.com/spec-kit/carventory/internal/mailer"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// TestDriveHandler relays test-drive booking requests to sellers by email.
type TestDriveHandler struct {
	mail   mailer.Sender
	logger *zap.Logger
}

// NewTestDriveHandler constructs handler.
func NewTestDriveHandler(mail mailer.Sender, logger *zap.Logger) *TestDriveHandler {
	return &TestDriveHandler{mail: mail, logger: logger}
}

// Request handles POST /test-drive-request.
func (h *TestDriveHandler) Request(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	var req dto.TestDriveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SellerEmail == "" || req.Name == "" || req.Email == "" || req.Location == "" || req.Datetime == "" {
		return apperrors.NewValidationError("seller_email, name, email, location and datetime are required", nil)
	}

	body := fmt.Sprintf(
		"<h2>Test Drive Request</h2>"+
			"<p><strong>%s</strong> would like to test drive your car.</p>"+
			"<p>Contact email: %s</p>"+
			"<p>Preferred location: %s</p>"+
			"<p>Preferred time: %s</p>"+
			"<p>%s</p>",
		req.Name, req.Email, req.Location, req.Datetime, req.Description)

	if err := h.mail.Send(c.Context(), req.SellerEmail, "New Test Drive Request", body); err != nil {
		h.logger.Error("test drive email failed",
			zap.String("seller_email", req.SellerEmail), zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "test drive request sent to the seller",
	})
}
