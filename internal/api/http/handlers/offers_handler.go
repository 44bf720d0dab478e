package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/carventory/internal/api/dto"
	"github.com/spec-kit/carventory/internal/auth"
	"github.com/spec-kit/carventory/internal/service"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// OffersHandler exposes the purchase-offer lifecycle.
type OffersHandler struct {
	offers *service.OfferService
}

// NewOffersHandler constructs handler.
func NewOffersHandler(offerService *service.OfferService) *OffersHandler {
	return &OffersHandler{offers: offerService}
}

// Create handles POST /offers.
func (h *OffersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	var req dto.CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CarID == "" {
		return apperrors.NewValidationError("car_id is required", nil)
	}

	offer, err := h.offers.Create(c.Context(), principal.User, service.OfferCreateInput{
		CarID:       req.CarID,
		OfferAmount: req.OfferAmount,
		Message:     req.Message,
		BuyerPhone:  req.BuyerPhone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "offer submitted successfully",
		"offer":   dto.NewOfferResponse(offer),
	})
}

// ListReceived handles GET /offers/received/:userId. Callers may only read
// their own inbox.
func (h *OffersHandler) ListReceived(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	offers, err := h.offers.ListReceived(c.Context(), principal.User.ID, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "offers": dto.NewOfferResponses(offers)})
}

// ListSent handles GET /offers/sent/:userId.
func (h *OffersHandler) ListSent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	offers, err := h.offers.ListSent(c.Context(), principal.User.ID, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "offers": dto.NewOfferResponses(offers)})
}

// ListForCar handles GET /offers/car/:carId. Owner of the advertisement only.
func (h *OffersHandler) ListForCar(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	offers, err := h.offers.ListForCar(c.Context(), principal.User.ID, c.Params("carId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "offers": dto.NewOfferResponses(offers)})
}

// Accept handles PUT /offers/:offerId/accept.
func (h *OffersHandler) Accept(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	offer, err := h.offers.Accept(c.Context(), principal.User.ID, c.Params("offerId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "offer accepted successfully",
		"offer":   dto.NewOfferResponse(offer),
	})
}

// Reject handles PUT /offers/:offerId/reject.
func (h *OffersHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	offer, err := h.offers.Reject(c.Context(), principal.User.ID, c.Params("offerId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "offer rejected successfully",
		"offer":   dto.NewOfferResponse(offer),
	})
}
