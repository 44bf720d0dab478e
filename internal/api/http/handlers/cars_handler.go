package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/carventory/internal/api/dto"
	"github.com/spec-kit/carventory/internal/auth"
	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/service"
	"github.com/spec-kit/carventory/internal/uploads"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// CarsHandler manages car advertisement endpoints. Create and update accept
// multipart forms carrying up to four images.
type CarsHandler struct {
	listings *service.ListingService
	store    *uploads.Store
}

// NewCarsHandler constructs handler.
func NewCarsHandler(listingService *service.ListingService, store *uploads.Store) *CarsHandler {
	return &CarsHandler{listings: listingService, store: store}
}

// List handles GET /cars. Public.
func (h *CarsHandler) List(c *fiber.Ctx) error {
	cars, err := h.listings.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "cars": dto.NewCarResponses(cars)})
}

// Get handles GET /cars/:id. Public.
func (h *CarsHandler) Get(c *fiber.Ctx) error {
	car, err := h.listings.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "car": dto.NewCarResponse(car)})
}

// ListMine handles GET /cars/mine. Returns the caller's own advertisements.
func (h *CarsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	cars, err := h.listings.ListByOwner(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "cars": dto.NewCarResponses(cars)})
}

// Create handles POST /cars (multipart).
func (h *CarsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", nil)
	}

	input, err := listingInputFromForm(form)
	if err != nil {
		return err
	}

	staging, err := h.store.Stage(form.File["images"])
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	car, err := h.listings.Create(c.Context(), principal.User, input, staging)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "car advertisement created successfully",
		"car":     dto.NewCarResponse(car),
	})
}

// Update handles PUT /cars/:id (multipart). New images replace the old set.
func (h *CarsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", nil)
	}

	patch, err := listingPatchFromForm(form)
	if err != nil {
		return err
	}

	var staging *uploads.Staging
	if files := form.File["images"]; len(files) > 0 {
		staging, err = h.store.Stage(files)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
	}

	car, err := h.listings.Update(c.Context(), principal.User.ID, c.Params("id"), patch, staging)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "car advertisement updated successfully",
		"car":     dto.NewCarResponse(car),
	})
}

// Delete handles DELETE /cars/:id.
func (h *CarsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	if err := h.listings.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "car advertisement deleted successfully",
	})
}

func listingInputFromForm(form *multipart.Form) (service.ListingInput, error) {
	year, err := formInt(form, "year")
	if err != nil {
		return service.ListingInput{}, err
	}
	price, err := formFloat(form, "price")
	if err != nil {
		return service.ListingInput{}, err
	}
	mileage, err := formInt(form, "mileage")
	if err != nil {
		return service.ListingInput{}, err
	}
	engineCapacity, err := formInt(form, "engine_capacity")
	if err != nil {
		return service.ListingInput{}, err
	}

	return service.ListingInput{
		Title:          formValue(form, "title"),
		Make:           formValue(form, "make"),
		Model:          formValue(form, "model"),
		Year:           year,
		Price:          price,
		Description:    formValue(form, "description"),
		Mileage:        mileage,
		Transmission:   domain.Transmission(formValue(form, "transmission")),
		Color:          formValue(form, "color"),
		FuelType:       domain.FuelType(formValue(form, "fuel_type")),
		EngineCapacity: engineCapacity,
		Condition:      domain.Condition(formValue(form, "condition")),
		SellerName:     formValue(form, "seller_name"),
		SellerPhone:    formValue(form, "seller_phone"),
		SellerEmail:    formValue(form, "seller_email"),
	}, nil
}

func listingPatchFromForm(form *multipart.Form) (service.ListingPatch, error) {
	patch := service.ListingPatch{
		Title:       formValuePtr(form, "title"),
		Make:        formValuePtr(form, "make"),
		Model:       formValuePtr(form, "model"),
		Description: formValuePtr(form, "description"),
		Color:       formValuePtr(form, "color"),
		SellerName:  formValuePtr(form, "seller_name"),
		SellerPhone: formValuePtr(form, "seller_phone"),
		SellerEmail: formValuePtr(form, "seller_email"),
	}
	if v := formValuePtr(form, "transmission"); v != nil {
		t := domain.Transmission(*v)
		patch.Transmission = &t
	}
	if v := formValuePtr(form, "fuel_type"); v != nil {
		f := domain.FuelType(*v)
		patch.FuelType = &f
	}
	if v := formValuePtr(form, "condition"); v != nil {
		cond := domain.Condition(*v)
		patch.Condition = &cond
	}
	if v := formValuePtr(form, "year"); v != nil {
		year, err := strconv.Atoi(*v)
		if err != nil {
			return patch, apperrors.NewValidationError("year must be a number", nil)
		}
		patch.Year = &year
	}
	if v := formValuePtr(form, "price"); v != nil {
		price, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return patch, apperrors.NewValidationError("price must be a number", nil)
		}
		patch.Price = &price
	}
	if v := formValuePtr(form, "mileage"); v != nil {
		mileage, err := strconv.Atoi(*v)
		if err != nil {
			return patch, apperrors.NewValidationError("mileage must be a number", nil)
		}
		patch.Mileage = &mileage
	}
	if v := formValuePtr(form, "engine_capacity"); v != nil {
		capacity, err := strconv.Atoi(*v)
		if err != nil {
			return patch, apperrors.NewValidationError("engine_capacity must be a number", nil)
		}
		patch.EngineCapacity = &capacity
	}
	return patch, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func formValuePtr(form *multipart.Form, key string) *string {
	if values := form.Value[key]; len(values) > 0 {
		return &values[0]
	}
	return nil
}

func formInt(form *multipart.Form, key string) (int, error) {
	raw := formValue(form, key)
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be a number", nil)
	}
	return parsed, nil
}

func formFloat(form *multipart.Form, key string) (float64, error) {
	raw := formValue(form, key)
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be a number", nil)
	}
	return parsed, nil
}
