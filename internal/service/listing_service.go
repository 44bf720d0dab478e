package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/repository"
	"github.com/spec-kit/carventory/internal/uploads"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// ListingService manages the car advertisement lifecycle: creation with
// staged image uploads, owner-gated update/delete, and public reads.
type ListingService struct {
	cars        repository.CarRepository
	store       *uploads.Store
	maxListings int
}

// ListingInput is the full field set for creating an advertisement.
type ListingInput struct {
	Title          string
	Make           string
	Model          string
	Year           int
	Price          float64
	Description    string
	Mileage        int
	Transmission   domain.Transmission
	Color          string
	FuelType       domain.FuelType
	EngineCapacity int
	Condition      domain.Condition
	SellerName     string
	SellerPhone    string
	SellerEmail    string
}

// ListingPatch carries optional field updates; nil fields are left unchanged.
type ListingPatch struct {
	Title          *string
	Make           *string
	Model          *string
	Year           *int
	Price          *float64
	Description    *string
	Mileage        *int
	Transmission   *domain.Transmission
	Color          *string
	FuelType       *domain.FuelType
	EngineCapacity *int
	Condition      *domain.Condition
	SellerName     *string
	SellerPhone    *string
	SellerEmail    *string
}

// NewListingService constructs the service.
func NewListingService(cars repository.CarRepository, store *uploads.Store, maxListings int) *ListingService {
	if maxListings <= 0 {
		maxListings = 5
	}
	return &ListingService{cars: cars, store: store, maxListings: maxListings}
}

// Create validates and persists a new advertisement. Staged images are
// committed only after the row is stored; every failure path discards them.
func (s *ListingService) Create(ctx context.Context, owner *domain.User, input ListingInput, staging *uploads.Staging) (car *domain.Car, err error) {
	defer func() {
		if err != nil {
			staging.Discard()
		}
	}()

	if staging.Count() < domain.MinListingImages || staging.Count() > domain.MaxListingImages {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("must provide between %d and %d images", domain.MinListingImages, domain.MaxListingImages),
			map[string]any{"images": staging.Count()})
	}

	count, err := s.cars.CountByOwner(ctx, owner.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count >= s.maxListings {
		return nil, apperrors.NewInvalidOperation(
			fmt.Sprintf("listing limit reached: at most %d active advertisements per user", s.maxListings))
	}

	car = &domain.Car{
		Title:          strings.TrimSpace(input.Title),
		Make:           strings.TrimSpace(input.Make),
		Model:          strings.TrimSpace(input.Model),
		Year:           input.Year,
		Price:          input.Price,
		Description:    strings.TrimSpace(input.Description),
		ImageURLs:      staging.URLs(),
		Mileage:        input.Mileage,
		Transmission:   input.Transmission,
		Color:          strings.TrimSpace(input.Color),
		FuelType:       input.FuelType,
		EngineCapacity: input.EngineCapacity,
		Condition:      input.Condition,
		SellerName:     strings.TrimSpace(input.SellerName),
		SellerPhone:    strings.TrimSpace(input.SellerPhone),
		SellerEmail:    strings.TrimSpace(input.SellerEmail),
		OwnerID:        owner.ID,
	}
	if err = validateCar(car); err != nil {
		return nil, err
	}

	if err = s.cars.Create(ctx, car); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err = staging.Commit(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return car, nil
}

// Update applies a patch to an owned advertisement. When new images are
// staged, the previous image set is replaced wholesale and its files removed.
func (s *ListingService) Update(ctx context.Context, ownerID, carID string, patch ListingPatch, staging *uploads.Staging) (car *domain.Car, err error) {
	defer func() {
		if err != nil && staging != nil {
			staging.Discard()
		}
	}()

	car, err = s.cars.GetByID(ctx, carID)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("car advertisement", nil)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if car.OwnerID != ownerID {
		return nil, apperrors.NewForbidden("not authorized to update this advertisement")
	}

	applyPatch(car, patch)

	var oldImages []string
	if staging != nil && staging.Count() > 0 {
		if staging.Count() > domain.MaxListingImages {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("must provide between %d and %d images", domain.MinListingImages, domain.MaxListingImages),
				map[string]any{"images": staging.Count()})
		}
		oldImages = car.ImageURLs
		car.ImageURLs = staging.URLs()
	}

	if err = validateCar(car); err != nil {
		return nil, err
	}

	if err = s.cars.Update(ctx, car); err != nil {
		return nil, apperrors.MapError(err)
	}
	if staging != nil && staging.Count() > 0 {
		if err = staging.Commit(); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		s.store.Remove(oldImages)
	}
	return car, nil
}

// Delete removes an owned advertisement and its image files.
func (s *ListingService) Delete(ctx context.Context, ownerID, carID string) error {
	car, err := s.cars.GetByID(ctx, carID)
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound("car advertisement", nil)
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	if car.OwnerID != ownerID {
		return apperrors.NewForbidden("not authorized to delete this advertisement")
	}

	if err := s.cars.Delete(ctx, carID); err != nil {
		return apperrors.MapError(err)
	}
	s.store.Remove(car.ImageURLs)
	return nil
}

// List returns all advertisements, newest first.
func (s *ListingService) List(ctx context.Context) ([]domain.Car, error) {
	cars, err := s.cars.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cars, nil
}

// GetByID fetches a single advertisement.
func (s *ListingService) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("car advertisement", nil)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return car, nil
}

// ListByOwner returns a user's own advertisements, newest first.
func (s *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Car, error) {
	cars, err := s.cars.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cars, nil
}

func applyPatch(car *domain.Car, patch ListingPatch) {
	if patch.Title != nil {
		car.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Make != nil {
		car.Make = strings.TrimSpace(*patch.Make)
	}
	if patch.Model != nil {
		car.Model = strings.TrimSpace(*patch.Model)
	}
	if patch.Year != nil {
		car.Year = *patch.Year
	}
	if patch.Price != nil {
		car.Price = *patch.Price
	}
	if patch.Description != nil {
		car.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Mileage != nil {
		car.Mileage = *patch.Mileage
	}
	if patch.Transmission != nil {
		car.Transmission = *patch.Transmission
	}
	if patch.Color != nil {
		car.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.FuelType != nil {
		car.FuelType = *patch.FuelType
	}
	if patch.EngineCapacity != nil {
		car.EngineCapacity = *patch.EngineCapacity
	}
	if patch.Condition != nil {
		car.Condition = *patch.Condition
	}
	if patch.SellerName != nil {
		car.SellerName = strings.TrimSpace(*patch.SellerName)
	}
	if patch.SellerPhone != nil {
		car.SellerPhone = strings.TrimSpace(*patch.SellerPhone)
	}
	if patch.SellerEmail != nil {
		car.SellerEmail = strings.TrimSpace(*patch.SellerEmail)
	}
}

func validateCar(car *domain.Car) error {
	details := map[string]any{}
	if car.Title == "" {
		details["title"] = "required"
	}
	if car.Make == "" {
		details["make"] = "required"
	}
	if car.Model == "" {
		details["model"] = "required"
	}
	if car.Description == "" {
		details["description"] = "required"
	}
	currentYear := time.Now().Year()
	if car.Year < 1900 || car.Year > currentYear {
		details["year"] = fmt.Sprintf("must be between 1900 and %d", currentYear)
	}
	if car.Price < 0 {
		details["price"] = "cannot be negative"
	}
	if car.Mileage < 0 {
		details["mileage"] = "cannot be negative"
	}
	if car.EngineCapacity < 0 {
		details["engine_capacity"] = "cannot be negative"
	}
	if !domain.ValidTransmission(car.Transmission) {
		details["transmission"] = "must be Manual or Automatic"
	}
	if !domain.ValidFuelType(car.FuelType) {
		details["fuel_type"] = "must be one of Petrol, Diesel, CNG, Hybrid, Electric"
	}
	if !domain.ValidCondition(car.Condition) {
		details["condition"] = "must be one of Brand New, Used Excellent, Used Good, Needs Repair"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid advertisement fields", details)
	}
	return nil
}
