package dto

import (
	"time"

	"github.com/spec-kit/carventory/internal/domain"
)

// CarResponse is the public view of a car advertisement.
type CarResponse struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Make           string              `json:"make"`
	Model          string              `json:"model"`
	Year           int                 `json:"year"`
	Price          float64             `json:"price"`
	Description    string              `json:"description"`
	ImageURLs      []string            `json:"image_urls"`
	Mileage        int                 `json:"mileage"`
	Transmission   domain.Transmission `json:"transmission"`
	Color          string              `json:"color"`
	FuelType       domain.FuelType     `json:"fuel_type"`
	EngineCapacity int                 `json:"engine_capacity"`
	Condition      domain.Condition    `json:"condition"`
	SellerName     string              `json:"seller_name"`
	SellerPhone    string              `json:"seller_phone"`
	SellerEmail    string              `json:"seller_email"`
	OwnerID        string              `json:"owner_id"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// NewCarResponse maps a domain car.
func NewCarResponse(car *domain.Car) CarResponse {
	return CarResponse{
		ID:             car.ID,
		Title:          car.Title,
		Make:           car.Make,
		Model:          car.Model,
		Year:           car.Year,
		Price:          car.Price,
		Description:    car.Description,
		ImageURLs:      car.ImageURLs,
		Mileage:        car.Mileage,
		Transmission:   car.Transmission,
		Color:          car.Color,
		FuelType:       car.FuelType,
		EngineCapacity: car.EngineCapacity,
		Condition:      car.Condition,
		SellerName:     car.SellerName,
		SellerPhone:    car.SellerPhone,
		SellerEmail:    car.SellerEmail,
		OwnerID:        car.OwnerID,
		CreatedAt:      car.CreatedAt,
		UpdatedAt:      car.UpdatedAt,
	}
}

// NewCarResponses maps a slice of domain cars.
func NewCarResponses(cars []domain.Car) []CarResponse {
	items := make([]CarResponse, 0, len(cars))
	for i := range cars {
		items = append(items, NewCarResponse(&cars[i]))
	}
	return items
}
