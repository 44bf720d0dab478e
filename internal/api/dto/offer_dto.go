package dto

import (
	"time"

	"github.com/spec-kit/carventory/internal/domain"
)

// CreateOfferRequest payload for submitting an offer.
type CreateOfferRequest struct {
	CarID       string  `json:"car_id"`
	OfferAmount float64 `json:"offer_amount"`
	Message     string  `json:"message"`
	BuyerPhone  string  `json:"buyer_phone"`
}

// OfferResponse is the public view of an offer.
type OfferResponse struct {
	ID          string             `json:"id"`
	CarID       string             `json:"car_id"`
	BuyerID     string             `json:"buyer_id"`
	SellerID    string             `json:"seller_id"`
	OfferAmount float64            `json:"offer_amount"`
	Message     string             `json:"message,omitempty"`
	Status      domain.OfferStatus `json:"status"`
	BuyerName   string             `json:"buyer_name"`
	BuyerEmail  string             `json:"buyer_email"`
	BuyerPhone  string             `json:"buyer_phone"`
	CarTitle    string             `json:"car_title"`
	CarMake     string             `json:"car_make"`
	CarModel    string             `json:"car_model"`
	CarYear     int                `json:"car_year"`
	CarPrice    float64            `json:"car_price"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewOfferResponse maps a domain offer.
func NewOfferResponse(offer *domain.Offer) OfferResponse {
	return OfferResponse{
		ID:          offer.ID,
		CarID:       offer.CarID,
		BuyerID:     offer.BuyerID,
		SellerID:    offer.SellerID,
		OfferAmount: offer.OfferAmount,
		Message:     offer.Message,
		Status:      offer.Status,
		BuyerName:   offer.BuyerName,
		BuyerEmail:  offer.BuyerEmail,
		BuyerPhone:  offer.BuyerPhone,
		CarTitle:    offer.CarTitle,
		CarMake:     offer.CarMake,
		CarModel:    offer.CarModel,
		CarYear:     offer.CarYear,
		CarPrice:    offer.CarPrice,
		CreatedAt:   offer.CreatedAt,
	}
}

// NewOfferResponses maps a slice of domain offers.
func NewOfferResponses(offers []domain.Offer) []OfferResponse {
	items := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		items = append(items, NewOfferResponse(&offers[i]))
	}
	return items
}

// TestDriveRequest payload for booking a test drive with a seller.
type TestDriveRequest struct {
	CarID       string `json:"car_id"`
	SellerEmail string `json:"seller_email"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	Datetime    string `json:"datetime"`
	Description string `json:"description,omitempty"`
}
