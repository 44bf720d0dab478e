package events

import (
	"time"

	"github.com/spec-kit/carventory/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOfferCreated  EventType = "offer_created"
	EventOfferResolved EventType = "offer_resolved"
	EventAdminDecided  EventType = "admin_decided"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OfferCreatedPayload payload.
type OfferCreatedPayload struct {
	OfferID     string  `json:"offer_id"`
	CarID       string  `json:"car_id"`
	CarTitle    string  `json:"car_title"`
	BuyerName   string  `json:"buyer_name"`
	SellerEmail string  `json:"seller_email"`
	Amount      float64 `json:"amount"`
}

// OfferResolvedPayload payload.
type OfferResolvedPayload struct {
	OfferID    string             `json:"offer_id"`
	CarTitle   string             `json:"car_title"`
	BuyerEmail string             `json:"buyer_email"`
	NewStatus  domain.OfferStatus `json:"new_status"`
	Amount     float64            `json:"amount"`
}

// AdminDecidedPayload payload.
type AdminDecidedPayload struct {
	AdminID    string `json:"admin_id"`
	AdminEmail string `json:"admin_email"`
	Approved   bool   `json:"approved"`
}
