package domain

import "time"

// OfferStatus enumerates offer lifecycle states. Accepted and rejected are
// terminal; only pending offers may transition.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// Offer is a buyer's monetary bid against a car advertisement. Buyer and
// listing details are snapshotted at creation time so the offer remains
// readable even if the listing changes.
type Offer struct {
	ID          string
	CarID       string
	BuyerID     string
	SellerID    string
	OfferAmount float64
	Message     string
	Status      OfferStatus

	BuyerName  string
	BuyerEmail string
	BuyerPhone string

	CarTitle string
	CarMake  string
	CarModel string
	CarYear  int
	CarPrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resolved reports whether the offer reached a terminal state.
func (o *Offer) Resolved() bool {
	return o.Status == OfferStatusAccepted || o.Status == OfferStatusRejected
}
