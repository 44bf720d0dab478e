package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/events"
	"github.com/spec-kit/carventory/internal/repository"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// OfferService manages the offer lifecycle. Offers start pending and move to
// accepted or rejected exactly once, and only by the seller.
type OfferService struct {
	offers     repository.OfferRepository
	cars       repository.CarRepository
	dispatcher events.Dispatcher
}

// OfferCreateInput is the payload for submitting a new offer.
type OfferCreateInput struct {
	CarID       string
	OfferAmount float64
	Message     string
	BuyerPhone  string
}

// NewOfferService constructs the service.
func NewOfferService(offers repository.OfferRepository, cars repository.CarRepository, dispatcher events.Dispatcher) *OfferService {
	return &OfferService{offers: offers, cars: cars, dispatcher: dispatcher}
}

// Create submits a bid on a listing. Buyer and listing details are
// snapshotted into the offer record.
func (s *OfferService) Create(ctx context.Context, buyer *domain.User, input OfferCreateInput) (*domain.Offer, error) {
	if input.OfferAmount <= 0 {
		return nil, apperrors.NewValidationError("offer amount must be positive", nil)
	}

	car, err := s.cars.GetByID(ctx, input.CarID)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("car advertisement", nil)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if car.OwnerID == buyer.ID {
		return nil, apperrors.NewInvalidOperation("you cannot make an offer on your own advertisement")
	}

	offer := &domain.Offer{
		CarID:       car.ID,
		BuyerID:     buyer.ID,
		SellerID:    car.OwnerID,
		OfferAmount: input.OfferAmount,
		Message:     strings.TrimSpace(input.Message),
		Status:      domain.OfferStatusPending,
		BuyerName:   buyer.Name,
		BuyerEmail:  buyer.Email,
		BuyerPhone:  strings.TrimSpace(input.BuyerPhone),
		CarTitle:    car.Title,
		CarMake:     car.Make,
		CarModel:    car.Model,
		CarYear:     car.Year,
		CarPrice:    car.Price,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventOfferCreated,
		ActorID: buyer.ID,
		Payload: events.OfferCreatedPayload{
			OfferID:     offer.ID,
			CarID:       car.ID,
			CarTitle:    car.Title,
			BuyerName:   buyer.Name,
			SellerEmail: car.SellerEmail,
			Amount:      offer.OfferAmount,
		},
	})
	return offer, nil
}

// Accept moves a pending offer to accepted. Seller only.
func (s *OfferService) Accept(ctx context.Context, callerID, offerID string) (*domain.Offer, error) {
	return s.resolve(ctx, callerID, offerID, domain.OfferStatusAccepted)
}

// Reject moves a pending offer to rejected. Seller only.
func (s *OfferService) Reject(ctx context.Context, callerID, offerID string) (*domain.Offer, error) {
	return s.resolve(ctx, callerID, offerID, domain.OfferStatusRejected)
}

func (s *OfferService) resolve(ctx context.Context, callerID, offerID string, status domain.OfferStatus) (*domain.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("offer", nil)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if offer.SellerID != callerID {
		return nil, apperrors.NewForbidden("not authorized to resolve this offer")
	}
	if offer.Resolved() {
		return nil, apperrors.NewInvalidOperation("offer has already been " + string(offer.Status))
	}

	// Compare-and-swap on status=pending so a concurrent accept/reject on the
	// same offer cannot both win.
	ok, err := s.offers.ResolveIfPending(ctx, offerID, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ok {
		return nil, apperrors.NewInvalidOperation("offer is no longer pending")
	}
	offer.Status = status

	s.publish(ctx, events.Event{
		Type:    events.EventOfferResolved,
		ActorID: callerID,
		Payload: events.OfferResolvedPayload{
			OfferID:    offer.ID,
			CarTitle:   offer.CarTitle,
			BuyerEmail: offer.BuyerEmail,
			NewStatus:  status,
			Amount:     offer.OfferAmount,
		},
	})
	return offer, nil
}

// ListReceived returns offers where the caller is the seller. Self only.
func (s *OfferService) ListReceived(ctx context.Context, callerID, userID string) ([]domain.Offer, error) {
	if callerID != userID {
		return nil, apperrors.NewForbidden("not authorized to access these offers")
	}
	offers, err := s.offers.ListBySeller(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return offers, nil
}

// ListSent returns offers where the caller is the buyer. Self only.
func (s *OfferService) ListSent(ctx context.Context, callerID, userID string) ([]domain.Offer, error) {
	if callerID != userID {
		return nil, apperrors.NewForbidden("not authorized to access these offers")
	}
	offers, err := s.offers.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return offers, nil
}

// ListForCar returns all offers on a listing. Listing owner only.
func (s *OfferService) ListForCar(ctx context.Context, callerID, carID string) ([]domain.Offer, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("car advertisement", nil)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if car.OwnerID != callerID {
		return nil, apperrors.NewForbidden("not authorized to view offers for this car")
	}

	offers, err := s.offers.ListByCar(ctx, carID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return offers, nil
}

func (s *OfferService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
