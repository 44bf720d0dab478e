package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/events"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

func seedCar(t *testing.T, cars *fakeCarRepo, ownerID string) *domain.Car {
	t.Helper()
	car := &domain.Car{
		Title:        "Toyota Corolla 2019",
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2019,
		Price:        15000,
		Description:  "Well maintained",
		ImageURLs:    []string{"/uploads/a.jpg"},
		Transmission: domain.TransmissionAutomatic,
		FuelType:     domain.FuelPetrol,
		Condition:    domain.ConditionUsedGood,
		SellerEmail:  "seller@example.com",
		OwnerID:      ownerID,
	}
	require.NoError(t, cars.Create(context.Background(), car))
	return car
}

func TestOfferCreateSnapshotsBuyerAndListing(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewOfferService(offers, cars, dispatcher)

	car := seedCar(t, cars, "user-seller")
	buyer := &domain.User{ID: "user-buyer", Name: "Bilal", Email: "bilal@example.com"}

	offer, err := svc.Create(context.Background(), buyer, OfferCreateInput{
		CarID:       car.ID,
		OfferAmount: 14000,
		Message:     "  cash ready  ",
		BuyerPhone:  "0300-1234567",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OfferStatusPending, offer.Status)
	assert.Equal(t, car.OwnerID, offer.SellerID)
	assert.Equal(t, buyer.Name, offer.BuyerName)
	assert.Equal(t, buyer.Email, offer.BuyerEmail)
	assert.Equal(t, "cash ready", offer.Message)
	assert.Equal(t, car.Title, offer.CarTitle)
	assert.Equal(t, car.Price, offer.CarPrice)

	published := dispatcher.eventsOf(events.EventOfferCreated)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.OfferCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, car.SellerEmail, payload.SellerEmail)
	assert.Equal(t, offer.ID, payload.OfferID)
}

func TestOfferCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewOfferService(newFakeOfferRepo(), newFakeCarRepo(), &recordingDispatcher{})

	_, err := svc.Create(context.Background(), &domain.User{ID: "u1"}, OfferCreateInput{CarID: "car-1", OfferAmount: 0})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestOfferCreateRejectsOwnListing(t *testing.T) {
	cars := newFakeCarRepo()
	svc := NewOfferService(newFakeOfferRepo(), cars, &recordingDispatcher{})
	car := seedCar(t, cars, "user-1")

	_, err := svc.Create(context.Background(), &domain.User{ID: "user-1"}, OfferCreateInput{CarID: car.ID, OfferAmount: 1000})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	assert.Equal(t, "you cannot make an offer on your own advertisement", domainErr.Message)
}

func TestOfferCreateUnknownCar(t *testing.T) {
	svc := NewOfferService(newFakeOfferRepo(), newFakeCarRepo(), &recordingDispatcher{})

	_, err := svc.Create(context.Background(), &domain.User{ID: "u1"}, OfferCreateInput{CarID: "missing", OfferAmount: 1000})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestOfferAcceptBySeller(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewOfferService(offers, cars, dispatcher)

	car := seedCar(t, cars, "user-seller")
	buyer := &domain.User{ID: "user-buyer", Name: "Bilal", Email: "bilal@example.com"}
	offer, err := svc.Create(context.Background(), buyer, OfferCreateInput{CarID: car.ID, OfferAmount: 14000})
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), "user-seller", offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferStatusAccepted, accepted.Status)

	stored, err := offers.GetByID(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferStatusAccepted, stored.Status)

	published := dispatcher.eventsOf(events.EventOfferResolved)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.OfferResolvedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.OfferStatusAccepted, payload.NewStatus)
	assert.Equal(t, buyer.Email, payload.BuyerEmail)
}

func TestOfferResolveSellerOnly(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	svc := NewOfferService(offers, cars, &recordingDispatcher{})

	car := seedCar(t, cars, "user-seller")
	offer, err := svc.Create(context.Background(), &domain.User{ID: "user-buyer"}, OfferCreateInput{CarID: car.ID, OfferAmount: 500})
	require.NoError(t, err)

	// Not even the buyer may resolve an offer.
	for _, caller := range []string{"user-buyer", "user-stranger"} {
		_, err := svc.Accept(context.Background(), caller, offer.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	}
}

func TestOfferResolveIsTerminal(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	svc := NewOfferService(offers, cars, &recordingDispatcher{})

	car := seedCar(t, cars, "user-seller")
	offer, err := svc.Create(context.Background(), &domain.User{ID: "user-buyer"}, OfferCreateInput{CarID: car.ID, OfferAmount: 500})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "user-seller", offer.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), "user-seller", offer.ID)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	assert.Equal(t, "offer has already been rejected", domainErr.Message)
}

func TestOfferResolveLostRace(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	svc := NewOfferService(offers, cars, &recordingDispatcher{})

	car := seedCar(t, cars, "user-seller")
	offer, err := svc.Create(context.Background(), &domain.User{ID: "user-buyer"}, OfferCreateInput{CarID: car.ID, OfferAmount: 500})
	require.NoError(t, err)

	// Simulate a concurrent resolution landing between the read and the swap.
	ok, err := offers.ResolveIfPending(context.Background(), offer.ID, domain.OfferStatusAccepted)
	require.NoError(t, err)
	require.True(t, ok)

	// Stale read path: re-fetch inside resolve sees the terminal state.
	_, err = svc.Reject(context.Background(), "user-seller", offer.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_OPERATION", apperrors.ToDomainError(err).Code)
}

func TestOfferListsAreSelfOnly(t *testing.T) {
	svc := NewOfferService(newFakeOfferRepo(), newFakeCarRepo(), &recordingDispatcher{})

	_, err := svc.ListReceived(context.Background(), "user-1", "user-2")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	_, err = svc.ListSent(context.Background(), "user-1", "user-2")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestOfferListForCarOwnerOnly(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	svc := NewOfferService(offers, cars, &recordingDispatcher{})

	car := seedCar(t, cars, "user-seller")
	_, err := svc.Create(context.Background(), &domain.User{ID: "user-buyer"}, OfferCreateInput{CarID: car.ID, OfferAmount: 500})
	require.NoError(t, err)

	_, err = svc.ListForCar(context.Background(), "user-buyer", car.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	listed, err := svc.ListForCar(context.Background(), "user-seller", car.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestOfferListsReturnOwnRows(t *testing.T) {
	cars := newFakeCarRepo()
	offers := newFakeOfferRepo()
	svc := NewOfferService(offers, cars, &recordingDispatcher{})

	car := seedCar(t, cars, "user-seller")
	other := seedCar(t, cars, "user-other")

	_, err := svc.Create(context.Background(), &domain.User{ID: "user-buyer"}, OfferCreateInput{CarID: car.ID, OfferAmount: 100})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &domain.User{ID: "user-buyer"}, OfferCreateInput{CarID: other.ID, OfferAmount: 200})
	require.NoError(t, err)

	received, err := svc.ListReceived(context.Background(), "user-seller", "user-seller")
	require.NoError(t, err)
	assert.Len(t, received, 1)

	sent, err := svc.ListSent(context.Background(), "user-buyer", "user-buyer")
	require.NoError(t, err)
	assert.Len(t, sent, 2)
}
