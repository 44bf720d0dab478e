package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/events"
	"github.com/spec-kit/carventory/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*domain.AdminUser
	seq    int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*domain.AdminUser{}}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	admin.ID = fmt.Sprintf("admin-%d", r.seq)
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	clone := *admin
	r.admins[admin.ID] = &clone
	return nil
}

func (r *fakeAdminRepo) Update(_ context.Context, admin *domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[admin.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *admin
	r.admins[admin.ID] = &clone
	return nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.admins, id)
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *admin
	return &clone, nil
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.Email == email {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) GetByNationalID(_ context.Context, nationalID string) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.NationalID == nationalID {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) ListPendingApproval(_ context.Context) ([]domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []domain.AdminUser
	for _, admin := range r.admins {
		if admin.IsVerified && !admin.IsApproved {
			pending = append(pending, *admin)
		}
	}
	return pending, nil
}

type fakeCarRepo struct {
	mu   sync.Mutex
	cars map[string]*domain.Car
	seq  int
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: map[string]*domain.Car{}}
}

func (r *fakeCarRepo) Create(_ context.Context, car *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	car.ID = fmt.Sprintf("car-%d", r.seq)
	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt
	clone := *car
	r.cars[car.ID] = &clone
	return nil
}

func (r *fakeCarRepo) Update(_ context.Context, car *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[car.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *car
	r.cars[car.ID] = &clone
	return nil
}

func (r *fakeCarRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.cars, id)
	return nil
}

func (r *fakeCarRepo) GetByID(_ context.Context, id string) (*domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	car, ok := r.cars[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *car
	return &clone, nil
}

func (r *fakeCarRepo) ListAll(_ context.Context) ([]domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cars []domain.Car
	for _, car := range r.cars {
		cars = append(cars, *car)
	}
	return cars, nil
}

func (r *fakeCarRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cars []domain.Car
	for _, car := range r.cars {
		if car.OwnerID == ownerID {
			cars = append(cars, *car)
		}
	}
	return cars, nil
}

func (r *fakeCarRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, car := range r.cars {
		if car.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*domain.Offer
	seq    int
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: map[string]*domain.Offer{}}
}

func (r *fakeOfferRepo) Create(_ context.Context, offer *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	offer.ID = fmt.Sprintf("offer-%d", r.seq)
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt
	clone := *offer
	r.offers[offer.ID] = &clone
	return nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *offer
	return &clone, nil
}

func (r *fakeOfferRepo) ListBySeller(_ context.Context, sellerID string) ([]domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var offers []domain.Offer
	for _, offer := range r.offers {
		if offer.SellerID == sellerID {
			offers = append(offers, *offer)
		}
	}
	return offers, nil
}

func (r *fakeOfferRepo) ListByBuyer(_ context.Context, buyerID string) ([]domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var offers []domain.Offer
	for _, offer := range r.offers {
		if offer.BuyerID == buyerID {
			offers = append(offers, *offer)
		}
	}
	return offers, nil
}

func (r *fakeOfferRepo) ListByCar(_ context.Context, carID string) ([]domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var offers []domain.Offer
	for _, offer := range r.offers {
		if offer.CarID == carID {
			offers = append(offers, *offer)
		}
	}
	return offers, nil
}

func (r *fakeOfferRepo) ResolveIfPending(_ context.Context, id string, status domain.OfferStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || offer.Status != domain.OfferStatusPending {
		return false, nil
	}
	offer.Status = status
	offer.UpdatedAt = time.Now()
	return true, nil
}

// fakeTokenStore keeps verification tokens in memory with an injectable clock
// so expiry can be tested.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]issuedToken
	ttl    time.Duration
	now    func() time.Time
	seq    int
}

type issuedToken struct {
	adminID   string
	expiresAt time.Time
}

func newFakeTokenStore(ttl time.Duration) *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]issuedToken{}, ttl: ttl, now: time.Now}
}

func (s *fakeTokenStore) Issue(_ context.Context, adminID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	token := fmt.Sprintf("tok-%d", s.seq)
	s.tokens[token] = issuedToken{adminID: adminID, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

func (s *fakeTokenStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.tokens[token]
	if !ok || s.now().After(issued.expiresAt) {
		delete(s.tokens, token)
		return "", repository.ErrTokenNotFound
	}
	delete(s.tokens, token)
	return issued.adminID, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// recordingMailer records sends and optionally fails them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *recordingMailer) mails() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail{}, m.sent...)
}

// recordingDispatcher captures published events without running handlers.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) eventsOf(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
