package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/carventory/internal/domain"
)

// OfferRepository encapsulates offer persistence.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Offer, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Offer, error)
	ListByCar(ctx context.Context, carID string) ([]domain.Offer, error)
	// ResolveIfPending atomically moves a pending offer to the given terminal
	// status. Returns false when the offer was not pending (or absent).
	ResolveIfPending(ctx context.Context, id string, status domain.OfferStatus) (bool, error)
}

type offerRepository struct {
	pool *pgxpool.Pool
}

// NewOfferRepository instantiates repository.
func NewOfferRepository(pool *pgxpool.Pool) OfferRepository {
	return &offerRepository{pool: pool}
}

const offerColumns = `id, car_id, buyer_id, seller_id, offer_amount, message, status,
       buyer_name, buyer_email, buyer_phone, car_title, car_make, car_model,
       car_year, car_price, created_at, updated_at`

func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	const query = `
        INSERT INTO offers (car_id, buyer_id, seller_id, offer_amount, message, status,
            buyer_name, buyer_email, buyer_phone, car_title, car_make, car_model,
            car_year, car_price)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		offer.CarID,
		offer.BuyerID,
		offer.SellerID,
		offer.OfferAmount,
		offer.Message,
		offer.Status,
		offer.BuyerName,
		offer.BuyerEmail,
		offer.BuyerPhone,
		offer.CarTitle,
		offer.CarMake,
		offer.CarModel,
		offer.CarYear,
		offer.CarPrice,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt)
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id=$1`
	return scanOffer(r.pool.QueryRow(ctx, query, id))
}

func (r *offerRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE seller_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, sellerID)
}

func (r *offerRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE buyer_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, buyerID)
}

func (r *offerRepository) ListByCar(ctx context.Context, carID string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE car_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, carID)
}

func (r *offerRepository) ResolveIfPending(ctx context.Context, id string, status domain.OfferStatus) (bool, error) {
	const query = `
        UPDATE offers SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status='pending'`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *offerRepository) list(ctx context.Context, query string, args ...any) ([]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *offer)
	}
	return result, rows.Err()
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var offer domain.Offer
	if err := row.Scan(
		&offer.ID,
		&offer.CarID,
		&offer.BuyerID,
		&offer.SellerID,
		&offer.OfferAmount,
		&offer.Message,
		&offer.Status,
		&offer.BuyerName,
		&offer.BuyerEmail,
		&offer.BuyerPhone,
		&offer.CarTitle,
		&offer.CarMake,
		&offer.CarModel,
		&offer.CarYear,
		&offer.CarPrice,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &offer, nil
}
