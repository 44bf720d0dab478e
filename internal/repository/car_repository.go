package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/carventory/internal/domain"
)

// CarRepository encapsulates car advertisement persistence.
type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Car, error)
	ListAll(ctx context.Context) ([]domain.Car, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Car, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

type carRepository struct {
	pool *pgxpool.Pool
}

// NewCarRepository instantiates repository.
func NewCarRepository(pool *pgxpool.Pool) CarRepository {
	return &carRepository{pool: pool}
}

const carColumns = `id, title, make, model, year, price, description, image_urls,
       mileage, transmission, color, fuel_type, engine_capacity, condition,
       seller_name, seller_phone, seller_email, owner_user_id, created_at, updated_at`

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	const query = `
        INSERT INTO cars (title, make, model, year, price, description, image_urls,
            mileage, transmission, color, fuel_type, engine_capacity, condition,
            seller_name, seller_phone, seller_email, owner_user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		car.Title,
		car.Make,
		car.Model,
		car.Year,
		car.Price,
		car.Description,
		car.ImageURLs,
		car.Mileage,
		car.Transmission,
		car.Color,
		car.FuelType,
		car.EngineCapacity,
		car.Condition,
		car.SellerName,
		car.SellerPhone,
		car.SellerEmail,
		car.OwnerID,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	const query = `
        UPDATE cars SET title=$1, make=$2, model=$3, year=$4, price=$5, description=$6,
            image_urls=$7, mileage=$8, transmission=$9, color=$10, fuel_type=$11,
            engine_capacity=$12, condition=$13, seller_name=$14, seller_phone=$15,
            seller_email=$16, updated_at=NOW()
        WHERE id=$17`

	cmd, err := r.pool.Exec(ctx, query,
		car.Title,
		car.Make,
		car.Model,
		car.Year,
		car.Price,
		car.Description,
		car.ImageURLs,
		car.Mileage,
		car.Transmission,
		car.Color,
		car.FuelType,
		car.EngineCapacity,
		car.Condition,
		car.SellerName,
		car.SellerPhone,
		car.SellerEmail,
		car.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id=$1`
	return scanCar(r.pool.QueryRow(ctx, query, id))
}

func (r *carRepository) ListAll(ctx context.Context) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *carRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *carRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cars WHERE owner_user_id=$1`, ownerID).Scan(&count)
	return count, err
}

func (r *carRepository) list(ctx context.Context, query string, args ...any) ([]domain.Car, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *car)
	}
	return result, rows.Err()
}

func scanCar(row pgx.Row) (*domain.Car, error) {
	var car domain.Car
	if err := row.Scan(
		&car.ID,
		&car.Title,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.Price,
		&car.Description,
		&car.ImageURLs,
		&car.Mileage,
		&car.Transmission,
		&car.Color,
		&car.FuelType,
		&car.EngineCapacity,
		&car.Condition,
		&car.SellerName,
		&car.SellerPhone,
		&car.SellerEmail,
		&car.OwnerID,
		&car.CreatedAt,
		&car.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &car, nil
}
