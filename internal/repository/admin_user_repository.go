package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/carventory/internal/domain"
)

// AdminUserRepository defines persistence access for showroom admin accounts.
type AdminUserRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	Update(ctx context.Context, admin *domain.AdminUser) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	GetByNationalID(ctx context.Context, nationalID string) (*domain.AdminUser, error)
	ListPendingApproval(ctx context.Context) ([]domain.AdminUser, error)
}

type adminUserRepository struct {
	pool *pgxpool.Pool
}

// NewAdminUserRepository returns a Postgres-backed implementation.
func NewAdminUserRepository(pool *pgxpool.Pool) AdminUserRepository {
	return &adminUserRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, phone_number, national_id,
       showroom_name, tax_id, is_verified, is_approved, is_admin, is_super_admin,
       created_at, updated_at`

func (r *adminUserRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (name, email, password_hash, phone_number, national_id,
            showroom_name, tax_id, is_verified, is_approved, is_admin, is_super_admin)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.Name,
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		admin.PhoneNumber,
		admin.NationalID,
		admin.ShowroomName,
		admin.TaxID,
		admin.IsVerified,
		admin.IsApproved,
		admin.IsAdmin,
		admin.IsSuperAdmin,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminUserRepository) Update(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        UPDATE admin_users SET name=$1, email=$2, password_hash=$3, phone_number=$4,
            national_id=$5, showroom_name=$6, tax_id=$7, is_verified=$8, is_approved=$9,
            is_admin=$10, is_super_admin=$11, updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		admin.Name,
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		admin.PhoneNumber,
		admin.NationalID,
		admin.ShowroomName,
		admin.TaxID,
		admin.IsVerified,
		admin.IsApproved,
		admin.IsAdmin,
		admin.IsSuperAdmin,
		admin.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminUserRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admin_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE email=$1`
	return r.fetchSingle(ctx, query, strings.ToLower(email))
}

func (r *adminUserRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE national_id=$1`
	return r.fetchSingle(ctx, query, nationalID)
}

func (r *adminUserRepository) ListPendingApproval(ctx context.Context) ([]domain.AdminUser, error) {
	query := `SELECT ` + adminColumns + `
        FROM admin_users
        WHERE is_verified=TRUE AND is_approved=FALSE
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminUser
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *admin)
	}
	return result, rows.Err()
}

func (r *adminUserRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AdminUser, error) {
	return scanAdmin(r.pool.QueryRow(ctx, query, arg))
}

func scanAdmin(row pgx.Row) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	if err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.PhoneNumber,
		&admin.NationalID,
		&admin.ShowroomName,
		&admin.TaxID,
		&admin.IsVerified,
		&admin.IsApproved,
		&admin.IsAdmin,
		&admin.IsSuperAdmin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
