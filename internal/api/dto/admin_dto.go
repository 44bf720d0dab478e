package dto

import (
	"time"

	"github.com/spec-kit/carventory/internal/domain"
)

// AdminSignupRequest payload for showroom admin registration.
type AdminSignupRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	PhoneNumber  string  `json:"phone_number"`
	NationalID   string  `json:"national_id"`
	ShowroomName string  `json:"showroom_name"`
	TaxID        *string `json:"tax_id,omitempty"`
}

// AdminVerifyRequest payload for email verification.
type AdminVerifyRequest struct {
	Token string `json:"token"`
}

// ApproveAdminRequest payload for the super-admin decision.
type ApproveAdminRequest struct {
	Approve bool `json:"approve"`
}

// AdminResponse is the public view of an admin account.
type AdminResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	ShowroomName string    `json:"showroom_name"`
	IsVerified   bool      `json:"is_verified"`
	IsApproved   bool      `json:"is_approved"`
	IsAdmin      bool      `json:"is_admin"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAdminResponse maps a domain admin user.
func NewAdminResponse(admin *domain.AdminUser) AdminResponse {
	return AdminResponse{
		ID:           admin.ID,
		Name:         admin.Name,
		Email:        admin.Email,
		PhoneNumber:  admin.PhoneNumber,
		ShowroomName: admin.ShowroomName,
		IsVerified:   admin.IsVerified,
		IsApproved:   admin.IsApproved,
		IsAdmin:      admin.IsAdmin,
		IsSuperAdmin: admin.IsSuperAdmin,
		CreatedAt:    admin.CreatedAt,
	}
}
