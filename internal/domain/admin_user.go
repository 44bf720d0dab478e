package domain

import "time"

// AdminUser models a showroom/dealer account. Login requires both email
// verification and super-admin approval.
type AdminUser struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  string
	NationalID   string
	ShowroomName string
	TaxID        *string
	IsVerified   bool
	IsApproved   bool
	IsAdmin      bool
	IsSuperAdmin bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanLogin reports whether the account has cleared both onboarding gates.
func (a *AdminUser) CanLogin() bool {
	return a.IsVerified && a.IsApproved
}
