package domain

import "time"

// User is the domain model for buyers and sellers on the marketplace.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
