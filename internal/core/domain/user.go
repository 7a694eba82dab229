package domain

import "time"

// User is the stored record behind a principal: profile data used for
// notifications plus the credential fields used by the Authenticator.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	PasswordHash string    `json:"-"`
	Enabled      bool      `json:"enabled"`
	Roles        RoleSet   `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleRecord is a role as persisted by the credential store.
type RoleRecord struct {
	ID   string `json:"id"`
	Name Role   `json:"role"`
}
