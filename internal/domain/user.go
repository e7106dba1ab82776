package domain

import "time"

// Role is the access level assigned to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account in the system. PasswordHash is nil for users
// created through the magic-link or OAuth flows who never set a password.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Name         *string   `json:"name" db:"name"`
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Account links a third-party provider identity to a user. The
// (Provider, ProviderAccountID) pair is unique across the system, so a
// provider identity resolves to exactly one user while a user may hold
// accounts with several providers.
type Account struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	Provider          string    `json:"provider" db:"provider"`
	ProviderAccountID string    `json:"provider_account_id" db:"provider_account_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// WaitlistEntry is a pre-launch signup. Email is unique.
type WaitlistEntry struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
