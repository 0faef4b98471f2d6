package model

import "time"

// Application roles stored in the users.role column and carried in the
// JWT "role" claim.  Staff can manage showtimes and tickets; admins can
// additionally manage the catalog, promotions and users.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User mirrors the users table.  PasswordHash holds a bcrypt digest and
// is never serialized.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RefreshToken models a row in refresh_tokens.  Only the SHA-256 hash of
// the raw token is stored; RevokedAt is nil while the token is active.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
