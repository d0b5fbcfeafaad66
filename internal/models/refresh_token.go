package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted refresh credential record. At most one live
// record exists per user; the raw secret is never stored, only its peppered
// SHA-256 digest.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
