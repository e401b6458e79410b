package types

import (
	"time"

	"github.com/google/uuid"
)

// UserToken is one refresh-token session. The access token carries the
// session id so logout can revoke exactly one device.
type UserToken struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	RefreshToken string     `gorm:"not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null;column:expires_at" json:"expires_at"`
	RevokedAt    *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (UserToken) TableName() string {
	return "user_token"
}
