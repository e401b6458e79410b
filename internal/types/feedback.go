package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackStatusOpen     = "open"
	FeedbackStatusResolved = "resolved"
)

type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Rating    int       `gorm:"not null;column:rating" json:"rating"`
	Content   string    `gorm:"type:text;column:content" json:"content"`
	Status    string    `gorm:"not null;default:open;column:status" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
