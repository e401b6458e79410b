package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Article is one generated piece kept as user history. FormData is the
// form snapshot the prompt was assembled from.
type Article struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	TemplateKey string         `gorm:"not null;column:template_key" json:"template_key"`
	Title       string         `gorm:"column:title" json:"title"`
	Content     string         `gorm:"type:text;column:content" json:"content"`
	FormData    datatypes.JSON `gorm:"column:form_data" json:"form_data"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Article) TableName() string {
	return "article"
}
