package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	TemplateStatusActive   = "active"
	TemplateStatusInactive = "inactive"
)

// Template is a reusable prompt skeleton with {name} placeholders,
// associated to a content category such as meeting minutes.
type Template struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key            string    `gorm:"uniqueIndex;not null;column:key" json:"key"`
	Name           string    `gorm:"not null;column:name" json:"name"`
	Description    string    `gorm:"column:description" json:"description"`
	PromptTemplate string    `gorm:"type:text;not null;column:prompt_template" json:"prompt_template"`
	ExampleContent string    `gorm:"type:text;column:example_content" json:"example_content"`
	Status         string    `gorm:"not null;default:active;column:status" json:"status"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Template) TableName() string {
	return "template"
}
