package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppSetting is a key/value row in the settings store. Boolean toggles use
// BoolValue, identity strings use StrValue.
type AppSetting struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Key         string    `gorm:"size:150;uniqueIndex;not null" json:"key"`
	BoolValue   *bool     `json:"bool_value,omitempty"`
	StrValue    *string   `gorm:"size:255" json:"str_value,omitempty"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *AppSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (AppSetting) TableName() string {
	return "app_settings"
}
