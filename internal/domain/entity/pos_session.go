package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PosSession is the server-side row holding an operator session's cart and
// payment drafts as JSON. It is staging state, not a business record.
type PosSession struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SessionKey string         `gorm:"size:64;uniqueIndex;not null" json:"session_key"`
	OperatorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"operator_id"`
	State      datatypes.JSON `gorm:"not null" json:"state"`
	ExpiresAt  time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (s *PosSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (PosSession) TableName() string {
	return "pos_sessions"
}

func (s *PosSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
