package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterSession is one shift of a till. At most one session per branch has
// no ClosedAt; storage enforces it with a partial unique index.
type RegisterSession struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BranchID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	OpenedByID uuid.UUID  `gorm:"type:uuid;not null" json:"opened_by_id"`
	OpenedAt   time.Time  `gorm:"not null" json:"opened_at"`
	ClosedByID *uuid.UUID `gorm:"type:uuid" json:"closed_by_id,omitempty"`
	ClosedAt   *time.Time `gorm:"index" json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *RegisterSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (RegisterSession) TableName() string {
	return "register_sessions"
}

func (s *RegisterSession) IsOpen() bool {
	return s.ClosedAt == nil
}

// SalesSummary is what a register close reports
type SalesSummary struct {
	SessionID uuid.UUID       `json:"session_id"`
	Count     int64           `json:"count"`
	Total     decimal.Decimal `json:"total"`
}
