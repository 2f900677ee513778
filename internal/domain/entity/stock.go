package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchStock is the on-hand quantity of one variant at one branch
type BranchStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_branch_stock" json:"branch_id"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_branch_stock" json:"variant_id"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *BranchStock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (BranchStock) TableName() string {
	return "branch_stocks"
}

// StockShortfall describes why a quantity could not be served
type StockShortfall struct {
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku,omitempty"`
	Available int       `json:"available"`
	Requested int       `json:"requested"`
}

func (s StockShortfall) Missing() int {
	if s.Requested <= s.Available {
		return 0
	}
	return s.Requested - s.Available
}
