package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InstallmentPlan maps a card brand and installment count to a surcharge
type InstallmentPlan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CardBrand    string          `gorm:"size:50;not null;uniqueIndex:ux_plan_brand_installments" json:"card_brand"`
	Installments int             `gorm:"not null;uniqueIndex:ux_plan_brand_installments" json:"installments"`
	SurchargePct decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"surcharge_pct"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (p *InstallmentPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (InstallmentPlan) TableName() string {
	return "installment_plans"
}
