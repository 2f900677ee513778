package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variant is a sellable catalog item. The catalog itself is managed
// elsewhere; the POS only reads it.
type Variant struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Name        string          `gorm:"size:255" json:"name,omitempty"`
	SKU         string          `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Barcode     string          `gorm:"size:100;index" json:"barcode,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	VATRatePct  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:21" json:"vat_rate_pct"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (Variant) TableName() string {
	return "variants"
}

// Label is the product name plus the variant name when there is one
func (v *Variant) Label() string {
	if v.Name == "" {
		return v.ProductName
	}
	return v.ProductName + " " + v.Name
}
