package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Customer is an account holder for store credit
type Customer struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	NationalID string         `gorm:"size:20;uniqueIndex;not null" json:"national_id"`
	FirstName  string         `gorm:"size:120;not null" json:"first_name"`
	LastName   string         `gorm:"size:120;not null" json:"last_name"`
	Phone      string         `gorm:"size:50" json:"phone,omitempty"`
	Active     bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Customer) TableName() string {
	return "customers"
}

// DisplayLabel is how the customer appears on a payment reference
func (c *Customer) DisplayLabel() string {
	return fmt.Sprintf("%s, %s (%s)", c.LastName, c.FirstName, c.NationalID)
}

// CreditAccount is a customer's running tab. The balance is never stored;
// it is the sum of its movements.
type CreditAccount struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"customer_id"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (a *CreditAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// Usable reports whether both the account and its holder are active
func (a *CreditAccount) Usable() bool {
	return a.Active && a.Customer != nil && a.Customer.Active
}

var (
	ErrDebitWithoutSale = errors.New("credit movement: a debit must reference a sale")
	ErrCreditWithSale   = errors.New("credit movement: a credit must not reference a sale")
	ErrMovementAmount   = errors.New("credit movement: amount must be positive")
)

// CreditMovement is one signed entry on a credit account
type CreditMovement struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	AccountID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"account_id"`
	Type       enum.MovementType `gorm:"size:10;not null" json:"type"`
	Amount     decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	OccurredAt time.Time         `gorm:"not null;index" json:"occurred_at"`
	SaleID     *uuid.UUID        `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	Reference  string            `gorm:"size:120" json:"reference,omitempty"`
	Note       string            `gorm:"size:255" json:"note,omitempty"`
	Meta       datatypes.JSON    `json:"meta,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (m *CreditMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return m.Validate()
}

func (CreditMovement) TableName() string {
	return "credit_movements"
}

func (m *CreditMovement) Validate() error {
	if !m.Amount.IsPositive() {
		return ErrMovementAmount
	}
	switch m.Type {
	case enum.MovementDebit:
		if m.SaleID == nil {
			return ErrDebitWithoutSale
		}
	case enum.MovementCredit:
		if m.SaleID != nil {
			return ErrCreditWithSale
		}
	default:
		return fmt.Errorf("credit movement: unknown type %q", m.Type)
	}
	return nil
}

// Signed is the movement's effect on the balance
func (m *CreditMovement) Signed() decimal.Decimal {
	if m.Type == enum.MovementCredit {
		return m.Amount.Neg()
	}
	return m.Amount
}
