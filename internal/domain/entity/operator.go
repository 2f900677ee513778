package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Operator is a till user. BranchID is the branch the operator sells for.
type Operator struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Username     string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	DisplayName  string         `gorm:"size:255" json:"display_name"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'cashier'" json:"role"`
	BranchID     *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Operator) TableName() string {
	return "operators"
}

func (o *Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}
