package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Promo discount types
const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

// PromoCode is a redeemable discount code
type PromoCode struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Code           string           `gorm:"uniqueIndex;not null" json:"code"`
	Description    string           `json:"description"`
	DiscountType   string           `gorm:"not null" json:"discount_type"`
	DiscountValue  decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"discount_value"`
	MinOrderAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `gorm:"type:numeric(12,2)" json:"max_discount"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
	UsageLimit     *int             `json:"usage_limit"`
	UsedCount      int              `gorm:"not null;default:0" json:"used_count"`
	IsActive       bool             `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PromoCode model
func (PromoCode) TableName() string {
	return "promo_codes"
}
