package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

type Coupon struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(20);unique;not null" json:"code"`
	DiscountType  string          `gorm:"type:varchar(10);not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinSubtotal   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"min_subtotal"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsRedeemable reports whether the coupon may be applied at the given time.
func (cp *Coupon) IsRedeemable(now time.Time) bool {
	if !cp.Active {
		return false
	}
	if cp.ExpiresAt != nil && now.After(*cp.ExpiresAt) {
		return false
	}
	return true
}
