package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cart holds one customer's pending line items. All items belong to the
// same restaurant; RestaurantID is set on the first add and cleared when
// the cart empties.
type Cart struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	OwnerID      uint             `gorm:"uniqueIndex;not null" json:"owner_id"`
	Owner        User             `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	RestaurantID *uint            `gorm:"index" json:"restaurant_id,omitempty"`
	Items        []CartItem       `gorm:"foreignKey:CartID" json:"items"`
	CouponCode   *string          `gorm:"type:varchar(20)" json:"coupon_code,omitempty"`
	CouponType   *string          `gorm:"type:varchar(10)" json:"coupon_type,omitempty"`
	CouponValue  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"coupon_value,omitempty"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null" json:"updated_at"`
}

type CartItem struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	CartID        uint              `gorm:"not null;index" json:"cart_id"`
	MenuID        uint              `gorm:"not null" json:"menu_id"`
	UnitPrice     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	Customization map[string]string `gorm:"serializer:json" json:"customization,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CustomizationKey returns a canonical form of the customization map so
// two adds of the same menu item with the same options merge into one line.
func (ci *CartItem) CustomizationKey() string {
	return CustomizationKey(ci.Customization)
}

func CustomizationKey(customization map[string]string) string {
	if len(customization) == 0 {
		return ""
	}
	keys := make([]string, 0, len(customization))
	for k := range customization {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+customization[k])
	}
	return strings.Join(parts, ";")
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// HasCoupon reports whether a discount snapshot is currently applied.
func (c *Cart) HasCoupon() bool {
	return c.CouponCode != nil && c.CouponType != nil && c.CouponValue != nil
}
