package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// nextStatus is the single allowed successor for each non-terminal status.
// Cancellation is not part of the forward path; see Order.CanBeCancelledBy.
var nextStatus = map[OrderStatus]OrderStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

// NextStatus returns the immediate successor of s, or false if s is terminal.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PricedTotals is the derived money breakdown of a cart. It is computed,
// never stored; orders freeze a copy of it into their own columns.
type PricedTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	CustomerID      uint            `gorm:"not null;index" json:"customer_id"`
	Customer        User            `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	RestaurantID    uint            `gorm:"not null;index" json:"restaurant_id"`
	Restaurant      Restaurant      `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"restaurant"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	ContactPhone    string          `gorm:"type:varchar(30)" json:"contact_phone"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null" json:"payment_method"`
	CouponCode      *string         `gorm:"type:varchar(20)" json:"coupon_code,omitempty"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_amount"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CancelReason    *string         `gorm:"type:text" json:"cancel_reason,omitempty"`
	RatingStars     *int            `json:"rating_stars,omitempty"`
	RatingReview    *string         `gorm:"type:text" json:"rating_review,omitempty"`
	RatedAt         *time.Time      `json:"rated_at,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	OrderID       uint              `gorm:"not null;index" json:"order_id"`
	Order         Order             `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID        uint              `gorm:"not null" json:"menu_id"`
	Menu          Menu              `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Name          string            `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	Customization map[string]string `gorm:"serializer:json" json:"customization,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Totals rebuilds the frozen PricedTotals stored on the order.
func (o *Order) Totals() PricedTotals {
	return PricedTotals{
		Subtotal:       o.Subtotal,
		TaxAmount:      o.TaxAmount,
		DeliveryFee:    o.DeliveryFee,
		DiscountAmount: o.DiscountAmount,
		GrandTotal:     o.GrandTotal,
	}
}

func (o *Order) IsRated() bool {
	return o.RatingStars != nil
}

// CanBeCancelledBy reports whether the actor role may cancel the order in
// its current status. Customers may only back out before the kitchen
// starts; admins may cancel anything not yet terminal.
func (o *Order) CanBeCancelledBy(role string) bool {
	switch role {
	case RoleCustomer:
		return o.Status == StatusPending || o.Status == StatusConfirmed
	case RoleAdmin:
		return !o.Status.IsTerminal()
	}
	return false
}
