package services

import "github.com/yeremiapane/food-order-app/models"

// MenuLookup resolves a menu item so the cart can validate availability
// and snapshot its current price. Implemented over the database by the
// controller layer; the services never touch storage themselves.
type MenuLookup interface {
	GetMenuItem(id uint) (*models.Menu, error)
}

// CouponLookup resolves a coupon code. A nil coupon with a nil error means
// the code is unknown.
type CouponLookup interface {
	GetCoupon(code string) (*models.Coupon, error)
}
