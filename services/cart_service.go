package services

import (
	"time"

	"github.com/yeremiapane/food-order-app/models"
)

// CartService is the pricing engine over one customer's cart. It mutates
// the in-memory aggregate only; loading and saving the cart is the
// caller's job, so every operation stays a pure decision over a snapshot.
type CartService struct {
	Menus   MenuLookup
	Coupons CouponLookup
	Pricing PricingConfig
}

func NewCartService(menus MenuLookup, coupons CouponLookup, cfg PricingConfig) *CartService {
	return &CartService{Menus: menus, Coupons: coupons, Pricing: cfg}
}

// AddItem appends a line item, or merges into an existing line with the
// same menu item and customization. The menu's current price is
// snapshotted as the line's unit price. Adding from a second restaurant is
// rejected; the cart is left untouched on every error.
func (s *CartService) AddItem(cart *models.Cart, menuID uint, quantity int, customization map[string]string) (models.PricedTotals, error) {
	if quantity < 1 {
		return models.PricedTotals{}, ErrInvalidQuantity
	}

	menu, err := s.Menus.GetMenuItem(menuID)
	if err != nil {
		return models.PricedTotals{}, err
	}
	if !menu.IsAvailable {
		return models.PricedTotals{}, ErrMenuUnavailable
	}

	if cart.RestaurantID != nil && *cart.RestaurantID != menu.RestaurantID {
		return models.PricedTotals{}, ErrCrossRestaurant
	}

	key := models.CustomizationKey(customization)
	merged := false
	for i := range cart.Items {
		if cart.Items[i].MenuID == menuID && cart.Items[i].CustomizationKey() == key {
			cart.Items[i].Quantity += quantity
			cart.Items[i].UpdatedAt = time.Now()
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:        cart.ID,
			MenuID:        menuID,
			UnitPrice:     menu.Price,
			Quantity:      quantity,
			Customization: customization,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		})
	}

	if cart.RestaurantID == nil {
		restaurantID := menu.RestaurantID
		cart.RestaurantID = &restaurantID
	}

	return ComputeTotals(cart, s.Pricing), nil
}

// UpdateItemQuantity sets a line's quantity; zero removes the line.
func (s *CartService) UpdateItemQuantity(cart *models.Cart, itemID uint, quantity int) (models.PricedTotals, error) {
	if quantity < 0 {
		return models.PricedTotals{}, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(cart, itemID)
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			cart.Items[i].UpdatedAt = time.Now()
			return ComputeTotals(cart, s.Pricing), nil
		}
	}
	return models.PricedTotals{}, ErrItemNotFound
}

// RemoveItem deletes a line item. Removing the last line clears the
// cart's restaurant binding so the next add may come from anywhere.
func (s *CartService) RemoveItem(cart *models.Cart, itemID uint) (models.PricedTotals, error) {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			if cart.IsEmpty() {
				cart.RestaurantID = nil
			}
			return ComputeTotals(cart, s.Pricing), nil
		}
	}
	return models.PricedTotals{}, ErrItemNotFound
}

// Clear empties the cart and drops any applied coupon. Always succeeds.
func (s *CartService) Clear(cart *models.Cart) {
	cart.Items = nil
	cart.RestaurantID = nil
	cart.CouponCode = nil
	cart.CouponType = nil
	cart.CouponValue = nil
}

// ApplyCoupon validates the code and stores a discount snapshot on the
// cart. Re-applying the same code replaces the snapshot, it never stacks.
func (s *CartService) ApplyCoupon(cart *models.Cart, code string) (models.PricedTotals, error) {
	if len(code) < 3 || len(code) > 20 {
		return models.PricedTotals{}, ErrInvalidCoupon
	}

	coupon, err := s.Coupons.GetCoupon(code)
	if err != nil {
		return models.PricedTotals{}, err
	}
	if coupon == nil || !coupon.IsRedeemable(time.Now()) {
		return models.PricedTotals{}, ErrInvalidCoupon
	}

	if coupon.MinSubtotal.IsPositive() {
		subtotal := ComputeTotals(cart, s.Pricing).Subtotal
		if subtotal.LessThan(coupon.MinSubtotal) {
			return models.PricedTotals{}, ErrInvalidCoupon
		}
	}

	couponCode := coupon.Code
	couponType := coupon.DiscountType
	couponValue := coupon.DiscountValue
	cart.CouponCode = &couponCode
	cart.CouponType = &couponType
	cart.CouponValue = &couponValue

	return ComputeTotals(cart, s.Pricing), nil
}

// RemoveCoupon drops the applied coupon. Always succeeds.
func (s *CartService) RemoveCoupon(cart *models.Cart) models.PricedTotals {
	cart.CouponCode = nil
	cart.CouponType = nil
	cart.CouponValue = nil
	return ComputeTotals(cart, s.Pricing)
}

// ComputeTotals prices the cart as it stands.
func (s *CartService) ComputeTotals(cart *models.Cart) models.PricedTotals {
	return ComputeTotals(cart, s.Pricing)
}
