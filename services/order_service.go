package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/food-order-app/models"
)

// OrderService drives the order status machine. Like CartService it works
// on in-memory aggregates; persistence and per-entity serialization live
// in the controller layer.
type OrderService struct {
	Menus   MenuLookup
	Pricing PricingConfig
}

func NewOrderService(menus MenuLookup, cfg PricingConfig) *OrderService {
	return &OrderService{Menus: menus, Pricing: cfg}
}

// PlaceOrder freezes the priced cart into a new pending order. It does
// not clear the cart itself; the caller does that after the order has
// been persisted, keeping the two aggregates decoupled.
func (s *OrderService) PlaceOrder(cart *models.Cart, deliveryAddress, paymentMethod, contactPhone string) (*models.Order, error) {
	if cart.IsEmpty() || cart.RestaurantID == nil {
		return nil, ErrEmptyCart
	}

	totals := ComputeTotals(cart, s.Pricing)
	if totals.GrandTotal.LessThan(s.Pricing.MinimumOrder) {
		return nil, ErrMinimumOrder
	}

	now := time.Now()
	order := &models.Order{
		OrderNumber:     fmt.Sprintf("ORD-%s", uuid.NewString()),
		CustomerID:      cart.OwnerID,
		RestaurantID:    *cart.RestaurantID,
		DeliveryAddress: deliveryAddress,
		ContactPhone:    contactPhone,
		PaymentMethod:   paymentMethod,
		CouponCode:      cart.CouponCode,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		DeliveryFee:     totals.DeliveryFee,
		DiscountAmount:  totals.DiscountAmount,
		GrandTotal:      totals.GrandTotal,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range cart.Items {
		name := ""
		if menu, err := s.Menus.GetMenuItem(item.MenuID); err == nil {
			name = menu.Name
		}
		order.Items = append(order.Items, models.OrderItem{
			MenuID:        item.MenuID,
			Name:          name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			Customization: item.Customization,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return order, nil
}

// AdvanceStatus moves the order to the next stage. Only admins may drive
// the forward path, and stages cannot be skipped: the target must be the
// immediate successor of the current status.
func (s *OrderService) AdvanceStatus(order *models.Order, target models.OrderStatus, actorRole string) error {
	if actorRole != models.RoleAdmin {
		return ErrForbiddenTransition
	}
	if !models.ValidStatus(target) || target == models.StatusCancelled {
		return ErrInvalidTransition
	}

	next, ok := models.NextStatus(order.Status)
	if !ok || target != next {
		return ErrInvalidTransition
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the order cancelled and records the reason. Customers may
// cancel from pending or confirmed; admins from any non-terminal status.
func (s *OrderService) Cancel(order *models.Order, actorRole, reason string) error {
	if !order.CanBeCancelledBy(actorRole) {
		return ErrNotCancellable
	}
	order.Status = models.StatusCancelled
	order.CancelReason = &reason
	order.UpdatedAt = time.Now()
	return nil
}

// AttachRating records a one-time star rating on a delivered order.
func (s *OrderService) AttachRating(order *models.Order, stars int, review *string) error {
	if order.Status != models.StatusDelivered {
		return ErrNotRatable
	}
	if stars < 1 || stars > 5 {
		return ErrInvalidRating
	}
	if order.IsRated() {
		return ErrAlreadyRated
	}

	now := time.Now()
	order.RatingStars = &stars
	order.RatingReview = review
	order.RatedAt = &now
	order.UpdatedAt = now
	return nil
}

// Reorder builds a fresh cart from the order's line items at CURRENT menu
// prices. Items that have been removed or made unavailable since the
// original order are skipped; if nothing survives the cart is not usable
// and ErrEmptyCart is returned.
func (s *OrderService) Reorder(order *models.Order) (*models.Cart, error) {
	cart := &models.Cart{
		OwnerID:   order.CustomerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, item := range order.Items {
		menu, err := s.Menus.GetMenuItem(item.MenuID)
		if err != nil || !menu.IsAvailable {
			continue
		}
		cart.Items = append(cart.Items, models.CartItem{
			MenuID:        item.MenuID,
			UnitPrice:     menu.Price,
			Quantity:      item.Quantity,
			Customization: item.Customization,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		})
	}

	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	restaurantID := order.RestaurantID
	cart.RestaurantID = &restaurantID
	return cart, nil
}
