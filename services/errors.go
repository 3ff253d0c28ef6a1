package services

import "errors"

// Every failed precondition in the cart and order services maps to one of
// these sentinel errors so controllers and tests can discriminate with
// errors.Is. The services themselves never log or wrap.
var (
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrItemNotFound        = errors.New("line item not found in cart")
	ErrCrossRestaurant     = errors.New("cart already contains items from another restaurant")
	ErrMenuUnavailable     = errors.New("menu item is not available")
	ErrInvalidCoupon       = errors.New("coupon is unknown, expired or not applicable")
	ErrEmptyCart           = errors.New("cart has no items")
	ErrMinimumOrder        = errors.New("order total is below the minimum order amount")
	ErrInvalidTransition   = errors.New("order status transition is not allowed")
	ErrForbiddenTransition = errors.New("actor is not allowed to perform this status change")
	ErrNotCancellable      = errors.New("order can no longer be cancelled")
	ErrNotRatable          = errors.New("only delivered orders can be rated")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5 stars")
	ErrAlreadyRated        = errors.New("order has already been rated")
)
