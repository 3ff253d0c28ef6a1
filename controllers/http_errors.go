package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/services"
)

// ErrNoPermission is returned when the actor's role does not allow an action.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// statusForServiceError maps the service error taxonomy onto HTTP codes.
// Anything unrecognized is a 500 so bugs surface loudly.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbiddenTransition):
		return http.StatusForbidden
	case errors.Is(err, services.ErrCrossRestaurant),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrMenuUnavailable),
		errors.Is(err, services.ErrInvalidCoupon),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMinimumOrder),
		errors.Is(err, services.ErrNotCancellable),
		errors.Is(err, services.ErrNotRatable),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrAlreadyRated):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
