package services

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/food-order-app/models"
)

// PricingConfig holds the money knobs of the pricing engine. Values come
// from the environment (see config.LoadPricing); defaults match the ones
// used across the tests.
type PricingConfig struct {
	TaxRate               decimal.Decimal // e.g. 0.08 for 8%
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal // fee waived at or above this subtotal
	MinimumOrder          decimal.Decimal // placeOrder rejects below this grand total
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRate:               decimal.NewFromFloat(0.08),
		DeliveryFee:           decimal.NewFromFloat(3.00),
		FreeDeliveryThreshold: decimal.NewFromFloat(25.00),
		MinimumOrder:          decimal.NewFromFloat(10.00),
	}
}

// ComputeTotals prices the cart: subtotal, tax, delivery fee and coupon
// discount, all rounded to 2dp. Pure function over the cart snapshot; the
// discount is capped so the grand total never goes negative.
func ComputeTotals(cart *models.Cart, cfg PricingConfig) models.PricedTotals {
	zero := decimal.Zero
	if cart.IsEmpty() {
		return models.PricedTotals{
			Subtotal:       zero,
			TaxAmount:      zero,
			DeliveryFee:    zero,
			DiscountAmount: zero,
			GrandTotal:     zero,
		}
	}

	subtotal := zero
	for _, item := range cart.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	fee := cfg.DeliveryFee
	if subtotal.GreaterThanOrEqual(cfg.FreeDeliveryThreshold) {
		fee = zero
	}

	discount := zero
	if cart.HasCoupon() {
		switch *cart.CouponType {
		case models.DiscountPercent:
			discount = subtotal.Mul(cart.CouponValue.Div(decimal.NewFromInt(100))).Round(2)
		case models.DiscountFlat:
			discount = *cart.CouponValue
		}
		// Cap so the customer never gets money back.
		payable := subtotal.Add(tax).Add(fee)
		if discount.GreaterThan(payable) {
			discount = payable
		}
	}

	grand := subtotal.Add(tax).Add(fee).Sub(discount)
	if grand.IsNegative() {
		grand = zero
	}

	return models.PricedTotals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DeliveryFee:    fee,
		DiscountAmount: discount,
		GrandTotal:     grand,
	}
}
