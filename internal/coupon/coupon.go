// Package coupon holds the coupon decision logic: whether a coupon may be
// redeemed against a purchase, how much it is worth, and whether a coupon
// definition is acceptable at creation time. All functions are pure; the
// caller supplies the coupon snapshot, the current redemption count and the
// clock, and persistence stays outside this package.
package coupon

import (
	"time"

	"coupon-service/internal/model"
)

// PurchaseContext carries the facts about a purchase that a redemption is
// evaluated against.
type PurchaseContext struct {
	TotalValue    float64
	FirstPurchase bool
}

// Evaluate decides whether the coupon may be redeemed against the purchase.
// It returns nil when the coupon is valid, or the domain error for the first
// failing check. Checks run in a fixed order so that each failure reason is
// stable for API consumers: expiration, exhaustion, minimum value, public
// restriction, first-purchase restriction.
func Evaluate(c *model.Coupon, redemptions int, purchase PurchaseContext, now time.Time) error {
	if !now.Before(c.ExpirationDate) {
		return model.ErrCouponExpired
	}
	if redemptions >= c.MaxUses {
		return model.ErrCouponExhausted
	}
	if purchase.TotalValue < c.MinValue {
		return model.ErrMinimumValueNotMet
	}
	if !c.Public && !purchase.FirstPurchase {
		return model.ErrNotForGeneralPublic
	}
	if c.FirstPurchase && !purchase.FirstPurchase {
		return model.ErrFirstPurchaseOnly
	}
	return nil
}

// Discount computes the discount value of the coupon for the given purchase
// total. Unrecognised discount types yield zero rather than an error; the
// recognised-type check belongs at creation time and this is only a runtime
// fallback for rows that predate it.
func Discount(c *model.Coupon, totalValue float64) float64 {
	switch c.DiscountType {
	case model.DiscountTypePercentual:
		return totalValue * c.DiscountAmount / 100
	case model.DiscountTypeFixo:
		return c.DiscountAmount
	default:
		return 0
	}
}

// ValidateDefinition checks a coupon definition at creation time. The
// expiration date must be strictly in the future, the numeric fields must be
// strictly positive, and the discount type must be recognised.
func ValidateDefinition(c *model.Coupon, now time.Time) error {
	if !c.ExpirationDate.After(now) {
		return model.ErrInvalidExpirationDate
	}
	if c.MaxUses <= 0 || c.MinValue <= 0 || c.DiscountAmount <= 0 {
		return model.ErrInvalidValues
	}
	if c.DiscountType != model.DiscountTypePercentual && c.DiscountType != model.DiscountTypeFixo {
		return model.ErrInvalidDiscountType
	}
	return nil
}
