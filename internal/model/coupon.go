package model

import (
	"time"

	"github.com/google/uuid"
)

// Recognised discount types.
const (
	DiscountTypePercentual = "percentual"
	DiscountTypeFixo       = "fixo"
)

// Coupon represents a discount coupon definition. The definition is
// immutable after creation; usage is tracked through redemption records.
type Coupon struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	ExpirationDate time.Time `json:"expiration_date" db:"expiration_date"`
	MaxUses        int       `json:"max_uses" db:"max_uses"`
	MinValue       float64   `json:"min_value" db:"min_value"`
	DiscountType   string    `json:"discount_type" db:"discount_type"`
	DiscountAmount float64   `json:"discount_amount" db:"discount_amount"`
	Public         bool      `json:"public" db:"public"`
	FirstPurchase  bool      `json:"first_purchase" db:"first_purchase"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Redemption records a successful application of a coupon to a purchase.
// Rows are append-only.
type Redemption struct {
	ID       uuid.UUID `json:"id" db:"id"`
	CouponID uuid.UUID `json:"coupon_id" db:"coupon_id"`
	UsedAt   time.Time `json:"used_at" db:"used_at"`
}

// CouponRequest represents the request payload for creating a coupon.
// Fields are pointers so that absent and null values can be told apart
// from zero values.
type CouponRequest struct {
	Code           *string  `json:"code"`
	ExpirationDate *string  `json:"expiration_date"`
	MaxUses        *int     `json:"max_uses"`
	MinValue       *float64 `json:"min_value"`
	DiscountType   *string  `json:"discount_type"`
	DiscountAmount *float64 `json:"discount_amount"`
	Public         *bool    `json:"public"`
	FirstPurchase  *bool    `json:"first_purchase"`
}

// RedeemRequest represents the request payload for redeeming a coupon.
type RedeemRequest struct {
	TotalValue    *float64 `json:"total_value"`
	FirstPurchase *bool    `json:"first_purchase"`
}

// RedeemResponse represents the response payload for a successful redemption.
type RedeemResponse struct {
	DiscountValue float64   `json:"discount_value"`
	CouponID      uuid.UUID `json:"coupon_id"`
}
