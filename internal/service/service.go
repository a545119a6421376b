package service

import (
	"context"

	"coupon-service/internal/model"
)

// CouponService defines operations for coupon management.
type CouponService interface {
	// CreateCoupon validates and stores a new coupon definition.
	CreateCoupon(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)

	// RedeemCoupon applies the coupon identified by code against the
	// purchase described by the request and records the redemption.
	RedeemCoupon(ctx context.Context, code string, req *model.RedeemRequest) (*model.RedeemResponse, error)
}
