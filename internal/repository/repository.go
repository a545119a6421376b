package repository

import (
	"context"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CouponRepository defines the interface for coupon and redemption data
// access operations.
type CouponRepository interface {
	// Create inserts a new coupon. Returns model.ErrDuplicateCode when a
	// coupon with the same code already exists.
	Create(ctx context.Context, coupon *model.Coupon) error

	// GetByCode retrieves a coupon by its code. Returns (nil, nil) when no
	// coupon exists for the code.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByCodeForUpdate retrieves a coupon by code within the transaction,
	// taking a row-level lock so that concurrent redemptions of the same
	// coupon serialize. Returns (nil, nil) when no coupon exists.
	GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error)

	// CountRedemptions returns the number of redemption records for the
	// coupon within the transaction.
	CountRedemptions(ctx context.Context, tx pgx.Tx, couponID uuid.UUID) (int, error)

	// RecordRedemption appends a redemption record within the transaction.
	RecordRedemption(ctx context.Context, tx pgx.Tx, redemption *model.Redemption) error
}
