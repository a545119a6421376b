package repository

import (
	"context"
	"errors"
	"fmt"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

const couponColumns = `id, code, expiration_date, max_uses, min_value, discount_type, discount_amount, public, first_purchase, created_at`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, expiration_date, max_uses, min_value, discount_type, discount_amount, public, first_purchase, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.ExpirationDate,
		coupon.MaxUses,
		coupon.MinValue,
		coupon.DiscountType,
		coupon.DiscountAmount,
		coupon.Public,
		coupon.FirstPurchase,
		coupon.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().Str("code", coupon.Code).Msg("duplicate coupon code")
			return model.ErrDuplicateCode
		}
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().
		Str("coupon_id", coupon.ID.String()).
		Str("code", coupon.Code).
		Msg("coupon created successfully")

	return nil
}

// GetByCode retrieves a coupon by its code.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	return r.scanCoupon(r.pool.QueryRow(ctx, query, code), code)
}

// BeginTx starts a new database transaction.
func (r *couponRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetByCodeForUpdate retrieves a coupon by code with a row-level lock.
func (r *couponRepository) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1 FOR UPDATE`

	return r.scanCoupon(tx.QueryRow(ctx, query, code), code)
}

// CountRedemptions returns the number of redemption records for the coupon.
func (r *couponRepository) CountRedemptions(ctx context.Context, tx pgx.Tx, couponID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM redemptions WHERE coupon_id = $1`

	var count int
	if err := tx.QueryRow(ctx, query, couponID).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to count redemptions")
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	return count, nil
}

// RecordRedemption appends a redemption record.
func (r *couponRepository) RecordRedemption(ctx context.Context, tx pgx.Tx, redemption *model.Redemption) error {
	query := `
		INSERT INTO redemptions (id, coupon_id, used_at)
		VALUES ($1, $2, $3)
	`

	_, err := tx.Exec(ctx, query, redemption.ID, redemption.CouponID, redemption.UsedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_id", redemption.CouponID.String()).
			Msg("failed to record redemption")
		return fmt.Errorf("failed to record redemption: %w", err)
	}

	r.logger.Debug().
		Str("coupon_id", redemption.CouponID.String()).
		Msg("redemption recorded successfully")

	return nil
}

func (r *couponRepository) scanCoupon(row pgx.Row, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.ExpirationDate,
		&c.MaxUses,
		&c.MinValue,
		&c.DiscountType,
		&c.DiscountAmount,
		&c.Public,
		&c.FirstPurchase,
		&c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}
	return &c, nil
}
