package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schema holds the DDL for the coupon tables. Statements are idempotent so
// the bootstrap can run on every startup.
const schema = `
	CREATE TABLE IF NOT EXISTS coupons (
		id UUID PRIMARY KEY,
		code TEXT UNIQUE NOT NULL,
		expiration_date TIMESTAMPTZ NOT NULL,
		max_uses INT NOT NULL,
		min_value DOUBLE PRECISION NOT NULL,
		discount_type TEXT NOT NULL,
		discount_amount DOUBLE PRECISION NOT NULL,
		public BOOLEAN NOT NULL,
		first_purchase BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS redemptions (
		id UUID PRIMARY KEY,
		coupon_id UUID NOT NULL REFERENCES coupons(id),
		used_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_redemptions_coupon_id ON redemptions(coupon_id);
`

// CreateSchema creates the coupon tables if they do not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info().Msg("database schema ready")

	return nil
}
