package service

import (
	"context"
	"fmt"
	"time"

	"coupon-service/internal/coupon"
	"coupon-service/internal/model"
	"coupon-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// expirationFormats are the accepted layouts for the expiration_date field.
// RFC 3339 is preferred; the second form accepts ISO-8601 timestamps without
// a zone offset, which are interpreted as UTC.
var expirationFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// couponService implements CouponService.
type couponService struct {
	repo   repository.CouponRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewCouponService creates a new coupon service.
func NewCouponService(repo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		repo:   repo,
		logger: logger.With().Str("service", "coupon").Logger(),
		now:    time.Now,
	}
}

// CreateCoupon validates and stores a new coupon definition.
func (s *couponService) CreateCoupon(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	if !isComplete(req) {
		return nil, model.ErrIncompleteData
	}

	existing, err := s.repo.GetByCode(ctx, *req.Code)
	if err != nil {
		s.logger.Error().Err(err).Str("code", *req.Code).Msg("failed to check for existing coupon")
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("code", *req.Code).Msg("coupon code already exists")
		return nil, model.ErrDuplicateCode
	}

	expiration, err := parseExpiration(*req.ExpirationDate)
	if err != nil {
		s.logger.Debug().
			Str("code", *req.Code).
			Str("expiration_date", *req.ExpirationDate).
			Msg("unparseable expiration date")
		return nil, model.ErrInvalidExpirationDate
	}

	now := s.now()
	c := &model.Coupon{
		ID:             uuid.New(),
		Code:           *req.Code,
		ExpirationDate: expiration,
		MaxUses:        *req.MaxUses,
		MinValue:       *req.MinValue,
		DiscountType:   *req.DiscountType,
		DiscountAmount: *req.DiscountAmount,
		Public:         *req.Public,
		FirstPurchase:  *req.FirstPurchase,
		CreatedAt:      now,
	}

	if err := coupon.ValidateDefinition(c, now); err != nil {
		s.logger.Debug().Str("code", c.Code).Err(err).Msg("coupon definition rejected")
		return nil, err
	}

	// The repository maps a unique violation to ErrDuplicateCode, so a
	// concurrent create racing past the lookup above still fails cleanly.
	if err := s.repo.Create(ctx, c); err != nil {
		if err == model.ErrDuplicateCode {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info().
		Str("coupon_id", c.ID.String()).
		Str("code", c.Code).
		Str("discount_type", c.DiscountType).
		Msg("coupon created successfully")

	return c, nil
}

// RedeemCoupon applies the coupon identified by code against the purchase.
// The lookup, the exhaustion check and the redemption insert run in one
// transaction with the coupon row locked, so concurrent redemptions of the
// same coupon serialize and the redemption count can never exceed max_uses.
func (s *couponService) RedeemCoupon(ctx context.Context, code string, req *model.RedeemRequest) (*model.RedeemResponse, error) {
	if req == nil || req.TotalValue == nil || req.FirstPurchase == nil {
		return nil, model.ErrIncompleteData
	}
	if *req.TotalValue <= 0 {
		return nil, model.ErrInvalidValues
	}

	purchase := coupon.PurchaseContext{
		TotalValue:    *req.TotalValue,
		FirstPurchase: *req.FirstPurchase,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}
	// Rollback is a no-op once the transaction has committed.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	c, err := s.repo.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}
	if c == nil {
		s.logger.Debug().Str("code", code).Msg("coupon not found")
		return nil, model.ErrCouponNotFound
	}

	redemptions, err := s.repo.CountRedemptions(ctx, tx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	now := s.now()
	if err := coupon.Evaluate(c, redemptions, purchase, now); err != nil {
		s.logger.Debug().
			Str("code", code).
			Float64("total_value", purchase.TotalValue).
			Err(err).
			Msg("coupon rejected")
		return nil, err
	}

	discount := coupon.Discount(c, purchase.TotalValue)

	redemption := &model.Redemption{
		ID:       uuid.New(),
		CouponID: c.ID,
		UsedAt:   now,
	}
	if err := s.repo.RecordRedemption(ctx, tx, redemption); err != nil {
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to commit redemption")
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	s.logger.Info().
		Str("coupon_id", c.ID.String()).
		Str("code", code).
		Float64("discount_value", discount).
		Msg("coupon redeemed successfully")

	return &model.RedeemResponse{
		DiscountValue: discount,
		CouponID:      c.ID,
	}, nil
}

// isComplete reports whether every required field of the create request is
// present and non-null.
func isComplete(req *model.CouponRequest) bool {
	return req != nil &&
		req.Code != nil && *req.Code != "" &&
		req.ExpirationDate != nil &&
		req.MaxUses != nil &&
		req.MinValue != nil &&
		req.DiscountType != nil &&
		req.DiscountAmount != nil &&
		req.Public != nil &&
		req.FirstPurchase != nil
}

// parseExpiration parses an expiration timestamp in any accepted layout.
func parseExpiration(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range expirationFormats {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
