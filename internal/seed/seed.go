// Package seed bulk-imports coupon definitions at startup. Definitions are
// read from gzipped JSON-lines files, one coupon definition per line, from
// local disk or S3, and inserted through the coupon service so that every
// seeded coupon passes the same creation-time validation as one created over
// the API.
package seed

import (
	"context"
	"errors"

	"coupon-service/internal/model"
	"coupon-service/internal/service"

	"github.com/rs/zerolog"
)

// Loader defines the interface for reading coupon definition files.
type Loader interface {
	// Load reads a gzipped JSON-lines coupon file and returns the parsed
	// coupon definitions.
	Load(ctx context.Context, source string) ([]model.CouponRequest, error)
}

// Result summarises a seeding run.
type Result struct {
	Imported int
	Skipped  int
}

// Seeder imports coupon definitions through the coupon service.
type Seeder struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(service service.CouponService, logger zerolog.Logger) *Seeder {
	return &Seeder{
		service: service,
		logger:  logger.With().Str("component", "seeder").Logger(),
	}
}

// Run loads every source and imports its definitions. Duplicate codes and
// definitions that fail creation-time validation are skipped and counted,
// not treated as failures, so re-running the seed against a populated
// database is harmless. Infrastructure errors abort the run.
func (s *Seeder) Run(ctx context.Context, loader Loader, sources []string) (Result, error) {
	var result Result

	for _, source := range sources {
		definitions, err := loader.Load(ctx, source)
		if err != nil {
			return result, err
		}

		for _, def := range definitions {
			req := def
			_, err := s.service.CreateCoupon(ctx, &req)
			if err != nil {
				var domainErr *model.DomainError
				if errors.As(err, &domainErr) {
					s.logger.Warn().
						Str("source", source).
						Str("reason", domainErr.Code).
						Msg("skipping seed definition")
					result.Skipped++
					continue
				}
				return result, err
			}
			result.Imported++
		}

		s.logger.Info().
			Str("source", source).
			Int("definitions", len(definitions)).
			Msg("seed file processed")
	}

	s.logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("seeding completed")

	return result, nil
}
