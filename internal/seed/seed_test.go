package seed

import (
	"context"
	"errors"
	"testing"

	"coupon-service/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponService is a mock implementation of service.CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) CreateCoupon(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) RedeemCoupon(ctx context.Context, code string, req *model.RedeemRequest) (*model.RedeemResponse, error) {
	args := m.Called(ctx, code, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RedeemResponse), args.Error(1)
}

// MockLoader is a mock implementation of Loader.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, source string) ([]model.CouponRequest, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CouponRequest), args.Error(1)
}

func seedDefinition(code string) model.CouponRequest {
	expiration := "2099-12-31T23:59:59Z"
	maxUses := 100
	minValue := 50.0
	discountType := model.DiscountTypePercentual
	discountAmount := 10.0
	public := true
	firstPurchase := false

	return model.CouponRequest{
		Code:           &code,
		ExpirationDate: &expiration,
		MaxUses:        &maxUses,
		MinValue:       &minValue,
		DiscountType:   &discountType,
		DiscountAmount: &discountAmount,
		Public:         &public,
		FirstPurchase:  &firstPurchase,
	}
}

func TestSeeder_Run_ImportsAllDefinitions(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	mockService := new(MockCouponService)
	mockLoader := new(MockLoader)

	definitions := []model.CouponRequest{seedDefinition("CODE1"), seedDefinition("CODE2")}
	mockLoader.On("Load", ctx, "seed.jsonl.gz").Return(definitions, nil)
	mockService.On("CreateCoupon", ctx, mock.AnythingOfType("*model.CouponRequest")).Return(&model.Coupon{}, nil)

	seeder := NewSeeder(mockService, logger)
	result, err := seeder.Run(ctx, mockLoader, []string{"seed.jsonl.gz"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	mockService.AssertNumberOfCalls(t, "CreateCoupon", 2)
}

func TestSeeder_Run_SkipsDuplicatesAndInvalid(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	mockService := new(MockCouponService)
	mockLoader := new(MockLoader)

	existing := seedDefinition("EXISTING")
	invalid := seedDefinition("INVALID")
	fresh := seedDefinition("FRESH")

	mockLoader.On("Load", ctx, "seed.jsonl.gz").Return([]model.CouponRequest{existing, invalid, fresh}, nil)
	mockService.On("CreateCoupon", ctx, mock.MatchedBy(func(req *model.CouponRequest) bool {
		return *req.Code == "EXISTING"
	})).Return(nil, model.ErrDuplicateCode)
	mockService.On("CreateCoupon", ctx, mock.MatchedBy(func(req *model.CouponRequest) bool {
		return *req.Code == "INVALID"
	})).Return(nil, model.ErrInvalidValues)
	mockService.On("CreateCoupon", ctx, mock.MatchedBy(func(req *model.CouponRequest) bool {
		return *req.Code == "FRESH"
	})).Return(&model.Coupon{}, nil)

	seeder := NewSeeder(mockService, logger)
	result, err := seeder.Run(ctx, mockLoader, []string{"seed.jsonl.gz"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Skipped)
}

func TestSeeder_Run_AbortsOnInfrastructureError(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	mockService := new(MockCouponService)
	mockLoader := new(MockLoader)

	mockLoader.On("Load", ctx, "seed.jsonl.gz").Return([]model.CouponRequest{seedDefinition("CODE1")}, nil)
	mockService.On("CreateCoupon", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

	seeder := NewSeeder(mockService, logger)
	result, err := seeder.Run(ctx, mockLoader, []string{"seed.jsonl.gz"})

	require.Error(t, err)
	assert.Equal(t, 0, result.Imported)
}

func TestSeeder_Run_AbortsOnLoaderError(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	mockService := new(MockCouponService)
	mockLoader := new(MockLoader)

	mockLoader.On("Load", ctx, "missing.jsonl.gz").Return(nil, errors.New("no such file"))

	seeder := NewSeeder(mockService, logger)
	_, err := seeder.Run(ctx, mockLoader, []string{"missing.jsonl.gz"})

	require.Error(t, err)
	mockService.AssertNotCalled(t, "CreateCoupon")
}
