package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"coupon-service/internal/handler"
	"coupon-service/internal/model"
	"coupon-service/internal/repository"
	"coupon-service/internal/router"
	"coupon-service/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	couponRepo := repository.NewCouponRepository(testDB.Pool, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	couponHandler := handler.NewCouponHandler(couponService, logger)

	return router.New(couponHandler, logger)
}

func postJSON(t *testing.T, server http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func createPayload(code string) map[string]interface{} {
	return map[string]interface{}{
		"code":            code,
		"expiration_date": time.Now().Add(365 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"max_uses":        100,
		"min_value":       100,
		"discount_type":   "percentual",
		"discount_amount": 30,
		"public":          true,
		"first_purchase":  false,
	}
}

func redeemPayload(totalValue float64, firstPurchase bool) map[string]interface{} {
	return map[string]interface{}{
		"total_value":    totalValue,
		"first_purchase": firstPurchase,
	}
}

func TestCouponAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("POST /api/coupons creates coupon", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := postJSON(t, server, "/api/coupons", createPayload("SUMMER30"))

		assert.Equal(t, http.StatusCreated, w.Code)

		var created model.Coupon
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, "SUMMER30", created.Code)
		assert.Equal(t, 100, created.MaxUses)
	})

	t.Run("POST /api/coupons rejects duplicate code", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := postJSON(t, server, "/api/coupons", createPayload("SUMMER30"))
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, server, "/api/coupons", createPayload("SUMMER30"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Coupon code already exists", resp.Error)
	})

	t.Run("POST /api/coupons rejects missing fields", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		payload := createPayload("PARTIAL")
		delete(payload, "max_uses")

		w := postJSON(t, server, "/api/coupons", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /api/coupons rejects past expiration", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		payload := createPayload("EXPIRED")
		payload["expiration_date"] = "2020-01-01T00:00:00Z"

		w := postJSON(t, server, "/api/coupons", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /api/coupons rejects unknown discount type", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		payload := createPayload("UNKNOWN")
		payload["discount_type"] = "bogus"

		w := postJSON(t, server, "/api/coupons", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /api/coupons/{code} redeems and computes discount", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := postJSON(t, server, "/api/coupons", createPayload("SUMMER30"))
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, server, "/api/coupons/SUMMER30", redeemPayload(150, false))
		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.RedeemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		// 30% of 150
		assert.Equal(t, 45.0, resp.DiscountValue)
	})

	t.Run("POST /api/coupons/{code} returns 404 for unknown code", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := postJSON(t, server, "/api/coupons/MISSING", redeemPayload(150, false))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("POST /api/coupons/{code} rejects totals below the minimum", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := postJSON(t, server, "/api/coupons", createPayload("SUMMER30"))
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, server, "/api/coupons/SUMMER30", redeemPayload(99.99, false))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Purchase total is below the coupon minimum value", resp.Error)
	})

	t.Run("POST /api/coupons/{code} rejects expired coupon", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		SeedCoupon(t, testDB.Pool, &model.Coupon{
			Code:           "OLD",
			ExpirationDate: time.Now().Add(-time.Hour),
			MaxUses:        10,
			MinValue:       50,
			DiscountType:   model.DiscountTypeFixo,
			DiscountAmount: 10,
			Public:         true,
		})

		w := postJSON(t, server, "/api/coupons/OLD", redeemPayload(150, false))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Coupon has expired", resp.Error)
	})

	t.Run("non-public coupon requires a first purchase", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		SeedCoupon(t, testDB.Pool, &model.Coupon{
			Code:           "WELCOME",
			ExpirationDate: time.Now().Add(24 * time.Hour),
			MaxUses:        10,
			MinValue:       50,
			DiscountType:   model.DiscountTypeFixo,
			DiscountAmount: 10,
			Public:         false,
		})

		w := postJSON(t, server, "/api/coupons/WELCOME", redeemPayload(150, false))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = postJSON(t, server, "/api/coupons/WELCOME", redeemPayload(150, true))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("redemptions stop once max_uses is reached", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := SeedCoupon(t, testDB.Pool, &model.Coupon{
			Code:           "TWICE",
			ExpirationDate: time.Now().Add(24 * time.Hour),
			MaxUses:        2,
			MinValue:       50,
			DiscountType:   model.DiscountTypeFixo,
			DiscountAmount: 10,
			Public:         true,
		})

		for i := 0; i < 2; i++ {
			w := postJSON(t, server, "/api/coupons/TWICE", redeemPayload(150, false))
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := postJSON(t, server, "/api/coupons/TWICE", redeemPayload(150, false))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Coupon has no remaining uses", resp.Error)

		assert.Equal(t, 2, CountStoredRedemptions(t, testDB.Pool, c.ID))
	})

	t.Run("GET /health returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// TestConcurrentRedemption_Integration exercises the row lock that serializes
// redemptions: many clients racing for a single-use coupon must produce
// exactly one successful redemption and one redemption row.
func TestConcurrentRedemption_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	c := SeedCoupon(t, testDB.Pool, &model.Coupon{
		Code:           "ONESHOT",
		ExpirationDate: time.Now().Add(24 * time.Hour),
		MaxUses:        1,
		MinValue:       50,
		DiscountType:   model.DiscountTypeFixo,
		DiscountAmount: 10,
		Public:         true,
	})

	const clients = 20

	statuses := make([]int, clients)
	var wg sync.WaitGroup
	wg.Add(clients)

	for i := 0; i < clients; i++ {
		go func(i int) {
			defer wg.Done()

			body, _ := json.Marshal(redeemPayload(150, false))
			req := httptest.NewRequest(http.MethodPost, "/api/coupons/ONESHOT", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			server.ServeHTTP(w, req)
			statuses[i] = w.Code
		}(i)
	}

	wg.Wait()

	succeeded := 0
	rejected := 0
	for _, status := range statuses {
		switch status {
		case http.StatusOK:
			succeeded++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Fatalf("unexpected status %d", status)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, clients-1, rejected)
	assert.Equal(t, 1, CountStoredRedemptions(t, testDB.Pool, c.ID))
}
