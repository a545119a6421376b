package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses. Codes are stable so that API
// consumers can branch on them regardless of message wording.
const (
	ErrCodeIncompleteData        = "INCOMPLETE_DATA"
	ErrCodeDuplicateCode         = "DUPLICATE_CODE"
	ErrCodeInvalidExpirationDate = "INVALID_EXPIRATION_DATE"
	ErrCodeInvalidValues         = "INVALID_VALUES"
	ErrCodeInvalidDiscountType   = "INVALID_DISCOUNT_TYPE"
	ErrCodeCouponNotFound        = "COUPON_NOT_FOUND"
	ErrCodeCouponExpired         = "COUPON_EXPIRED"
	ErrCodeCouponExhausted       = "COUPON_EXHAUSTED"
	ErrCodeMinimumValueNotMet    = "MINIMUM_VALUE_NOT_MET"
	ErrCodeNotForGeneralPublic   = "NOT_FOR_GENERAL_PUBLIC"
	ErrCodeFirstPurchaseOnly     = "FIRST_PURCHASE_ONLY"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// DomainError represents a business rule violation surfaced to the caller.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Messages are fixed per error so that distinct
// failure reasons always map to distinct responses.
var (
	ErrIncompleteData        = NewDomainError(ErrCodeIncompleteData, "Required fields are missing")
	ErrDuplicateCode         = NewDomainError(ErrCodeDuplicateCode, "Coupon code already exists")
	ErrInvalidExpirationDate = NewDomainError(ErrCodeInvalidExpirationDate, "Expiration date is invalid or not in the future")
	ErrInvalidValues         = NewDomainError(ErrCodeInvalidValues, "Numeric values must be greater than zero")
	ErrInvalidDiscountType   = NewDomainError(ErrCodeInvalidDiscountType, "Discount type must be percentual or fixo")
	ErrCouponNotFound        = NewDomainError(ErrCodeCouponNotFound, "Coupon not found")
	ErrCouponExpired         = NewDomainError(ErrCodeCouponExpired, "Coupon has expired")
	ErrCouponExhausted       = NewDomainError(ErrCodeCouponExhausted, "Coupon has no remaining uses")
	ErrMinimumValueNotMet    = NewDomainError(ErrCodeMinimumValueNotMet, "Purchase total is below the coupon minimum value")
	ErrNotForGeneralPublic   = NewDomainError(ErrCodeNotForGeneralPublic, "Coupon is not available to the general public")
	ErrFirstPurchaseOnly     = NewDomainError(ErrCodeFirstPurchaseOnly, "Coupon is valid only for a first purchase")
)
