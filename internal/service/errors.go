package service

import "errors"

// 业务错误定义，处理层通过 errors.Is 映射为 HTTP 状态码
var (
	ErrInvalidInput = errors.New("invalid input")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductOutOfStock   = errors.New("product out of stock")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrReviewExists        = errors.New("review already exists")
	ErrReviewRatingInvalid = errors.New("review rating out of range")

	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrQuantityExceeded = errors.New("quantity exceeds per item limit")
	ErrQuantityInvalid  = errors.New("quantity must be positive")

	ErrCouponNotFound         = errors.New("coupon not found")
	ErrCouponExpired          = errors.New("coupon expired")
	ErrCouponUsageLimit       = errors.New("coupon usage limit reached")
	ErrCouponCodeExists       = errors.New("coupon code already exists")
	ErrFlashSaleNotFound      = errors.New("flash sale not found")
	ErrFlashSaleWindowInvalid = errors.New("flash sale window invalid")

	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderCreateFailed      = errors.New("order create failed")
	ErrOrderTransitionInvalid = errors.New("order status transition not allowed")
	ErrForbidden              = errors.New("operation not permitted")
	ErrCancelReasonRequired   = errors.New("cancel reason required")
	ErrCancelReasonInvalid    = errors.New("cancel reason invalid")
	ErrRejectReasonInvalid    = errors.New("reject reason invalid")
	ErrPaymentMethodInvalid   = errors.New("payment method invalid")
	ErrOrderStatusInvalid     = errors.New("order status invalid")

	ErrEmailDisabled = errors.New("email service disabled")
)
