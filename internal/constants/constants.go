package constants

// 订单状态常量
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRejected   = "REJECTED"
)

// OrderStatuses 全部订单状态
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRejected,
}

// 支付方式常量
const (
	PaymentMethodCOD          = "COD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCreditCard   = "CREDIT_CARD"
)

// PaymentMethods 全部支付方式
var PaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodBankTransfer,
	PaymentMethodCreditCard,
}

// 用户取消订单原因常量
const (
	CancelReasonChangedMind      = "CHANGED_MIND"
	CancelReasonOrderedByMistake = "ORDERED_BY_MISTAKE"
	CancelReasonFoundCheaper     = "FOUND_CHEAPER"
	CancelReasonDeliveryTooSlow  = "DELIVERY_TOO_SLOW"
	CancelReasonOther            = "OTHER"
)

// CancelReasons 全部取消原因
var CancelReasons = []string{
	CancelReasonChangedMind,
	CancelReasonOrderedByMistake,
	CancelReasonFoundCheaper,
	CancelReasonDeliveryTooSlow,
	CancelReasonOther,
}

// 管理员拒绝订单原因常量
const (
	RejectReasonOutOfStock      = "OUT_OF_STOCK"
	RejectReasonSuspiciousOrder = "SUSPICIOUS_ORDER"
	RejectReasonPaymentIssue    = "PAYMENT_ISSUE"
	RejectReasonAddressIssue    = "ADDRESS_ISSUE"
	RejectReasonOther           = "OTHER"
)

// RejectReasons 全部拒绝原因
var RejectReasons = []string{
	RejectReasonOutOfStock,
	RejectReasonSuspiciousOrder,
	RejectReasonPaymentIssue,
	RejectReasonAddressIssue,
	RejectReasonOther,
}

// 优惠券校验状态常量
const (
	CouponStatusValid             = "VALID"
	CouponStatusExpired           = "EXPIRED"
	CouponStatusUsageLimitReached = "USAGE_LIMIT_REACHED"
)

// 闪购活动派生状态常量
const (
	FlashSaleStatusInactive = "INACTIVE"
	FlashSaleStatusUpcoming = "UPCOMING"
	FlashSaleStatusActive   = "ACTIVE"
	FlashSaleStatusExpired  = "EXPIRED"
)

// 购物车默认限制
const (
	DefaultMaxQuantityPerItem = 100
)

// 队列与任务常量
const (
	QueueDefault             = "default"
	TaskOrderStatusEmail     = "order:status_email"
	TaskMonthlyRevenueReport = "report:monthly_revenue"
)
