package service

import (
	"errors"
	"strings"
	"time"

	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/queue"
	"github.com/shangou-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput 结算输入
type CheckoutInput struct {
	UserID          uint
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerEmail   string
	PaymentMethod   string
	CouponCode      string
}

// OrderService 订单服务。结算在单个事务内完成购物车加锁、
// 优惠券校验与扣减、订单落库和清空购物车，任一步失败整体回滚。
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	couponRepo  repository.CouponRepository
	couponSvc   *CouponService
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, couponRepo repository.CouponRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		couponRepo:  couponRepo,
		couponSvc:   NewCouponService(couponRepo),
		queueClient: queueClient,
	}
}

// Checkout 结算下单
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" ||
		strings.TrimSpace(input.CustomerAddress) == "" {
		return nil, ErrInvalidInput
	}
	if !isValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrPaymentMethodInvalid
	}

	now := time.Now()
	var order *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetOrCreateByUserForUpdate(input.UserID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		// 金额基于加购时的价格快照，不按下单时的实时价格重算
		total := cart.Items.Total()
		discount := models.NewMoneyFromDecimal(decimal.Zero)
		final := total
		var couponID *uint

		if strings.TrimSpace(input.CouponCode) != "" {
			quote, err := s.couponSvc.WithTx(tx).ValidateForUpdate(input.CouponCode, total, now)
			if err != nil {
				return err
			}
			couponRepo := s.couponRepo.WithTx(tx)
			affected, err := couponRepo.ConsumeUsage(quote.Coupon.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCouponUsageLimit
			}
			discount = quote.DiscountAmount
			final = quote.FinalAmount
			couponID = &quote.Coupon.ID
		}

		order = &models.Order{
			UserID:          input.UserID,
			CouponID:        couponID,
			CustomerName:    strings.TrimSpace(input.CustomerName),
			CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
			CustomerAddress: strings.TrimSpace(input.CustomerAddress),
			CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
			TotalAmount:     total,
			DiscountAmount:  discount,
			FinalAmount:     final,
			PaymentMethod:   input.PaymentMethod,
			OrderStatus:     constants.OrderStatusPending,
			OrderedAt:       now,
			UpdatedAt:       now,
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				PriceAtOrder: line.UnitPrice,
				CreatedAt:    now,
			})
		}

		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		return cartRepo.SaveItems(cart.ID, models.CartItems{})
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		logger.Errorw("order_checkout_failed", "user_id", input.UserID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	s.notifyStatusChange(order.ID, order.OrderStatus)

	logger.Infow("order_created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"final_amount", order.FinalAmount.String(),
	)
	return order, nil
}

// GetByIDForUser 获取订单详情，非本人且非管理员不可见
func (s *OrderService) GetByIDForUser(orderID, userID uint, isStaff bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isStaff && order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByUser 获取用户订单列表
func (s *OrderService) ListByUser(userID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.orderRepo.List(repository.OrderListFilter{
		UserID:   &userID,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListAll 管理员获取订单列表
func (s *OrderService) ListAll(status string, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

// CancelByUser 用户取消订单。仅限本人的待处理订单，
// 必须给出合法的取消原因。
func (s *OrderService) CancelByUser(orderID, userID uint, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if !order.CanCancel() {
		return nil, ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrCancelReasonRequired
	}
	if !containsString(constants.CancelReasons, reason) {
		return nil, ErrCancelReasonInvalid
	}

	err = s.orderRepo.UpdateStatus(orderID, constants.OrderStatusCancelled, map[string]interface{}{
		"cancel_reason": reason,
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(orderID, constants.OrderStatusCancelled)
	logger.Infow("order_cancelled_by_user", "order_id", orderID, "user_id", userID, "reason", reason)
	return s.orderRepo.GetByID(orderID)
}

// UpdateStatusByAdmin 管理员更新订单状态，拒绝时可附拒绝原因
func (s *OrderService) UpdateStatusByAdmin(orderID uint, status, rejectReason string) (*models.Order, error) {
	if !containsString(constants.OrderStatuses, status) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	updates := map[string]interface{}{}
	rejectReason = strings.TrimSpace(rejectReason)
	if status == constants.OrderStatusRejected && rejectReason != "" {
		if !containsString(constants.RejectReasons, rejectReason) {
			return nil, ErrRejectReasonInvalid
		}
		updates["reject_reason"] = rejectReason
	}

	if err := s.orderRepo.UpdateStatus(orderID, status, updates); err != nil {
		return nil, err
	}

	if order.OrderStatus != status {
		s.notifyStatusChange(orderID, status)
	}
	logger.Infow("order_status_updated",
		"order_id", orderID,
		"from", order.OrderStatus,
		"to", status,
	)
	return s.orderRepo.GetByID(orderID)
}

// notifyStatusChange 提交后异步通知，失败只记日志不影响主流程。
// 仅下单与取消/送达/拒绝触发通知，中间状态不发信。
func (s *OrderService) notifyStatusChange(orderID uint, status string) {
	if !statusNotifies(status) {
		return
	}
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		logger.Errorw("order_status_email_enqueue_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func statusNotifies(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusCancelled,
		constants.OrderStatusDelivered,
		constants.OrderStatusRejected:
		return true
	}
	return false
}

func isValidPaymentMethod(method string) bool {
	return containsString(constants.PaymentMethods, method)
}

func isBusinessError(err error) bool {
	for _, candidate := range []error{
		ErrCartEmpty,
		ErrCouponNotFound,
		ErrCouponExpired,
		ErrCouponUsageLimit,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
