package service

import (
	"errors"
	"strings"

	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/repository"
)

// NotificationService 订单状态通知服务，由队列消费侧调用
type NotificationService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	emailSvc  *EmailService
}

// NewNotificationService 创建通知服务
func NewNotificationService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, emailSvc *EmailService) *NotificationService {
	return &NotificationService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

// SendOrderStatusEmail 发送订单状态邮件。收件人优先订单收件邮箱，
// 缺失时回退到下单用户邮箱。邮件服务未启用时静默跳过。
func (s *NotificationService) SendOrderStatusEmail(orderID uint, status string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("order_status_email_order_missing", "order_id", orderID, "status", status)
		return nil
	}

	toEmail := strings.TrimSpace(order.CustomerEmail)
	if toEmail == "" {
		user, err := s.userRepo.GetByID(order.UserID)
		if err != nil {
			return err
		}
		if user != nil {
			toEmail = user.Email
		}
	}
	if toEmail == "" {
		logger.Warnw("order_status_email_no_recipient", "order_id", orderID, "status", status)
		return nil
	}

	err = s.emailSvc.SendOrderStatusEmail(toEmail, OrderStatusEmailInput{
		OrderID:      order.ID,
		Status:       status,
		FinalAmount:  order.FinalAmount,
		CustomerName: order.CustomerName,
		CancelReason: order.CancelReason,
		RejectReason: order.RejectReason,
	})
	if errors.Is(err, ErrEmailDisabled) {
		logger.Warnw("order_status_email_disabled", "order_id", orderID, "status", status)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Infow("order_status_email_sent", "order_id", orderID, "status", status)
	return nil
}
