package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupNotificationService(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	svc := NewNotificationService(
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		NewEmailService(nil),
	)
	return svc, db
}

func TestSendOrderStatusEmailSkipsWhenDisabled(t *testing.T) {
	svc, db := setupNotificationService(t)
	order := models.Order{
		UserID:        1,
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		OrderStatus:   constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		OrderedAt:     time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 邮件服务未启用时不视为失败，避免任务无限重试
	if err := svc.SendOrderStatusEmail(order.ID, constants.OrderStatusPending); err != nil {
		t.Fatalf("expected nil for disabled email service, got: %v", err)
	}
}

func TestSendOrderStatusEmailMissingOrder(t *testing.T) {
	svc, _ := setupNotificationService(t)
	if err := svc.SendOrderStatusEmail(999, constants.OrderStatusPending); err != nil {
		t.Fatalf("expected nil for missing order, got: %v", err)
	}
}

func TestBuildOrderStatusContent(t *testing.T) {
	base := OrderStatusEmailInput{
		OrderID:      7,
		CustomerName: "Alice",
		FinalAmount:  models.NewMoneyFromDecimal(decimal.RequireFromString("16.00")),
	}

	base.Status = constants.OrderStatusPending
	subject, body, ok := buildOrderStatusContent(base, "USD")
	if !ok || !strings.Contains(subject, "placed") || !strings.Contains(body, "16.00 USD") {
		t.Fatalf("unexpected pending content: %s / %s", subject, body)
	}

	base.Status = constants.OrderStatusCancelled
	base.CancelReason = constants.CancelReasonChangedMind
	subject, body, ok = buildOrderStatusContent(base, "USD")
	if !ok || !strings.Contains(subject, "cancelled") || !strings.Contains(body, constants.CancelReasonChangedMind) {
		t.Fatalf("unexpected cancelled content: %s / %s", subject, body)
	}

	base.Status = constants.OrderStatusRejected
	base.RejectReason = constants.RejectReasonOutOfStock
	subject, body, ok = buildOrderStatusContent(base, "USD")
	if !ok || !strings.Contains(subject, "rejected") || !strings.Contains(body, constants.RejectReasonOutOfStock) {
		t.Fatalf("unexpected rejected content: %s / %s", subject, body)
	}

	base.Status = constants.OrderStatusDelivered
	subject, body, ok = buildOrderStatusContent(base, "USD")
	if !ok || !strings.Contains(subject, "delivered") {
		t.Fatalf("unexpected delivered content: %s / %s", subject, body)
	}
}

func TestIntermediateStatusesDoNotNotify(t *testing.T) {
	// 中间状态既不生成邮件内容，也不触发通知入队
	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
	} {
		if statusNotifies(status) {
			t.Fatalf("expected %s not to notify", status)
		}
		if _, _, ok := buildOrderStatusContent(OrderStatusEmailInput{OrderID: 7, Status: status}, "USD"); ok {
			t.Fatalf("expected no email content for %s", status)
		}
	}
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusCancelled,
		constants.OrderStatusDelivered,
		constants.OrderStatusRejected,
	} {
		if !statusNotifies(status) {
			t.Fatalf("expected %s to notify", status)
		}
	}
}
