package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewCouponRepository(db),
		nil,
	)
	return svc, db
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, items models.CartItems) {
	t.Helper()
	cart := models.Cart{UserID: userID, Items: items}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
}

func checkoutInput(userID uint, couponCode string) CheckoutInput {
	return CheckoutInput{
		UserID:          userID,
		CustomerName:    "Alice",
		CustomerPhone:   "13800000000",
		CustomerAddress: "1 Main Street",
		CustomerEmail:   "alice@example.com",
		PaymentMethod:   constants.PaymentMethodCOD,
		CouponCode:      couponCode,
	}
}

func testCartItems(t *testing.T) models.CartItems {
	t.Helper()
	return models.CartItems{
		{ProductID: 1, Quantity: 2, UnitPrice: mustMoney(t, "10.00"), Name: "mug"},
		{ProductID: 2, Quantity: 1, UnitPrice: mustMoney(t, "14.99"), Name: "earphones"},
	}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	svc, db := setupOrderService(t)
	seedCart(t, db, 1, testCartItems(t))

	order, err := svc.Checkout(checkoutInput(1, ""))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.OrderStatus != constants.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.OrderStatus)
	}
	if order.TotalAmount.String() != "34.99" || order.FinalAmount.String() != "34.99" {
		t.Fatalf("unexpected amounts: %s / %s", order.TotalAmount.String(), order.FinalAmount.String())
	}

	var items []models.OrderItem
	if err := db.Where("order_id = ?", order.ID).Order("product_id").Find(&items).Error; err != nil {
		t.Fatalf("load order items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(items))
	}
	if items[0].PriceAtOrder.String() != "10.00" || items[1].PriceAtOrder.String() != "14.99" {
		t.Fatalf("unexpected price snapshots: %s / %s", items[0].PriceAtOrder.String(), items[1].PriceAtOrder.String())
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", 1).First(&cart).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(cart.Items))
	}
}

func TestCheckoutAppliesCouponAndConsumesUsage(t *testing.T) {
	svc, db := setupOrderService(t)
	seedCart(t, db, 1, models.CartItems{
		{ProductID: 1, Quantity: 2, UnitPrice: mustMoney(t, "10.00"), Name: "mug"},
	})
	limit := 5
	coupon := models.Coupon{
		Code:              "TEST20",
		DiscountPercent:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		UsageLimit:        &limit,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	order, err := svc.Checkout(checkoutInput(1, "TEST20"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.DiscountAmount.String() != "4.00" || order.FinalAmount.String() != "16.00" {
		t.Fatalf("unexpected amounts: %s / %s", order.DiscountAmount.String(), order.FinalAmount.String())
	}
	if order.CouponID == nil || *order.CouponID != coupon.ID {
		t.Fatalf("expected coupon %d on order, got %v", coupon.ID, order.CouponID)
	}

	var updated models.Coupon
	if err := db.First(&updated, coupon.ID).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if updated.TimesUsed != 1 {
		t.Fatalf("expected times_used 1, got %d", updated.TimesUsed)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := setupOrderService(t)
	if _, err := svc.Checkout(checkoutInput(1, "")); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected empty cart error, got: %v", err)
	}
}

func TestCheckoutUnknownCouponRollsBack(t *testing.T) {
	svc, db := setupOrderService(t)
	seedCart(t, db, 1, testCartItems(t))

	if _, err := svc.Checkout(checkoutInput(1, "NOPE")); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected coupon not found, got: %v", err)
	}

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Fatalf("expected no orders, got %d", orderCount)
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", 1).First(&cart).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected cart intact, got %d items", len(cart.Items))
	}
}

func TestCheckoutExhaustedCouponRollsBack(t *testing.T) {
	svc, db := setupOrderService(t)
	seedCart(t, db, 1, testCartItems(t))
	limit := 1
	coupon := models.Coupon{
		Code:            "MAXED",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UsageLimit:      &limit,
		TimesUsed:       1,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	if _, err := svc.Checkout(checkoutInput(1, "MAXED")); !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected usage limit error, got: %v", err)
	}

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Fatalf("expected no orders, got %d", orderCount)
	}
	var updated models.Coupon
	if err := db.First(&updated, coupon.ID).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if updated.TimesUsed != 1 {
		t.Fatalf("expected times_used unchanged, got %d", updated.TimesUsed)
	}
}

func TestCheckoutInputValidation(t *testing.T) {
	svc, db := setupOrderService(t)
	seedCart(t, db, 1, testCartItems(t))

	input := checkoutInput(1, "")
	input.PaymentMethod = "CASH"
	if _, err := svc.Checkout(input); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("expected invalid payment method, got: %v", err)
	}

	input = checkoutInput(1, "")
	input.CustomerAddress = "   "
	if _, err := svc.Checkout(input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got: %v", err)
	}
}

func TestCancelByUserGating(t *testing.T) {
	svc, db := setupOrderService(t)
	order := models.Order{
		UserID:        1,
		CustomerName:  "Alice",
		OrderStatus:   constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		OrderedAt:     time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.CancelByUser(order.ID, 2, constants.CancelReasonChangedMind); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for other user, got: %v", err)
	}
	if _, err := svc.CancelByUser(order.ID, 1, ""); !errors.Is(err, ErrCancelReasonRequired) {
		t.Fatalf("expected reason required, got: %v", err)
	}
	if _, err := svc.CancelByUser(order.ID, 1, "JUST_BECAUSE"); !errors.Is(err, ErrCancelReasonInvalid) {
		t.Fatalf("expected invalid reason, got: %v", err)
	}

	cancelled, err := svc.CancelByUser(order.ID, 1, constants.CancelReasonChangedMind)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.OrderStatus != constants.OrderStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.OrderStatus)
	}
	if cancelled.CancelReason != constants.CancelReasonChangedMind {
		t.Fatalf("expected cancel reason saved, got %s", cancelled.CancelReason)
	}

	// 非待处理状态不可再取消
	if _, err := svc.CancelByUser(order.ID, 1, constants.CancelReasonOther); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}
}

func TestUpdateStatusByAdmin(t *testing.T) {
	svc, db := setupOrderService(t)
	order := models.Order{
		UserID:        1,
		CustomerName:  "Alice",
		OrderStatus:   constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		OrderedAt:     time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.UpdateStatusByAdmin(order.ID, "UNKNOWN", ""); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid status, got: %v", err)
	}
	if _, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusRejected, "BAD_MOOD"); !errors.Is(err, ErrRejectReasonInvalid) {
		t.Fatalf("expected invalid reject reason, got: %v", err)
	}

	updated, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusConfirmed, "")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.OrderStatus != constants.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", updated.OrderStatus)
	}

	// 管理员不受待处理限制
	updated, err = svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusRejected, constants.RejectReasonOutOfStock)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if updated.OrderStatus != constants.OrderStatusRejected || updated.RejectReason != constants.RejectReasonOutOfStock {
		t.Fatalf("expected rejected with reason, got %s / %s", updated.OrderStatus, updated.RejectReason)
	}
}

func TestGetByIDForUserVisibility(t *testing.T) {
	svc, db := setupOrderService(t)
	order := models.Order{
		UserID:        1,
		CustomerName:  "Alice",
		OrderStatus:   constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		OrderedAt:     time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.GetByIDForUser(order.ID, 1, false); err != nil {
		t.Fatalf("owner access failed: %v", err)
	}
	if _, err := svc.GetByIDForUser(order.ID, 2, false); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for other user, got: %v", err)
	}
	if _, err := svc.GetByIDForUser(order.ID, 2, true); err != nil {
		t.Fatalf("staff access failed: %v", err)
	}
}
