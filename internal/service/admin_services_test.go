package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupAdminServices(t *testing.T) (*CouponAdminService, *FlashSaleAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_services_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Coupon{}, &models.FlashSale{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	couponRepo := repository.NewCouponRepository(db)
	flashSaleRepo := repository.NewFlashSaleRepository(db)
	pricing := NewPricingService(flashSaleRepo, 0)
	return NewCouponAdminService(couponRepo),
		NewFlashSaleAdminService(flashSaleRepo, repository.NewProductRepository(db), pricing),
		db
}

func TestCouponAdminCreateRejectsDuplicateCode(t *testing.T) {
	couponSvc, _, _ := setupAdminServices(t)
	input := CouponAdminInput{
		Code:            "promo10",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}

	created, err := couponSvc.Create(input)
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	if created.Code != "PROMO10" {
		t.Fatalf("expected uppercased code, got %s", created.Code)
	}

	if _, err := couponSvc.Create(CouponAdminInput{
		Code:            "PROMO10",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
	}); !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("expected duplicate code error, got: %v", err)
	}
}

func TestCouponAdminInputValidation(t *testing.T) {
	couponSvc, _, _ := setupAdminServices(t)

	cases := []CouponAdminInput{
		{Code: "BAD", DiscountPercent: models.NewMoneyFromDecimal(decimal.Zero)},
		{Code: "BAD", DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(101))},
		{Code: "", DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10))},
	}
	for i, input := range cases {
		if _, err := couponSvc.Create(input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got: %v", i, err)
		}
	}

	negativeLimit := -1
	if _, err := couponSvc.Create(CouponAdminInput{
		Code:            "BAD",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UsageLimit:      &negativeLimit,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid usage limit, got: %v", err)
	}
}

func TestFlashSaleAdminWindowValidation(t *testing.T) {
	_, saleSvc, _ := setupAdminServices(t)
	now := time.Now()

	input := FlashSaleAdminInput{
		Name:            "bad-window",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		StartDate:       now.Add(time.Hour),
		EndDate:         now,
		IsActive:        true,
	}
	if _, err := saleSvc.Create(context.Background(), input); !errors.Is(err, ErrFlashSaleWindowInvalid) {
		t.Fatalf("expected invalid window error, got: %v", err)
	}
}

func TestFlashSaleAdminCreateDisabledSale(t *testing.T) {
	_, saleSvc, db := setupAdminServices(t)
	now := time.Now()
	product := createTestProduct(t, db, "watch", "199.00")
	ctx := context.Background()

	sale, err := saleSvc.Create(ctx, FlashSaleAdminInput{
		Name:            "paused-sale",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		IsActive:        false,
		ProductIDs:      []uint{product.ID},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	// 禁用状态必须原样落库，不能被默认值覆盖成启用
	var stored models.FlashSale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("load sale failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("expected disabled sale persisted inactive")
	}

	pricing := NewPricingService(repository.NewFlashSaleRepository(db), 0)
	priced, err := pricing.PriceProduct(ctx, product, now)
	if err != nil {
		t.Fatalf("price product failed: %v", err)
	}
	if priced.FlashSale != nil || priced.EffectivePrice.String() != "199.00" {
		t.Fatalf("expected full price without sale, got %+v", priced)
	}
}

func TestFlashSaleAdminCreateAndReplaceProducts(t *testing.T) {
	_, saleSvc, db := setupAdminServices(t)
	now := time.Now()
	first := createTestProduct(t, db, "earphones", "19.99")
	second := createTestProduct(t, db, "mug", "10.00")
	ctx := context.Background()

	sale, err := saleSvc.Create(ctx, FlashSaleAdminInput{
		Name:            "launch-sale",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		StartDate:       now,
		EndDate:         now.Add(24 * time.Hour),
		IsActive:        true,
		ProductIDs:      []uint{first.ID},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	if len(sale.Products) != 1 || sale.Products[0].ID != first.ID {
		t.Fatalf("expected product %d attached, got %+v", first.ID, sale.Products)
	}

	updated, err := saleSvc.Update(ctx, sale.ID, FlashSaleAdminInput{
		Name:            "launch-sale",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		StartDate:       now,
		EndDate:         now.Add(24 * time.Hour),
		IsActive:        true,
		ProductIDs:      []uint{second.ID},
	})
	if err != nil {
		t.Fatalf("update sale failed: %v", err)
	}
	if len(updated.Products) != 1 || updated.Products[0].ID != second.ID {
		t.Fatalf("expected product replaced with %d, got %+v", second.ID, updated.Products)
	}
}
