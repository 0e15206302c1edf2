package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPricingDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:pricing_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.FlashSale{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price string) *models.Product {
	t.Helper()
	amount, err := models.NewMoneyFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := &models.Product{
		Name:          name,
		Price:         amount,
		IsInStock:     true,
		StockQuantity: 10,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestSale(t *testing.T, db *gorm.DB, name string, percent int64, start, end time.Time, active bool, products ...*models.Product) *models.FlashSale {
	t.Helper()
	sale := &models.FlashSale{
		Name:            name,
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(percent)),
		StartDate:       start,
		EndDate:         end,
		IsActive:        active,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("create flash sale failed: %v", err)
	}
	for _, p := range products {
		if err := db.Model(sale).Association("Products").Append(&models.Product{ID: p.ID}); err != nil {
			t.Fatalf("attach product failed: %v", err)
		}
	}
	return sale
}

func TestPriceProductPicksHighestDiscount(t *testing.T) {
	db := setupPricingDB(t)
	now := time.Now()
	product := createTestProduct(t, db, "earphones", "19.99")
	createTestSale(t, db, "sale-10", 10, now.Add(-time.Hour), now.Add(time.Hour), true, product)
	best := createTestSale(t, db, "sale-25", 25, now.Add(-time.Hour), now.Add(2*time.Hour), true, product)

	svc := NewPricingService(repository.NewFlashSaleRepository(db), 0)
	priced, err := svc.PriceProduct(context.Background(), product, now)
	if err != nil {
		t.Fatalf("price product failed: %v", err)
	}
	if !priced.OnSale {
		t.Fatalf("expected product on sale")
	}
	if priced.EffectivePrice.String() != "14.99" {
		t.Fatalf("expected effective price 14.99, got %s", priced.EffectivePrice.String())
	}
	if priced.OriginalPrice.String() != "19.99" {
		t.Fatalf("expected original price 19.99, got %s", priced.OriginalPrice.String())
	}
	if priced.FlashSale == nil || priced.FlashSale.ID != best.ID {
		t.Fatalf("expected sale %d to win, got %+v", best.ID, priced.FlashSale)
	}
}

func TestPriceProductTieBreakLowestID(t *testing.T) {
	db := setupPricingDB(t)
	now := time.Now()
	product := createTestProduct(t, db, "mug", "20.00")
	first := createTestSale(t, db, "sale-a", 25, now.Add(-time.Hour), now.Add(time.Hour), true, product)
	createTestSale(t, db, "sale-b", 25, now.Add(-time.Hour), now.Add(time.Hour), true, product)

	svc := NewPricingService(repository.NewFlashSaleRepository(db), 0)
	priced, err := svc.PriceProduct(context.Background(), product, now)
	if err != nil {
		t.Fatalf("price product failed: %v", err)
	}
	if priced.FlashSale == nil || priced.FlashSale.ID != first.ID {
		t.Fatalf("expected earliest sale %d to win, got %+v", first.ID, priced.FlashSale)
	}
}

func TestPriceProductIgnoresNotRunningSales(t *testing.T) {
	db := setupPricingDB(t)
	now := time.Now()
	product := createTestProduct(t, db, "charger", "39.50")
	createTestSale(t, db, "disabled", 50, now.Add(-time.Hour), now.Add(time.Hour), false, product)
	createTestSale(t, db, "upcoming", 50, now.Add(time.Hour), now.Add(2*time.Hour), true, product)
	createTestSale(t, db, "expired", 50, now.Add(-2*time.Hour), now.Add(-time.Hour), true, product)

	svc := NewPricingService(repository.NewFlashSaleRepository(db), 0)
	priced, err := svc.PriceProduct(context.Background(), product, now)
	if err != nil {
		t.Fatalf("price product failed: %v", err)
	}
	if priced.OnSale || priced.FlashSale != nil {
		t.Fatalf("expected no active sale, got %+v", priced.FlashSale)
	}
	if priced.EffectivePrice.String() != "39.50" {
		t.Fatalf("expected original price, got %s", priced.EffectivePrice.String())
	}
}

func TestApplyDiscountPercentRounding(t *testing.T) {
	cases := []struct {
		price    string
		percent  int64
		expected string
	}{
		{"19.99", 25, "14.99"},
		{"19.99", 10, "17.99"},
		{"10.00", 33, "6.70"},
		{"10.00", 100, "0.00"},
	}
	for _, tc := range cases {
		price, err := models.NewMoneyFromString(tc.price)
		if err != nil {
			t.Fatalf("parse price failed: %v", err)
		}
		got := applyDiscountPercent(price, models.NewMoneyFromDecimal(decimal.NewFromInt(tc.percent)))
		if !got.Decimal.Equal(decimal.RequireFromString(tc.expected)) {
			t.Fatalf("%s at %d%%: expected %s, got %s", tc.price, tc.percent, tc.expected, got.String())
		}
	}
}

func TestFlashSaleDerivedStatus(t *testing.T) {
	now := time.Now()
	sale := models.FlashSale{
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}
	if got := sale.StatusAt(now); got != "ACTIVE" {
		t.Fatalf("expected ACTIVE, got %s", got)
	}
	if got := sale.StatusAt(now.Add(-2 * time.Hour)); got != "UPCOMING" {
		t.Fatalf("expected UPCOMING, got %s", got)
	}
	if got := sale.StatusAt(now.Add(2 * time.Hour)); got != "EXPIRED" {
		t.Fatalf("expected EXPIRED, got %s", got)
	}
	sale.IsActive = false
	if got := sale.StatusAt(now); got != "INACTIVE" {
		t.Fatalf("expected INACTIVE, got %s", got)
	}
}
