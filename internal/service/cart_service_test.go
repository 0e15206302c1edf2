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
	"gorm.io/gorm"
)

func setupCartService(t *testing.T, maxQuantity int) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.FlashSale{}, &models.Cart{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	pricing := NewPricingService(repository.NewFlashSaleRepository(db), 0)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db), pricing, maxQuantity)
	return svc, db
}

func TestCartAddUpdateRemoveFlow(t *testing.T) {
	svc, db := setupCartService(t, 0)
	product := createTestProduct(t, db, "mug", "10.00")
	ctx := context.Background()

	// item_count 统计行数，数量 2 的单行仍计 1
	summary, err := svc.AddItem(ctx, 1, product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if summary.ItemCount != 1 || summary.Total.String() != "20.00" {
		t.Fatalf("expected 1 line total 20.00, got %d / %s", summary.ItemCount, summary.Total.String())
	}
	if summary.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", summary.Items[0].Quantity)
	}

	summary, err = svc.UpdateItemQuantity(1, product.ID, 3)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if summary.ItemCount != 1 || summary.Total.String() != "30.00" {
		t.Fatalf("expected 1 line total 30.00, got %d / %s", summary.ItemCount, summary.Total.String())
	}

	summary, err = svc.RemoveItem(1, product.ID)
	if err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if summary.ItemCount != 0 || !summary.Total.Decimal.IsZero() {
		t.Fatalf("expected empty cart, got %d / %s", summary.ItemCount, summary.Total.String())
	}
}

func TestCartAddMergesSameProduct(t *testing.T) {
	svc, db := setupCartService(t, 0)
	product := createTestProduct(t, db, "charger", "39.50")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 1, product.ID, 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	summary, err := svc.AddItem(ctx, 1, product.ID, 2)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(summary.Items) != 1 {
		t.Fatalf("expected single line, got %d", len(summary.Items))
	}
	if summary.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", summary.Items[0].Quantity)
	}
}

func TestCartAddSnapshotsSalePrice(t *testing.T) {
	svc, db := setupCartService(t, 0)
	now := time.Now()
	product := createTestProduct(t, db, "earphones", "19.99")
	createTestSale(t, db, "quarter-off", 25, now.Add(-time.Hour), now.Add(time.Hour), true, product)
	ctx := context.Background()

	summary, err := svc.AddItem(ctx, 1, product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if summary.Items[0].UnitPrice.String() != "14.99" {
		t.Fatalf("expected snapshot price 14.99, got %s", summary.Items[0].UnitPrice.String())
	}

	// 活动结束后快照价不变
	if err := db.Model(&models.FlashSale{}).Where("1 = 1").Update("end_date", now.Add(-time.Minute)).Error; err != nil {
		t.Fatalf("expire sale failed: %v", err)
	}
	summary, err = svc.GetByUser(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.Items[0].UnitPrice.String() != "14.99" {
		t.Fatalf("expected snapshot price preserved, got %s", summary.Items[0].UnitPrice.String())
	}
}

func TestCartQuantityLimit(t *testing.T) {
	svc, db := setupCartService(t, 5)
	product := createTestProduct(t, db, "keyboard", "129.00")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 1, product.ID, 6); !errors.Is(err, ErrQuantityExceeded) {
		t.Fatalf("expected quantity exceeded, got: %v", err)
	}
	if _, err := svc.AddItem(ctx, 1, product.ID, 3); err != nil {
		t.Fatalf("add within limit failed: %v", err)
	}
	if _, err := svc.AddItem(ctx, 1, product.ID, 3); !errors.Is(err, ErrQuantityExceeded) {
		t.Fatalf("expected merged quantity exceeded, got: %v", err)
	}
	if _, err := svc.UpdateItemQuantity(1, product.ID, 6); !errors.Is(err, ErrQuantityExceeded) {
		t.Fatalf("expected update quantity exceeded, got: %v", err)
	}
	if _, err := svc.AddItem(ctx, 1, product.ID, 0); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}
}

func TestCartAddOutOfStockProduct(t *testing.T) {
	svc, db := setupCartService(t, 0)
	product := createTestProduct(t, db, "sold-out", "10.00")
	if err := db.Model(product).Update("is_in_stock", false).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}

	if _, err := svc.AddItem(context.Background(), 1, product.ID, 1); !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("expected out of stock error, got: %v", err)
	}
}

func TestCartClear(t *testing.T) {
	svc, db := setupCartService(t, 0)
	product := createTestProduct(t, db, "mug", "10.00")
	ctx := context.Background()

	if err := svc.Clear(1); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected empty cart error, got: %v", err)
	}

	if _, err := svc.AddItem(ctx, 1, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	summary, err := svc.GetByUser(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.ItemCount != 0 {
		t.Fatalf("expected cleared cart, got %d items", summary.ItemCount)
	}
}

func TestCartRemoveMissingItem(t *testing.T) {
	svc, _ := setupCartService(t, 0)
	if _, err := svc.RemoveItem(1, 999); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected item not found, got: %v", err)
	}
	if _, err := svc.UpdateItemQuantity(1, 999, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected item not found, got: %v", err)
	}
}
