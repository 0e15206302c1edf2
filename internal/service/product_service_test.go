package service

import (
	"context"
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

func setupProductService(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.FlashSale{},
		&models.ProductReview{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	pricing := NewPricingService(repository.NewFlashSaleRepository(db), 0)
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewReviewRepository(db),
		repository.NewOrderRepository(db),
		pricing,
	)
	return svc, db
}

func TestProductListIncludesSalePricing(t *testing.T) {
	svc, db := setupProductService(t)
	now := time.Now()
	onSale := createTestProduct(t, db, "earphones", "19.99")
	regular := createTestProduct(t, db, "mug", "10.00")
	createTestSale(t, db, "quarter-off", 25, now.Add(-time.Hour), now.Add(time.Hour), true, onSale)

	details, total, err := svc.List(context.Background(), repository.ProductListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 products, got %d", total)
	}
	byID := map[uint]ProductDetail{}
	for _, d := range details {
		byID[d.Product.ID] = d
	}
	if got := byID[onSale.ID].Pricing; !got.OnSale || got.EffectivePrice.String() != "14.99" {
		t.Fatalf("expected sale pricing for product %d, got %+v", onSale.ID, got)
	}
	if got := byID[regular.ID].Pricing; got.OnSale || got.EffectivePrice.String() != "10.00" {
		t.Fatalf("expected regular pricing for product %d, got %+v", regular.ID, got)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := setupProductService(t)
	if _, err := svc.GetByID(context.Background(), 999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}
}

func TestCreateReviewRules(t *testing.T) {
	svc, db := setupProductService(t)
	product := createTestProduct(t, db, "mug", "10.00")

	if _, err := svc.CreateReview(CreateReviewInput{UserID: 1, ProductID: product.ID, Rating: 0}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected invalid rating, got: %v", err)
	}
	if _, err := svc.CreateReview(CreateReviewInput{UserID: 1, ProductID: product.ID, Rating: 6}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected invalid rating, got: %v", err)
	}
	if _, err := svc.CreateReview(CreateReviewInput{UserID: 1, ProductID: 999, Rating: 5}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}

	review, err := svc.CreateReview(CreateReviewInput{
		UserID:    1,
		ProductID: product.ID,
		Rating:    5,
		Title:     "Great",
		Comment:   "Keeps coffee warm.",
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.IsVerifiedPurchase {
		t.Fatalf("expected unverified review without delivered order")
	}

	if _, err := svc.CreateReview(CreateReviewInput{UserID: 1, ProductID: product.ID, Rating: 4}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected duplicate review error, got: %v", err)
	}
}

func TestCreateReviewVerifiedPurchase(t *testing.T) {
	svc, db := setupProductService(t)
	product := createTestProduct(t, db, "mug", "10.00")
	order := models.Order{
		UserID:        2,
		CustomerName:  "Bob",
		OrderStatus:   constants.OrderStatusDelivered,
		PaymentMethod: constants.PaymentMethodCOD,
		OrderedAt:     time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := models.OrderItem{
		OrderID:      order.ID,
		ProductID:    product.ID,
		Quantity:     1,
		PriceAtOrder: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}

	review, err := svc.CreateReview(CreateReviewInput{UserID: 2, ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if !review.IsVerifiedPurchase {
		t.Fatalf("expected verified purchase flag")
	}
}
