package service

import (
	"context"
	"strings"
	"time"

	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"
)

// ProductDetail 商品详情（含实时价格）
type ProductDetail struct {
	Product *models.Product `json:"product"`
	Pricing *PricedProduct  `json:"pricing"`
}

// CreateReviewInput 创建评价输入
type CreateReviewInput struct {
	UserID    uint
	ProductID uint
	Rating    int
	Title     string
	Comment   string
}

// ProductService 商品服务。列表与详情附带秒杀后的生效价格，
// 评价会标记是否来自已送达订单的买家。
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
	orderRepo    repository.OrderRepository
	pricing      *PricingService
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, pricing *PricingService) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		orderRepo:    orderRepo,
		pricing:      pricing,
	}
}

// List 获取商品列表（含实时价格）
func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) ([]ProductDetail, int64, error) {
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	details := make([]ProductDetail, 0, len(products))
	for i := range products {
		priced, err := s.pricing.PriceProduct(ctx, &products[i], now)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, ProductDetail{
			Product: &products[i],
			Pricing: priced,
		})
	}
	return details, total, nil
}

// GetByID 获取商品详情（含实时价格）
func (s *ProductService) GetByID(ctx context.Context, id uint) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	priced, err := s.pricing.PriceProduct(ctx, product, time.Now())
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, Pricing: priced}, nil
}

// ListCategories 获取全部分类
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// ListReviews 获取商品评价列表
func (s *ProductService) ListReviews(productID uint, page, pageSize int) ([]models.ProductReview, int64, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, ErrProductNotFound
	}
	return s.reviewRepo.ListByProduct(productID, page, pageSize)
}

// CreateReview 创建商品评价。每个用户每个商品最多一条，
// 有已送达订单的买家标记为已验证购买。
func (s *ProductService) CreateReview(input CreateReviewInput) (*models.ProductReview, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	exists, err := s.reviewRepo.ExistsByUserAndProduct(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	verified, err := s.orderRepo.HasDeliveredOrderItem(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &models.ProductReview{
		UserID:             input.UserID,
		ProductID:          input.ProductID,
		Rating:             input.Rating,
		Title:              strings.TrimSpace(input.Title),
		Comment:            strings.TrimSpace(input.Comment),
		IsVerifiedPurchase: verified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}
