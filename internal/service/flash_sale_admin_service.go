package service

import (
	"context"
	"strings"
	"time"

	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/shopspring/decimal"
)

// FlashSaleAdminInput 后台秒杀活动创建/更新输入
type FlashSaleAdminInput struct {
	Name            string
	DiscountPercent models.Money
	StartDate       time.Time
	EndDate         time.Time
	IsActive        bool
	ProductIDs      []uint
}

// FlashSaleAdminService 后台秒杀活动管理服务
type FlashSaleAdminService struct {
	flashSaleRepo repository.FlashSaleRepository
	productRepo   repository.ProductRepository
	pricing       *PricingService
}

// NewFlashSaleAdminService 创建后台秒杀服务
func NewFlashSaleAdminService(flashSaleRepo repository.FlashSaleRepository, productRepo repository.ProductRepository, pricing *PricingService) *FlashSaleAdminService {
	return &FlashSaleAdminService{
		flashSaleRepo: flashSaleRepo,
		productRepo:   productRepo,
		pricing:       pricing,
	}
}

// List 获取秒杀活动列表
func (s *FlashSaleAdminService) List(filter repository.FlashSaleListFilter) ([]models.FlashSale, int64, error) {
	return s.flashSaleRepo.List(filter)
}

// GetByID 获取秒杀活动详情
func (s *FlashSaleAdminService) GetByID(id uint) (*models.FlashSale, error) {
	sale, err := s.flashSaleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrFlashSaleNotFound
	}
	return sale, nil
}

// Create 创建秒杀活动
func (s *FlashSaleAdminService) Create(ctx context.Context, input FlashSaleAdminInput) (*models.FlashSale, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &models.FlashSale{
		Name:            strings.TrimSpace(input.Name),
		DiscountPercent: input.DiscountPercent,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		IsActive:        input.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.flashSaleRepo.Create(sale); err != nil {
		return nil, err
	}
	if len(input.ProductIDs) > 0 {
		if err := s.flashSaleRepo.ReplaceProducts(sale.ID, input.ProductIDs); err != nil {
			return nil, err
		}
		s.invalidateProducts(ctx, input.ProductIDs)
	}
	return s.flashSaleRepo.GetByID(sale.ID)
}

// Update 更新秒杀活动并替换商品关联
func (s *FlashSaleAdminService) Update(ctx context.Context, id uint, input FlashSaleAdminInput) (*models.FlashSale, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	sale, err := s.flashSaleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrFlashSaleNotFound
	}

	// 新旧商品集合的缓存都要失效
	previousIDs := make([]uint, 0, len(sale.Products))
	for _, p := range sale.Products {
		previousIDs = append(previousIDs, p.ID)
	}

	sale.Name = strings.TrimSpace(input.Name)
	sale.DiscountPercent = input.DiscountPercent
	sale.StartDate = input.StartDate
	sale.EndDate = input.EndDate
	sale.IsActive = input.IsActive
	sale.UpdatedAt = time.Now()
	if err := s.flashSaleRepo.Update(sale); err != nil {
		return nil, err
	}
	if err := s.flashSaleRepo.ReplaceProducts(id, input.ProductIDs); err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, previousIDs)
	s.invalidateProducts(ctx, input.ProductIDs)
	return s.flashSaleRepo.GetByID(id)
}

// Delete 删除秒杀活动
func (s *FlashSaleAdminService) Delete(ctx context.Context, id uint) error {
	sale, err := s.flashSaleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrFlashSaleNotFound
	}
	productIDs := make([]uint, 0, len(sale.Products))
	for _, p := range sale.Products {
		productIDs = append(productIDs, p.ID)
	}
	if err := s.flashSaleRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateProducts(ctx, productIDs)
	return nil
}

func (s *FlashSaleAdminService) validateInput(input FlashSaleAdminInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidInput
	}
	pct := input.DiscountPercent.Decimal
	if pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(oneHundred) {
		return ErrInvalidInput
	}
	if !input.EndDate.After(input.StartDate) {
		return ErrFlashSaleWindowInvalid
	}
	return nil
}

func (s *FlashSaleAdminService) invalidateProducts(ctx context.Context, productIDs []uint) {
	if s.pricing == nil {
		return
	}
	for _, pid := range productIDs {
		s.pricing.InvalidateProduct(ctx, pid)
	}
}
