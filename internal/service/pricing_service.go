package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shangou-next/internal/cache"
	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// FlashSaleInfo 商品生效中的秒杀摘要
type FlashSaleInfo struct {
	ID               uint         `json:"id"`
	Name             string       `json:"name"`
	DiscountPercent  models.Money `json:"discount_percent"`
	EndDate          time.Time    `json:"end_date"`
	RemainingSeconds int64        `json:"remaining_seconds"`
}

// PricedProduct 含实时价格的商品信息
type PricedProduct struct {
	OriginalPrice  models.Money   `json:"original_price"`
	EffectivePrice models.Money   `json:"effective_price"`
	OnSale         bool           `json:"on_sale"`
	FlashSale      *FlashSaleInfo `json:"flash_sale,omitempty"`
}

// PricingService 价格计算服务。秒杀命中结果可选缓存，
// 秒杀价四舍五入到分且不低于零。
type PricingService struct {
	flashSaleRepo   repository.FlashSaleRepository
	cacheTTLSeconds int
}

// NewPricingService 创建价格服务
func NewPricingService(flashSaleRepo repository.FlashSaleRepository, cacheTTLSeconds int) *PricingService {
	return &PricingService{
		flashSaleRepo:   flashSaleRepo,
		cacheTTLSeconds: cacheTTLSeconds,
	}
}

type cachedSale struct {
	Found           bool         `json:"found"`
	ID              uint         `json:"id"`
	Name            string       `json:"name"`
	DiscountPercent models.Money `json:"discount_percent"`
	EndDate         time.Time    `json:"end_date"`
}

// PriceProduct 计算商品当前生效价格
func (s *PricingService) PriceProduct(ctx context.Context, product *models.Product, now time.Time) (*PricedProduct, error) {
	if product == nil {
		return nil, ErrProductNotFound
	}
	priced := &PricedProduct{
		OriginalPrice:  product.Price,
		EffectivePrice: product.Price,
	}

	sale, err := s.bestActiveSale(ctx, product.ID, now)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return priced, nil
	}

	priced.OnSale = true
	priced.EffectivePrice = applyDiscountPercent(product.Price, sale.DiscountPercent)
	priced.FlashSale = &FlashSaleInfo{
		ID:               sale.ID,
		Name:             sale.Name,
		DiscountPercent:  sale.DiscountPercent,
		EndDate:          sale.EndDate,
		RemainingSeconds: sale.RemainingSeconds(now),
	}
	return priced, nil
}

// bestActiveSale 查询商品当前生效的秒杀，命中与未命中都会缓存
func (s *PricingService) bestActiveSale(ctx context.Context, productID uint, now time.Time) (*models.FlashSale, error) {
	key := fmt.Sprintf("flash_sale:product:%d", productID)
	if s.cacheTTLSeconds > 0 && cache.Enabled() {
		var cached cachedSale
		hit, err := cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warnw("flash_sale_cache_get_failed", "product_id", productID, "error", err)
		} else if hit {
			if !cached.Found {
				return nil, nil
			}
			// 缓存期间活动可能已结束，过期则回源
			if now.Before(cached.EndDate) {
				return &models.FlashSale{
					ID:              cached.ID,
					Name:            cached.Name,
					DiscountPercent: cached.DiscountPercent,
					EndDate:         cached.EndDate,
					IsActive:        true,
				}, nil
			}
		}
	}

	sale, err := s.flashSaleRepo.GetBestActiveByProduct(productID, now)
	if err != nil {
		return nil, err
	}

	if s.cacheTTLSeconds > 0 && cache.Enabled() {
		entry := cachedSale{Found: false}
		if sale != nil {
			entry = cachedSale{
				Found:           true,
				ID:              sale.ID,
				Name:            sale.Name,
				DiscountPercent: sale.DiscountPercent,
				EndDate:         sale.EndDate,
			}
		}
		ttl := time.Duration(s.cacheTTLSeconds) * time.Second
		if err := cache.SetJSON(ctx, key, entry, ttl); err != nil {
			logger.Warnw("flash_sale_cache_set_failed", "product_id", productID, "error", err)
		}
	}
	return sale, nil
}

// InvalidateProduct 清除商品的秒杀缓存，后台变更活动后调用
func (s *PricingService) InvalidateProduct(ctx context.Context, productID uint) {
	if !cache.Enabled() {
		return
	}
	key := fmt.Sprintf("flash_sale:product:%d", productID)
	if err := cache.Del(ctx, key); err != nil {
		logger.Warnw("flash_sale_cache_del_failed", "product_id", productID, "error", err)
	}
}

// applyDiscountPercent 按百分比打折，四舍五入到分，下限为零
func applyDiscountPercent(price models.Money, percent models.Money) models.Money {
	factor := oneHundred.Sub(percent.Decimal).Div(oneHundred)
	discounted := price.Decimal.Mul(factor).Round(2)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discounted)
}
