package repository

import (
	"errors"
	"time"

	"github.com/shangou-next/internal/models"

	"gorm.io/gorm"
)

// FlashSaleRepository 限时秒杀数据访问接口
type FlashSaleRepository interface {
	GetByID(id uint) (*models.FlashSale, error)
	GetBestActiveByProduct(productID uint, now time.Time) (*models.FlashSale, error)
	Create(sale *models.FlashSale) error
	Update(sale *models.FlashSale) error
	Delete(id uint) error
	ReplaceProducts(saleID uint, productIDs []uint) error
	List(filter FlashSaleListFilter) ([]models.FlashSale, int64, error)
	WithTx(tx *gorm.DB) FlashSaleRepository
}

// FlashSaleListFilter 秒杀列表筛选
type FlashSaleListFilter struct {
	IsActive *bool
	Page     int
	PageSize int
}

// GormFlashSaleRepository GORM 实现
type GormFlashSaleRepository struct {
	db *gorm.DB
}

// NewFlashSaleRepository 创建秒杀仓库
func NewFlashSaleRepository(db *gorm.DB) *GormFlashSaleRepository {
	return &GormFlashSaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFlashSaleRepository) WithTx(tx *gorm.DB) FlashSaleRepository {
	if tx == nil {
		return r
	}
	return &GormFlashSaleRepository{db: tx}
}

// GetByID 根据ID获取秒杀活动（带商品）
func (r *GormFlashSaleRepository) GetByID(id uint) (*models.FlashSale, error) {
	var sale models.FlashSale
	if err := r.db.Preload("Products").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// GetBestActiveByProduct 获取商品当前生效的秒杀活动。
// 多个活动重叠时取折扣最高的一个，折扣相同取ID最小的，保证结果稳定。
func (r *GormFlashSaleRepository) GetBestActiveByProduct(productID uint, now time.Time) (*models.FlashSale, error) {
	var sale models.FlashSale
	err := r.db.
		Joins("JOIN flash_sale_products fsp ON fsp.flash_sale_id = flash_sales.id").
		Where("fsp.product_id = ?", productID).
		Where("flash_sales.is_active = ?", true).
		Where("flash_sales.start_date <= ? AND flash_sales.end_date >= ?", now, now).
		Order("flash_sales.discount_percent DESC, flash_sales.id ASC").
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// Create 创建秒杀活动
func (r *GormFlashSaleRepository) Create(sale *models.FlashSale) error {
	return r.db.Create(sale).Error
}

// Update 更新秒杀活动（不触碰商品关联）
func (r *GormFlashSaleRepository) Update(sale *models.FlashSale) error {
	return r.db.Omit("Products").Save(sale).Error
}

// Delete 删除秒杀活动及商品关联
func (r *GormFlashSaleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		sale := models.FlashSale{ID: id}
		if err := tx.Model(&sale).Association("Products").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.FlashSale{}, id).Error
	})
}

// ReplaceProducts 替换活动关联的商品集合
func (r *GormFlashSaleRepository) ReplaceProducts(saleID uint, productIDs []uint) error {
	sale := models.FlashSale{ID: saleID}
	products := make([]models.Product, 0, len(productIDs))
	for _, pid := range productIDs {
		products = append(products, models.Product{ID: pid})
	}
	return r.db.Model(&sale).Association("Products").Replace(products)
}

// List 获取秒杀活动列表
func (r *GormFlashSaleRepository) List(filter FlashSaleListFilter) ([]models.FlashSale, int64, error) {
	var sales []models.FlashSale
	query := r.db.Model(&models.FlashSale{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Products").Order("start_date desc").Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}
