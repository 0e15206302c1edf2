package repository

import (
	"github.com/shangou-next/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	Create(review *models.ProductReview) error
	ListByProduct(productID uint, page, pageSize int) ([]models.ProductReview, int64, error)
	ExistsByUserAndProduct(userID, productID uint) (bool, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.ProductReview) error {
	return r.db.Create(review).Error
}

// ListByProduct 获取商品评价列表
func (r *GormReviewRepository) ListByProduct(productID uint, page, pageSize int) ([]models.ProductReview, int64, error) {
	var reviews []models.ProductReview
	query := r.db.Model(&models.ProductReview{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)
	if err := query.Preload("User").Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ExistsByUserAndProduct 用户是否已评价过该商品
func (r *GormReviewRepository) ExistsByUserAndProduct(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProductReview{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
