package repository

import (
	"errors"
	"time"

	"github.com/shangou-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetOrCreateByUserForUpdate(userID uint) (*models.Cart, error)
	SaveItems(cartID uint, items models.CartItems) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车（不存在返回 nil）
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateByUserForUpdate 以行锁获取用户购物车，不存在则先创建。
// 必须在事务内调用，锁持续到事务提交或回滚。
func (r *GormCartRepository) GetOrCreateByUserForUpdate(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	cart = models.Cart{
		UserID:    userID,
		Items:     models.CartItems{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	// 并发 get-or-create 可能命中唯一索引，失败后统一重新加锁读取当前行
	createErr := r.db.Create(&cart).Error
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		if createErr != nil {
			return nil, createErr
		}
		return nil, err
	}
	return &cart, nil
}

// SaveItems 覆盖写入购物车行列表
func (r *GormCartRepository) SaveItems(cartID uint, items models.CartItems) error {
	if items == nil {
		items = models.CartItems{}
	}
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"items":      items,
			"updated_at": time.Now(),
		}).Error
}
