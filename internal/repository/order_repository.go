package repository

import (
	"errors"
	"time"

	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	HasDeliveredOrderItem(userID, productID uint) (bool, error)
	SumDeliveredBetween(start, end time.Time) (models.Money, int64, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// OrderListFilter 订单列表筛选
type OrderListFilter struct {
	UserID   *uint
	Status   string
	Page     int
	PageSize int
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据ID获取订单（带订单项、优惠券）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Coupon").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 获取订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("order_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	err := query.
		Preload("Items").
		Order("ordered_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态及附加字段
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	values := map[string]interface{}{
		"order_status": status,
		"updated_at":   time.Now(),
	}
	for k, v := range updates {
		values[k] = v
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(values).Error
}

// HasDeliveredOrderItem 用户是否存在包含该商品的已送达订单
func (r *GormOrderRepository) HasDeliveredOrderItem(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", userID).
		Where("orders.order_status = ?", constants.OrderStatusDelivered).
		Where("order_items.product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumDeliveredBetween 统计区间内已送达订单的实付总额与订单数
func (r *GormOrderRepository) SumDeliveredBetween(start, end time.Time) (models.Money, int64, error) {
	type row struct {
		Total models.Money
		Count int64
	}
	var result row
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(final_amount), 0) AS total, COUNT(*) AS count").
		Where("order_status = ?", constants.OrderStatusDelivered).
		Where("ordered_at >= ? AND ordered_at < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return models.Money{}, 0, err
	}
	return result.Total, result.Count, nil
}
