package models

import (
	"time"

	"github.com/shangou-next/internal/constants"
)

// FlashSale 闪购活动（限时百分比折扣，可关联多个商品）
type FlashSale struct {
	ID              uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name            string    `gorm:"not null" json:"name"`                               // 活动名
	DiscountPercent Money     `gorm:"type:decimal(5,2);not null" json:"discount_percent"` // 折扣百分比（0-100）
	StartDate       time.Time `gorm:"index;not null" json:"start_date"`                   // 开始时间
	EndDate         time.Time `gorm:"index;not null" json:"end_date"`                     // 结束时间
	IsActive        bool      `gorm:"not null" json:"is_active"`                          // 是否启用（不设默认值，false 也要落库）
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                         // 更新时间

	Products []Product `gorm:"many2many:flash_sale_products" json:"products,omitempty"` // 参与商品
}

// TableName 指定表名
func (FlashSale) TableName() string {
	return "flash_sales"
}

// StatusAt 返回给定时刻的派生状态
func (f *FlashSale) StatusAt(now time.Time) string {
	if !f.IsActive {
		return constants.FlashSaleStatusInactive
	}
	if now.Before(f.StartDate) {
		return constants.FlashSaleStatusUpcoming
	}
	if now.After(f.EndDate) {
		return constants.FlashSaleStatusExpired
	}
	return constants.FlashSaleStatusActive
}

// RemainingSeconds 返回距离结束的剩余秒数，已结束返回 0
func (f *FlashSale) RemainingSeconds(now time.Time) int64 {
	if now.After(f.EndDate) {
		return 0
	}
	return int64(f.EndDate.Sub(now).Seconds())
}
