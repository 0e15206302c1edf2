package models

import (
	"time"
)

// Coupon 优惠券
type Coupon struct {
	ID                uint       `gorm:"primarykey" json:"id"`                                            // 主键
	Code              string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`               // 优惠码（统一大写）
	DiscountPercent   Money      `gorm:"type:decimal(5,2);not null" json:"discount_percent"`              // 折扣百分比（0-100）
	MaxDiscountAmount Money      `gorm:"type:decimal(10,2);not null;default:0" json:"max_discount_amount"` // 最大优惠金额
	ExpiresAt         *time.Time `gorm:"index" json:"expires_at"`                                         // 失效时间（空表示不过期）
	UsageLimit        *int       `json:"usage_limit"`                                                     // 总使用上限（空表示不限制）
	TimesUsed         int        `gorm:"not null;default:0" json:"times_used"`                            // 已使用次数，仅在下单事务内递增
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// IsValidAt 判断优惠券在给定时刻是否可用（未过期且未达使用上限）
func (c *Coupon) IsValidAt(now time.Time) bool {
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	if c.UsageLimit != nil && c.TimesUsed >= *c.UsageLimit {
		return false
	}
	return true
}
