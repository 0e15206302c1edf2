package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Name          string         `gorm:"not null" json:"name"`                                  // 商品名
	Description   string         `gorm:"type:text" json:"description"`                          // 描述
	Price         Money          `gorm:"type:decimal(10,2);not null" json:"price"`              // 单价
	ImageURLs     StringArray    `gorm:"type:json" json:"image_urls"`                           // 图片地址列表
	CategoryID    *uint          `gorm:"index" json:"category_id,omitempty"`                    // 分类ID
	IsInStock     bool           `gorm:"not null" json:"is_in_stock"`                           // 是否有货（不设默认值，false 也要落库）
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`              // 库存数量
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 关联分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// FirstImageURL 返回首图地址，用于列表展示
func (p *Product) FirstImageURL() string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}
