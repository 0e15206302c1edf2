package models

import (
	"time"
)

// ProductReview 商品评价表
type ProductReview struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                            // 主键
	UserID             uint      `gorm:"index;not null" json:"user_id"`                   // 用户ID
	ProductID          uint      `gorm:"index;not null" json:"product_id"`                // 商品ID
	Rating             int       `gorm:"index;not null" json:"rating"`                    // 评分（1-5）
	Title              string    `gorm:"type:varchar(255)" json:"title"`                  // 标题
	Comment            string    `gorm:"type:text" json:"comment"`                        // 评价内容
	IsVerifiedPurchase bool      `gorm:"not null;default:false" json:"is_verified_purchase"` // 是否已购买验证
	CreatedAt          time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt          time.Time `json:"updated_at"`                                      // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}

// TableName 指定表名
func (ProductReview) TableName() string {
	return "product_reviews"
}
