package models

import (
	"time"
)

// User 用户表
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`              // 主键
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash string    `gorm:"not null" json:"-"`                 // 密码哈希
	Name         string    `gorm:"type:varchar(100)" json:"name"`     // 显示名
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"` // 是否管理员
	CreatedAt    time.Time `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
