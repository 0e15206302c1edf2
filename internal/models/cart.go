package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 购物车行（商品、数量与加购时的价格快照）
type CartItem struct {
	ProductID uint   `json:"product_id"` // 商品ID
	Quantity  int    `json:"quantity"`   // 数量
	UnitPrice Money  `json:"unit_price"` // 加购时单价快照
	Name      string `json:"name"`       // 商品名快照
	Image     string `json:"image,omitempty"` // 首图快照
}

// CartItems 有序购物车行列表（JSON 列存储）。同一商品最多一行。
type CartItems []CartItem

// Value 用于数据库写入
func (items CartItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 用于数据库读取
func (items *CartItems) Scan(value interface{}) error {
	if value == nil {
		*items = CartItems{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported CartItems column type")
	}
	if len(raw) == 0 {
		*items = CartItems{}
		return nil
	}
	return json.Unmarshal(raw, items)
}

// Total 汇总购物车金额（单价快照 × 数量）
func (items CartItems) Total() Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return NewMoneyFromDecimal(total)
}

// IndexOf 返回商品所在行下标，不存在返回 -1
func (items CartItems) IndexOf(productID uint) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Cart 购物车表（每个用户一行，首次操作时惰性创建）
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                 // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`  // 用户ID
	Items     CartItems `gorm:"type:json;not null" json:"items"`      // 购物车行列表
	CreatedAt time.Time `json:"created_at"`                           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
