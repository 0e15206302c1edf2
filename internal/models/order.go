package models

import (
	"encoding/json"
	"time"

	"github.com/shangou-next/internal/constants"
)

// Order 订单表。创建后除状态与取消/拒绝原因外均不可变，
// 金额在下单时计算一次，此后不再根据实时价格重算。
type Order struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                       // 主键
	UserID          uint      `gorm:"index;not null" json:"user_id"`                              // 用户ID
	CouponID        *uint     `gorm:"index" json:"coupon_id,omitempty"`                           // 优惠券ID
	CustomerName    string    `gorm:"not null" json:"customer_name"`                              // 收件人姓名
	CustomerPhone   string    `gorm:"type:varchar(20);not null" json:"customer_phone"`            // 收件人电话
	CustomerAddress string    `gorm:"type:text;not null" json:"customer_address"`                 // 收件地址
	CustomerEmail   string    `gorm:"type:varchar(255)" json:"customer_email,omitempty"`          // 收件邮箱
	TotalAmount     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`  // 折前金额
	DiscountAmount  Money     `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"` // 优惠金额
	FinalAmount     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"final_amount"`  // 实付金额
	PaymentMethod   string    `gorm:"type:varchar(32);not null" json:"payment_method"`            // 支付方式
	OrderStatus     string    `gorm:"index;not null" json:"order_status"`                         // 订单状态
	CancelReason    string    `gorm:"type:varchar(64)" json:"cancel_reason,omitempty"`            // 取消原因
	RejectReason    string    `gorm:"type:varchar(64)" json:"reject_reason,omitempty"`            // 拒绝原因
	OrderedAt       time.Time `gorm:"index;not null" json:"ordered_at"`                           // 下单时间
	UpdatedAt       time.Time `json:"updated_at"`                                                 // 更新时间

	User   *User       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"` // 关联用户
	Coupon *Coupon     `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`                          // 关联优惠券
	Items  []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`                            // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// CanCancel 判断用户是否可取消（仅待处理状态）
func (o *Order) CanCancel() bool {
	return o.OrderStatus == constants.OrderStatusPending
}

// MarshalJSON 输出时附加派生字段 can_cancel
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		CanCancel bool `json:"can_cancel"`
	}{plain(o), o.CanCancel()})
}
