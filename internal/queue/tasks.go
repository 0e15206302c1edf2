package queue

import (
	"encoding/json"

	"github.com/shangou-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskMonthlyRevenueReport 月度营收报表任务
	TaskMonthlyRevenueReport = constants.TaskMonthlyRevenueReport
)

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// MonthlyRevenueReportPayload 月度营收报表任务载荷。
// Year/Month 为零时统计上一个自然月。
type MonthlyRevenueReportPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewMonthlyRevenueReportTask 创建月度营收报表任务
func NewMonthlyRevenueReportTask(payload MonthlyRevenueReportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMonthlyRevenueReport, body), nil
}
