package worker

import (
	"context"
	"encoding/json"

	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/provider"
	"github.com/shangou-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskMonthlyRevenueReport, c.handleMonthlyRevenueReport)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_order_status_email_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.SendOrderStatusEmail(payload.OrderID, payload.Status); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", payload.OrderID,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleMonthlyRevenueReport(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_monthly_report_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MonthlyRevenueReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_monthly_report_unmarshal_failed", "error", err)
		return err
	}
	if c.ReportService == nil {
		logger.Warnw("worker_monthly_report_skip_service_nil")
		return nil
	}
	if err := c.ReportService.SendMonthlyRevenueReport(payload.Year, payload.Month); err != nil {
		logger.Warnw("worker_monthly_report_failed",
			"year", payload.Year,
			"month", payload.Month,
			"error", err,
		)
		return err
	}
	return nil
}
