package service

import (
	"time"

	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/repository"
)

// ReportService 报表服务
type ReportService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	emailSvc  *EmailService
}

// NewReportService 创建报表服务
func NewReportService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, emailSvc *EmailService) *ReportService {
	return &ReportService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

// SendMonthlyRevenueReport 统计指定月份已送达订单的营收并发送给全部管理员。
// 年月为零时统计上一个自然月。
func (s *ReportService) SendMonthlyRevenueReport(year, month int) error {
	if year == 0 || month == 0 {
		year, month = previousMonth(time.Now().UTC())
	}
	if month < 1 || month > 12 {
		return ErrInvalidInput
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	revenue, count, err := s.orderRepo.SumDeliveredBetween(start, end)
	if err != nil {
		return err
	}

	emails, err := s.userRepo.StaffEmails()
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		logger.Warnw("monthly_report_no_staff_recipients", "year", year, "month", month)
		return nil
	}

	err = s.emailSvc.SendMonthlyRevenueReport(emails, MonthlyRevenueReportInput{
		Year:       year,
		Month:      month,
		OrderCount: count,
		Revenue:    revenue,
	})
	if err != nil {
		return err
	}

	logger.Infow("monthly_report_sent",
		"year", year,
		"month", month,
		"order_count", count,
		"revenue", revenue.String(),
		"recipients", len(emails),
	)
	return nil
}

// previousMonth 返回给定时刻的上一个自然月。
// 先退到当月一号再减一天，避免月末日期直接减月时跨错月份。
func previousMonth(now time.Time) (int, int) {
	lastOfPrev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return lastOfPrev.Year(), int(lastOfPrev.Month())
}
