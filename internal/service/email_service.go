package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/shangou-next/internal/config"
	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderID      uint
	Status       string
	FinalAmount  models.Money
	CustomerName string
	CancelReason string
	RejectReason string
}

// SendOrderStatusEmail 发送订单状态通知，非通知状态直接跳过
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput) error {
	subject, body, ok := buildOrderStatusContent(input, s.currency())
	if !ok {
		return nil
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// MonthlyRevenueReportInput 月度营收报表邮件输入
type MonthlyRevenueReportInput struct {
	Year       int
	Month      int
	OrderCount int64
	Revenue    models.Money
}

// SendMonthlyRevenueReport 向管理员发送月度营收报表
func (s *EmailService) SendMonthlyRevenueReport(toEmails []string, input MonthlyRevenueReportInput) error {
	if len(toEmails) == 0 {
		return nil
	}
	subject := fmt.Sprintf("Monthly Revenue Report %04d-%02d", input.Year, input.Month)
	body := fmt.Sprintf(
		"Revenue report for %04d-%02d\n\nDelivered orders: %d\nTotal revenue: %s %s\n",
		input.Year, input.Month, input.OrderCount, input.Revenue.String(), s.currency(),
	)
	var lastErr error
	for _, to := range toEmails {
		if err := s.sendTextEmail(to, subject, body); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (s *EmailService) currency() string {
	if s.cfg == nil || strings.TrimSpace(s.cfg.Currency) == "" {
		return "USD"
	}
	return strings.TrimSpace(s.cfg.Currency)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailDisabled
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidInput
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

// buildOrderStatusContent 仅为下单和取消/送达/拒绝生成邮件内容，
// 其余状态返回 false 表示无需发信。
func buildOrderStatusContent(input OrderStatusEmailInput, currency string) (string, string, bool) {
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		name = "Customer"
	}
	amount := fmt.Sprintf("%s %s", input.FinalAmount.String(), currency)

	switch input.Status {
	case constants.OrderStatusPending:
		subject := fmt.Sprintf("Order #%d placed", input.OrderID)
		body := fmt.Sprintf("Hi %s,\n\nWe received your order #%d.\nOrder total: %s\n\nWe will notify you once it is confirmed.", name, input.OrderID, amount)
		return subject, body, true
	case constants.OrderStatusCancelled:
		subject := fmt.Sprintf("Order #%d cancelled", input.OrderID)
		body := fmt.Sprintf("Hi %s,\n\nYour order #%d has been cancelled.", name, input.OrderID)
		if reason := strings.TrimSpace(input.CancelReason); reason != "" {
			body += fmt.Sprintf("\nReason: %s", reason)
		}
		return subject, body, true
	case constants.OrderStatusRejected:
		subject := fmt.Sprintf("Order #%d rejected", input.OrderID)
		body := fmt.Sprintf("Hi %s,\n\nUnfortunately your order #%d was rejected.", name, input.OrderID)
		if reason := strings.TrimSpace(input.RejectReason); reason != "" {
			body += fmt.Sprintf("\nReason: %s", reason)
		}
		return subject, body, true
	case constants.OrderStatusDelivered:
		subject := fmt.Sprintf("Order #%d delivered", input.OrderID)
		body := fmt.Sprintf("Hi %s,\n\nYour order #%d has been delivered. Enjoy!", name, input.OrderID)
		return subject, body, true
	default:
		return "", "", false
	}
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
