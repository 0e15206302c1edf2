package service

import (
	"strings"
	"time"

	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponQuote 优惠券试算结果
type CouponQuote struct {
	Coupon         *models.Coupon `json:"coupon"`
	Status         string         `json:"status"`
	TotalAmount    models.Money   `json:"total_amount"`
	DiscountAmount models.Money   `json:"discount_amount"`
	FinalAmount    models.Money   `json:"final_amount"`
}

// CouponService 优惠券服务。校验与试算只读，使用次数
// 的递增只发生在下单事务内。
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// WithTx 绑定事务
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	return &CouponService{couponRepo: s.couponRepo.WithTx(tx)}
}

// Validate 校验优惠码并按给定总额试算优惠
func (s *CouponService) Validate(code string, total models.Money, now time.Time) (*CouponQuote, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrCouponNotFound
	}
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return s.quote(coupon, total, now)
}

// ValidateForUpdate 以行锁校验优惠码，必须在事务内调用
func (s *CouponService) ValidateForUpdate(code string, total models.Money, now time.Time) (*CouponQuote, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrCouponNotFound
	}
	coupon, err := s.couponRepo.GetByCodeForUpdate(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return s.quote(coupon, total, now)
}

func (s *CouponService) quote(coupon *models.Coupon, total models.Money, now time.Time) (*CouponQuote, error) {
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return &CouponQuote{Coupon: coupon, Status: constants.CouponStatusExpired}, ErrCouponExpired
	}
	if coupon.UsageLimit != nil && coupon.TimesUsed >= *coupon.UsageLimit {
		return &CouponQuote{Coupon: coupon, Status: constants.CouponStatusUsageLimitReached}, ErrCouponUsageLimit
	}

	discount, final := computeCouponDiscount(total, coupon)
	return &CouponQuote{
		Coupon:         coupon,
		Status:         constants.CouponStatusValid,
		TotalAmount:    total,
		DiscountAmount: discount,
		FinalAmount:    final,
	}, nil
}

// computeCouponDiscount 按百分比计算优惠金额，优惠金额无条件
// 取与最大优惠金额的较小值，实付金额下限为零。
func computeCouponDiscount(total models.Money, coupon *models.Coupon) (models.Money, models.Money) {
	discount := total.Decimal.Mul(coupon.DiscountPercent.Decimal).Div(oneHundred).Round(2)
	maxDiscount := coupon.MaxDiscountAmount.Decimal.Round(2)
	if discount.GreaterThan(maxDiscount) {
		discount = maxDiscount
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	final := total.Decimal.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discount), models.NewMoneyFromDecimal(final)
}
