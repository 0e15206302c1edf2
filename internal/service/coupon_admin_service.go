package service

import (
	"strings"
	"time"

	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminInput 后台优惠券创建/更新输入
type CouponAdminInput struct {
	Code              string
	DiscountPercent   models.Money
	MaxDiscountAmount models.Money
	ExpiresAt         *time.Time
	UsageLimit        *int
}

// CouponAdminService 后台优惠券管理服务
type CouponAdminService struct {
	couponRepo repository.CouponRepository
}

// NewCouponAdminService 创建后台优惠券服务
func NewCouponAdminService(couponRepo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{couponRepo: couponRepo}
}

// List 获取优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// GetByID 获取优惠券详情
func (s *CouponAdminService) GetByID(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create 创建优惠券
func (s *CouponAdminService) Create(input CouponAdminInput) (*models.Coupon, error) {
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}
	existing, err := s.couponRepo.GetByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponCodeExists
	}

	now := time.Now()
	coupon := &models.Coupon{
		Code:              strings.ToUpper(strings.TrimSpace(input.Code)),
		DiscountPercent:   input.DiscountPercent,
		MaxDiscountAmount: input.MaxDiscountAmount,
		ExpiresAt:         input.ExpiresAt,
		UsageLimit:        input.UsageLimit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券，已使用次数不可改
func (s *CouponAdminService) Update(id uint, input CouponAdminInput) (*models.Coupon, error) {
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code != coupon.Code {
		existing, err := s.couponRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrCouponCodeExists
		}
	}

	coupon.Code = code
	coupon.DiscountPercent = input.DiscountPercent
	coupon.MaxDiscountAmount = input.MaxDiscountAmount
	coupon.ExpiresAt = input.ExpiresAt
	coupon.UsageLimit = input.UsageLimit
	coupon.UpdatedAt = time.Now()
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}

func validateCouponInput(input CouponAdminInput) error {
	if strings.TrimSpace(input.Code) == "" {
		return ErrInvalidInput
	}
	pct := input.DiscountPercent.Decimal
	if pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(oneHundred) {
		return ErrInvalidInput
	}
	if input.MaxDiscountAmount.Decimal.IsNegative() {
		return ErrInvalidInput
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return ErrInvalidInput
	}
	return nil
}
