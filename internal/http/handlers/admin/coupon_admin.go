package admin

import (
	"errors"
	"strings"
	"time"

	handlershared "github.com/shangou-next/internal/http/handlers/shared"
	"github.com/shangou-next/internal/http/response"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"
	"github.com/shangou-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code              string       `json:"code" binding:"required"`
	DiscountPercent   models.Money `json:"discount_percent" binding:"required"`
	MaxDiscountAmount models.Money `json:"max_discount_amount"`
	ExpiresAt         *time.Time   `json:"expires_at"`
	UsageLimit        *int         `json:"usage_limit"`
}

// AdminListCoupons 优惠券列表
func (h *Handler) AdminListCoupons(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	coupons, total, err := h.CouponAdminService.List(repository.CouponListFilter{
		Code:     strings.TrimSpace(c.Query("code")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "coupon list failed", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.NewPagination(page, pageSize, total))
}

// AdminGetCoupon 优惠券详情
func (h *Handler) AdminGetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon fetch failed", err)
		return
	}
	response.Success(c, coupon)
}

// AdminCreateCoupon 创建优惠券
func (h *Handler) AdminCreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	coupon, err := h.CouponAdminService.Create(service.CouponAdminInput{
		Code:              req.Code,
		DiscountPercent:   req.DiscountPercent,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ExpiresAt:         req.ExpiresAt,
		UsageLimit:        req.UsageLimit,
	})
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// AdminUpdateCoupon 更新优惠券
func (h *Handler) AdminUpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	coupon, err := h.CouponAdminService.Update(id, service.CouponAdminInput{
		Code:              req.Code,
		DiscountPercent:   req.DiscountPercent,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ExpiresAt:         req.ExpiresAt,
		UsageLimit:        req.UsageLimit,
	})
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// AdminDeleteCoupon 删除优惠券
func (h *Handler) AdminDeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(id); err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondCouponAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "coupon input invalid", nil)
	case errors.Is(err, service.ErrCouponNotFound):
		respondError(c, response.CodeNotFound, "coupon not found", nil)
	case errors.Is(err, service.ErrCouponCodeExists):
		respondError(c, response.CodeConflict, "coupon code already exists", nil)
	default:
		respondError(c, response.CodeInternal, "coupon operation failed", err)
	}
}
