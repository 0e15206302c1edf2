package public

import (
	"time"

	"github.com/shangou-next/internal/http/response"
	"github.com/shangou-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest 优惠码校验请求
type ValidateCouponRequest struct {
	Code        string       `json:"code" binding:"required"`
	TotalAmount models.Money `json:"total_amount" binding:"required"`
}

// ValidateCoupon 校验优惠码并按给定总额试算优惠。
// 只读操作，不消耗使用次数。
func (h *Handler) ValidateCoupon(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	quote, err := h.CouponService.Validate(req.Code, req.TotalAmount, time.Now())
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "coupon validate failed")
		return
	}
	response.Success(c, quote)
}
