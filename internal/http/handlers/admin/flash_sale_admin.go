package admin

import (
	"errors"
	"time"

	handlershared "github.com/shangou-next/internal/http/handlers/shared"
	"github.com/shangou-next/internal/http/response"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"
	"github.com/shangou-next/internal/service"

	"github.com/gin-gonic/gin"
)

// FlashSaleRequest 秒杀活动创建/更新请求
type FlashSaleRequest struct {
	Name            string       `json:"name" binding:"required"`
	DiscountPercent models.Money `json:"discount_percent" binding:"required"`
	StartDate       time.Time    `json:"start_date" binding:"required"`
	EndDate         time.Time    `json:"end_date" binding:"required"`
	IsActive        bool         `json:"is_active"`
	ProductIDs      []uint       `json:"product_ids"`
}

// AdminListFlashSales 秒杀活动列表
func (h *Handler) AdminListFlashSales(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	filter := repository.FlashSaleListFilter{Page: page, PageSize: pageSize}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	sales, total, err := h.FlashSaleAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "flash sale list failed", err)
		return
	}
	response.SuccessWithPage(c, sales, response.NewPagination(page, pageSize, total))
}

// AdminGetFlashSale 秒杀活动详情
func (h *Handler) AdminGetFlashSale(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sale, err := h.FlashSaleAdminService.GetByID(id)
	if err != nil {
		respondFlashSaleAdminError(c, err)
		return
	}
	response.Success(c, sale)
}

// AdminCreateFlashSale 创建秒杀活动
func (h *Handler) AdminCreateFlashSale(c *gin.Context) {
	var req FlashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	sale, err := h.FlashSaleAdminService.Create(c.Request.Context(), service.FlashSaleAdminInput{
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
		ProductIDs:      req.ProductIDs,
	})
	if err != nil {
		respondFlashSaleAdminError(c, err)
		return
	}
	response.Success(c, sale)
}

// AdminUpdateFlashSale 更新秒杀活动
func (h *Handler) AdminUpdateFlashSale(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req FlashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	sale, err := h.FlashSaleAdminService.Update(c.Request.Context(), id, service.FlashSaleAdminInput{
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
		ProductIDs:      req.ProductIDs,
	})
	if err != nil {
		respondFlashSaleAdminError(c, err)
		return
	}
	response.Success(c, sale)
}

// AdminDeleteFlashSale 删除秒杀活动
func (h *Handler) AdminDeleteFlashSale(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.FlashSaleAdminService.Delete(c.Request.Context(), id); err != nil {
		respondFlashSaleAdminError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondFlashSaleAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "flash sale input invalid", nil)
	case errors.Is(err, service.ErrFlashSaleWindowInvalid):
		respondError(c, response.CodeBadRequest, "flash sale window invalid", nil)
	case errors.Is(err, service.ErrFlashSaleNotFound):
		respondError(c, response.CodeNotFound, "flash sale not found", nil)
	default:
		respondError(c, response.CodeInternal, "flash sale operation failed", err)
	}
}
