// internal/handlers/coupon.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

type CouponHandler struct {
	couponService *services.CouponService
}

func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// POST /admin/coupons/generate
func (h *CouponHandler) Generate(c *gin.Context) {
	adminID, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.GenerateCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	coupons, err := h.couponService.GenerateCoupons(adminID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"batch_id": coupons[0].BatchID,
		"count":    len(coupons),
		"coupons":  coupons,
	})
}

// GET /admin/coupons
func (h *CouponHandler) List(c *gin.Context) {
	filter := services.CouponFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		s := models.CouponStatus(status)
		filter.Status = &s
	}
	if batchID := c.Query("batch_id"); batchID != "" {
		filter.BatchID = &batchID
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		if id, err := strconv.ParseUint(createdBy, 10, 32); err == nil {
			adminID := uint(id)
			filter.CreatedBy = &adminID
		}
	}
	if after := c.Query("created_after"); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if before := c.Query("created_before"); before != "" {
		if t, err := time.Parse(time.RFC3339, before); err == nil {
			filter.CreatedBefore = &t
		}
	}

	coupons, total, err := h.couponService.ListCoupons(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(coupons, total, filter.PaginationParams))
}

// GET /admin/coupons/:id
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	coupon, err := h.couponService.GetCoupon(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"coupon": coupon,
	})
}

// PUT /admin/coupons/:id/deactivate
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	coupon, err := h.couponService.DeactivateCoupon(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"coupon": coupon,
	})
}

// DELETE /admin/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.DeleteCoupon(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Coupon deleted",
	})
}
