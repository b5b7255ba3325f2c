// internal/handlers/reward.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/metrics"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

type RewardHandler struct {
	rewardService *services.RewardService
}

func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
	}
}

// Reward catalog

// GET /rewards (public; active entries only)
func (h *RewardHandler) ListPublic(c *gin.Context) {
	rewards, err := h.rewardService.ListRewards(false)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rewards": rewards,
	})
}

// GET /admin/rewards
func (h *RewardHandler) ListCatalog(c *gin.Context) {
	includeInactive := c.DefaultQuery("include_inactive", "true") == "true"

	rewards, err := h.rewardService.ListRewards(includeInactive)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rewards": rewards,
	})
}

// POST /admin/rewards
func (h *RewardHandler) CreateCatalogEntry(c *gin.Context) {
	var req services.CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	reward, err := h.rewardService.CreateReward(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"reward": reward,
	})
}

// PUT /admin/rewards/:id
func (h *RewardHandler) UpdateCatalogEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	reward, err := h.rewardService.UpdateReward(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reward": reward,
	})
}

// DELETE /admin/rewards/:id
func (h *RewardHandler) DeleteCatalogEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.rewardService.DeleteReward(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Reward deleted",
	})
}

// Reward inventory

// POST /admin/reward-accounts
func (h *RewardHandler) CreateAccount(c *gin.Context) {
	adminID, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateRewardAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	account, err := h.rewardService.CreateAccount(adminID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"account": account,
	})
}

// GET /admin/reward-accounts
func (h *RewardHandler) ListAccounts(c *gin.Context) {
	filter := services.RewardAccountFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		s := models.RewardAccountStatus(status)
		filter.Status = &s
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

	accounts, total, err := h.rewardService.ListAccounts(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(accounts, total, filter.PaginationParams))
}

// GET /admin/reward-accounts/:id
func (h *RewardHandler) GetAccount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.rewardService.GetAccount(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account": account,
	})
}

// GET /admin/reward-accounts/:id/credentials
func (h *RewardHandler) GetCredentials(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	credentials, err := h.rewardService.GetCredentials(id)
	if err != nil {
		if _, typed := services.KindOf(err); typed {
			respondServiceError(c, err)
			return
		}
		utils.InternalErrorResponse(c, "Could not decrypt credentials")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"credentials": credentials,
	})
}

// PUT /admin/reward-accounts/:id/deactivate
func (h *RewardHandler) DeactivateAccount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.rewardService.DeactivateAccount(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account": account,
	})
}

// PUT /admin/reward-accounts/:id/reactivate
func (h *RewardHandler) ReactivateAccount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.rewardService.ReactivateAccount(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account": account,
	})
}

// DELETE /admin/reward-accounts/:id
func (h *RewardHandler) DeleteAccount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.rewardService.DeleteAccount(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Reward account deleted",
	})
}

// POST /admin/reward-accounts/expire-sweep
func (h *RewardHandler) ExpireSweep(c *gin.Context) {
	expired, err := h.rewardService.ExpireSweep()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	metrics.RecordExpiredAccounts(expired)

	utils.SuccessResponse(c, gin.H{
		"expired": expired,
	})
}
