// internal/handlers/submission.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// POST /submissions (public redemption endpoint)
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req services.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Provenance comes from the connection, never the payload.
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	submission, err := h.submissionService.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"submission": submission,
	})
}

// GET /admin/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	filter := services.SubmissionFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if rewardID := c.Query("selected_reward_id"); rewardID != "" {
		if id, err := strconv.ParseUint(rewardID, 10, 32); err == nil {
			selected := uint(id)
			filter.SelectedRewardID = &selected
		}
	}
	if assigned := c.Query("assigned"); assigned != "" {
		value := assigned == "true"
		filter.Assigned = &value
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

	submissions, total, err := h.submissionService.List(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(submissions, total, filter.PaginationParams))
}

// GET /admin/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	submission, err := h.submissionService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"submission": submission,
	})
}

// DELETE /admin/submissions/:id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.submissionService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Submission deleted and coupon reactivated",
	})
}

// POST /admin/submissions/:id/assign-reward
func (h *SubmissionHandler) AssignReward(c *gin.Context) {
	adminID, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AssignRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	submission, err := h.submissionService.AssignReward(id, req.RewardAccountID, adminID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"submission": submission,
	})
}

// POST /admin/submissions/:id/unassign-reward
func (h *SubmissionHandler) UnassignReward(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	submission, err := h.submissionService.UnassignReward(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"submission": submission,
	})
}
