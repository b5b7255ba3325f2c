// internal/handlers/stats.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GET /admin/stats/dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/stats/rewards
func (h *StatsHandler) Rewards(c *gin.Context) {
	stats, err := h.statsService.GetRewardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/stats/trend?days=N
func (h *StatsHandler) Trend(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid days parameter", nil)
		return
	}

	trend, err := h.statsService.GetSubmissionTrend(days)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"trend": trend,
	})
}
