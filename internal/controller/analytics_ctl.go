package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"searchier/internal/middleware"
	"searchier/internal/service"
)

type AnalyticsController struct {
	analyticsSvc *service.AnalyticsService
	log          *zap.Logger
}

func NewAnalyticsController(analyticsSvc *service.AnalyticsService, log *zap.Logger) *AnalyticsController {
	return &AnalyticsController{analyticsSvc: analyticsSvc, log: log}
}

// Summary 搜索统计
// @Summary 搜索统计
// @Description 最近 30 天每日搜索、热门搜索词、热门商品及总数，实时计算
// @Tags Analytics (统计)
// @Produce json
// @Success 200 {object} service.AnalyticsSummary
// @Failure 401 {object} dto.ErrorResp
// @Failure 500 {object} dto.ErrorResp
// @Router /api/analytics [get]
func (ctl *AnalyticsController) Summary(c *gin.Context) {
	summary, err := ctl.analyticsSvc.Summarize(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		ctl.log.Error("[AnalyticsCtl] 统计失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
