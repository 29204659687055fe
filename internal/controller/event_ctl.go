package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"searchier/internal/api/dto"
	"searchier/internal/service"
)

// EventController widget 事件上报
type EventController struct {
	configSvc    *service.StoreConfigService
	analyticsSvc *service.AnalyticsService
	log          *zap.Logger
}

func NewEventController(configSvc *service.StoreConfigService, analyticsSvc *service.AnalyticsService, log *zap.Logger) *EventController {
	return &EventController{configSvc: configSvc, analyticsSvc: analyticsSvc, log: log}
}

// Record 记录搜索/点击事件
// @Summary 上报搜索事件（公开）
// @Description 事件归属到安装该店铺的用户，不去重
// @Tags Widget (公开接口)
// @Accept json
// @Produce json
// @Param request body dto.SearchEventReq true "事件"
// @Success 200 {object} dto.SuccessResp
// @Failure 400 {object} dto.ErrorResp "Invalid payload"
// @Failure 404 {object} dto.ErrorResp "店铺未安装"
// @Failure 429 {object} dto.ErrorResp "请求过于频繁"
// @Failure 500 {object} dto.ErrorResp "写入失败"
// @Router /api/searchier/events [post]
func (ctl *EventController) Record(c *gin.Context) {
	var req dto.SearchEventReq
	// 限流中间件可能已读过 body，这里必须用 ShouldBindBodyWith
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "Invalid payload", Details: dto.ValidationDetails(err)})
		return
	}

	cfg, err := ctl.configSvc.GetInstalled(c.Request.Context(), req.StoreID)
	if errors.Is(err, service.ErrStoreNotConfigured) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store is not configured"})
		return
	}
	if err != nil {
		ctl.log.Error("[EventCtl] 查询店铺配置失败", zap.String("store_id", req.StoreID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log event"})
		return
	}

	if err := ctl.analyticsSvc.Record(c.Request.Context(), req.ToModel(cfg.UserID)); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}
		ctl.log.Error("[EventCtl] 写入事件失败", zap.String("store_id", req.StoreID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log event"})
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResp{Success: true})
}
