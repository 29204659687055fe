package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"searchier/internal/api/dto"
	"searchier/internal/middleware"
	"searchier/internal/service"
)

type StoreController struct {
	storeSvc *service.StoreService
	log      *zap.Logger
}

func NewStoreController(storeSvc *service.StoreService, log *zap.Logger) *StoreController {
	return &StoreController{storeSvc: storeSvc, log: log}
}

// List 当前账号的 Lightfunnels 店铺
// @Summary 账号店铺列表
// @Description 按名称、slug、域名过滤，cursor 为上一页最后一个店铺 ID
// @Tags Store (店铺)
// @Produce json
// @Param q query string false "过滤关键词"
// @Param cursor query string false "游标"
// @Param first query int false "每页数量" default(20)
// @Success 200 {object} lightfunnels.StoreConnection
// @Failure 401 {object} dto.ErrorResp
// @Failure 500 {object} dto.ErrorResp
// @Router /api/stores [get]
func (ctl *StoreController) List(c *gin.Context) {
	var req dto.StoreListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		ctl.log.Warn("[StoreCtl] 查询参数解析失败，使用默认值", zap.Error(err))
	}

	conn, err := ctl.storeSvc.List(c.Request.Context(), service.StoreListInput{
		UserID: middleware.GetUserID(c),
		Search: req.Q,
		Cursor: req.Cursor,
		First:  req.FirstValue(),
	})
	if err != nil {
		ctl.log.Error("[StoreCtl] 获取店铺失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Lightfunnels stores"})
		return
	}

	c.JSON(http.StatusOK, conn)
}
