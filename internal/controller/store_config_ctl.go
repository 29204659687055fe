package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"searchier/internal/api/dto"
	"searchier/internal/middleware"
	"searchier/internal/service"
	"searchier/pkg/lightfunnels"
)

// StoreConfigController 店铺安装配置（需登录）
type StoreConfigController struct {
	configSvc *service.StoreConfigService
	log       *zap.Logger
}

func NewStoreConfigController(configSvc *service.StoreConfigService, log *zap.Logger) *StoreConfigController {
	return &StoreConfigController{configSvc: configSvc, log: log}
}

// List 当前用户的全部店铺配置
// @Summary 店铺配置列表
// @Tags StoreConfig (安装管理)
// @Produce json
// @Success 200 {array} model.StoreConfig
// @Failure 401 {object} dto.ErrorResp
// @Failure 500 {object} dto.ErrorResp
// @Router /api/store-config [get]
func (ctl *StoreConfigController) List(c *gin.Context) {
	configs, err := ctl.configSvc.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		ctl.log.Error("[StoreConfigCtl] 查询配置失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load store configs"})
		return
	}
	c.JSON(http.StatusOK, configs)
}

// Install 注入 widget 脚本
// @Summary 安装 Searchier
// @Description 把 script 标签写入店铺 header_scripts，重复安装不会产生重复标签
// @Tags StoreConfig (安装管理)
// @Accept json
// @Produce json
// @Param request body dto.StoreConfigReq true "店铺"
// @Success 200 {object} model.StoreConfig
// @Failure 400 {object} dto.ErrorResp "Missing store information"
// @Failure 401 {object} dto.ErrorResp
// @Failure 500 {object} dto.ErrorResp
// @Router /api/store-config [post]
func (ctl *StoreConfigController) Install(c *gin.Context) {
	store, ok := ctl.bindStore(c)
	if !ok {
		return
	}

	cfg, err := ctl.configSvc.Install(c.Request.Context(), middleware.GetUserID(c), store)
	if err != nil {
		ctl.fail(c, err, "Failed to install Searchier script")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Uninstall 移除 widget 脚本
// @Summary 卸载 Searchier
// @Description 从店铺 header_scripts 中移除标签并标记为未安装，配置记录保留
// @Tags StoreConfig (安装管理)
// @Accept json
// @Produce json
// @Param request body dto.StoreConfigReq true "店铺"
// @Success 200 {object} model.StoreConfig
// @Failure 400 {object} dto.ErrorResp "Missing store information"
// @Failure 401 {object} dto.ErrorResp
// @Failure 500 {object} dto.ErrorResp
// @Router /api/store-config [delete]
func (ctl *StoreConfigController) Uninstall(c *gin.Context) {
	store, ok := ctl.bindStore(c)
	if !ok {
		return
	}

	cfg, err := ctl.configSvc.Uninstall(c.Request.Context(), middleware.GetUserID(c), store)
	if err != nil {
		ctl.fail(c, err, "Failed to remove Searchier script")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// bindStore 解析请求体中的店铺，缺少 id 时直接返回 400
func (ctl *StoreConfigController) bindStore(c *gin.Context) (lightfunnels.Store, bool) {
	var req dto.StoreConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing store information"})
		return lightfunnels.Store{}, false
	}
	store, ok := req.StoreNode()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing store information"})
	}
	return store, ok
}

func (ctl *StoreConfigController) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, service.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing store information"})
		return
	}
	ctl.log.Error("[StoreConfigCtl] "+message, zap.Int64("user_id", middleware.GetUserID(c)), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
