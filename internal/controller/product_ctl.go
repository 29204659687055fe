package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"searchier/internal/api/dto"
	"searchier/internal/service"
)

// ProductController widget 公开商品搜索
type ProductController struct {
	configSvc  *service.StoreConfigService
	productSvc *service.ProductService
	log        *zap.Logger
}

func NewProductController(configSvc *service.StoreConfigService, productSvc *service.ProductService, log *zap.Logger) *ProductController {
	return &ProductController{configSvc: configSvc, productSvc: productSvc, log: log}
}

// Search 搜索已安装店铺的商品
// @Summary 商品搜索（公开）
// @Description 按店铺搜索商品，店铺必须已安装 Searchier；first 默认 20，最大 50
// @Tags Widget (公开接口)
// @Produce json
// @Param storeId query string true "店铺 ID"
// @Param q query string false "搜索词"
// @Param cursor query string false "上一页 endCursor"
// @Param first query int false "每页数量" default(20)
// @Success 200 {object} lightfunnels.ProductConnection "商品分页"
// @Failure 400 {object} dto.ErrorResp "缺少 storeId"
// @Failure 404 {object} dto.ErrorResp "店铺未安装"
// @Failure 429 {object} dto.ErrorResp "请求过于频繁"
// @Failure 500 {object} dto.ErrorResp "上游失败"
// @Router /api/products [get]
func (ctl *ProductController) Search(c *gin.Context) {
	var req dto.ProductSearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		// 参数宽松处理：解析失败的字段按未传处理，storeId 仍在下面校验
		ctl.log.Warn("[ProductCtl] 查询参数解析失败，使用默认值", zap.Error(err))
	}

	if req.StoreID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storeId is required"})
		return
	}

	cfg, err := ctl.configSvc.GetInstalled(c.Request.Context(), req.StoreID)
	if errors.Is(err, service.ErrStoreNotConfigured) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store is not configured"})
		return
	}
	if err != nil {
		ctl.log.Error("[ProductCtl] 查询店铺配置失败", zap.String("store_id", req.StoreID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	conn, err := ctl.productSvc.Search(c.Request.Context(), service.ProductSearchInput{
		UserID:  cfg.UserID,
		StoreID: req.StoreID,
		Search:  req.Q,
		After:   req.Cursor,
		First:   req.FirstValue(),
		IDs:     req.IDList(),
	})
	if err != nil {
		ctl.log.Error("[ProductCtl] 获取商品失败", zap.String("store_id", req.StoreID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, conn)
}
