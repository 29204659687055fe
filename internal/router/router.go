package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"searchier/internal/controller"
	"searchier/internal/middleware"
	"searchier/web"

	_ "searchier/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Auth        *controller.AuthController
	Product     *controller.ProductController
	Event       *controller.EventController
	StoreConfig *controller.StoreConfigController
	Store       *controller.StoreController
	Analytics   *controller.AnalyticsController
}

// SetupRouter 创建 gin 引擎并注册中间件与路由
func SetupRouter(ctls *Controllers, limiter *middleware.KeyedLimiter, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestID(), middleware.Logging(log))

	InitRoutes(r, ctls, limiter)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers, limiter *middleware.KeyedLimiter) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 2. widget 脚本，店铺页面通过 script 标签加载
	r.GET("/searchier.js", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		c.Header("Access-Control-Allow-Origin", "*")
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", web.WidgetScript)
	})

	api := r.Group("/api")
	{
		// 公开接口：任意来源 + 按店铺限流
		products := api.Group("/products", middleware.PublicCORS(http.MethodGet), middleware.PublicRateLimit(limiter))
		{
			// GET /api/products?storeId=&q=&cursor=&first=
			products.GET("", ctls.Product.Search)
			products.OPTIONS("", func(c *gin.Context) {})
		}
		events := api.Group("/searchier/events", middleware.PublicCORS(http.MethodPost), middleware.PublicRateLimit(limiter))
		{
			// POST /api/searchier/events
			events.POST("", ctls.Event.Record)
			events.OPTIONS("", func(c *gin.Context) {})
		}

		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// GET /api/auth/login
			auth.GET("/login", ctls.Auth.Login)
			// GET /api/auth/callback
			auth.GET("/callback", ctls.Auth.Callback)
			auth.GET("/session", middleware.OptionalAuth(), ctls.Auth.Session)
			auth.POST("/logout", ctls.Auth.Logout)
		}

		// 以下需要登录
		authed := api.Group("", middleware.SessionAuth())
		{
			storeConfig := authed.Group("/store-config")
			{
				storeConfig.GET("", ctls.StoreConfig.List)
				storeConfig.POST("", ctls.StoreConfig.Install)
				storeConfig.DELETE("", ctls.StoreConfig.Uninstall)
			}
			authed.GET("/stores", ctls.Store.List)
			authed.GET("/analytics", ctls.Analytics.Summary)
		}
	}
}
