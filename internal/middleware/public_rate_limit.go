package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ==================== 公开接口限流中间件 ====================

// storeKeyBody 只用于从 JSON 请求体里取 storeId
type storeKeyBody struct {
	StoreID string `json:"storeId"`
}

// PublicRateLimit 按店铺限流
// storeId 依次从 query、JSON 请求体取，都没有时按客户端 IP
// 读取请求体使用 ShouldBindBodyWith，后续 handler 需同样用它绑定
//
// 使用示例:
//
//	api.GET("/products", middleware.PublicRateLimit(limiter), productCtl.Search)
func PublicRateLimit(limiter *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if storeID := c.Query("storeId"); storeID != "" {
			key = "store:" + storeID
		} else if c.Request.Method == http.MethodPost && strings.Contains(c.ContentType(), "json") {
			var body storeKeyBody
			if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil && body.StoreID != "" {
				key = "store:" + body.StoreID
			}
		}

		result := limiter.Check(key)
		if !result.Allowed {
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
