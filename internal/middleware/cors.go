package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// PublicCORS widget 调用的公开接口对任意来源开放
// 预检请求不交给 handler，直接返回 200 {}
func PublicCORS(methods ...string) gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       append(methods, http.MethodOptions),
		AllowedHeaders:       []string{"*"},
		OptionsPassthrough:   true,
		OptionsSuccessStatus: http.StatusOK,
	})

	return func(c *gin.Context) {
		policy.HandlerFunc(c.Writer, c.Request)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}
		c.Next()
	}
}
