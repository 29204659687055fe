package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== 会话配置 ====================

// SessionCookieName 会话 Cookie 名
const SessionCookieName = "searchier.session-token"

// JWTConfig 会话令牌配置
type JWTConfig struct {
	SecretKey  string        // 签名密钥，即 APP_SECRET
	SessionTTL time.Duration // 会话有效期
	Issuer     string        // 签发者
	Secure     bool          // 生产环境 Cookie 走 SameSite=None; Secure
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SessionTTL: 7 * 24 * time.Hour,
		Issuer:     "searchier",
	}
}

var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 启动时设置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取当前配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// UserClaims 会话声明
type UserClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateSessionToken 签发会话令牌
func GenerateSessionToken(userID int64, email string) (string, time.Time, error) {
	if jwtConfig.SecretKey == "" {
		return "", time.Time{}, errors.New("session secret is not configured")
	}
	now := time.Now()
	expiresAt := now.Add(jwtConfig.SessionTTL)
	claims := &UserClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   "session",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtConfig.SecretKey))
	return signed, expiresAt, err
}

// ParseToken 解析并校验会话令牌
func ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	}, jwt.WithIssuer(jwtConfig.Issuer))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid && claims.Subject == "session" {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ==================== Cookie ====================

// SetSessionCookie 写入会话 Cookie
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	setCookie(c, token, maxAge)
}

// ClearSessionCookie 清除会话 Cookie
func ClearSessionCookie(c *gin.Context) {
	setCookie(c, "", -1)
}

func setCookie(c *gin.Context, value string, maxAge int) {
	if jwtConfig.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", jwtConfig.Secure, true)
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "claims"
)

// SessionAuth 会话认证，Cookie 或 Authorization: Bearer 均可
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// OptionalAuth 有会话时注入用户信息，没有也放行
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c); ok {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyClaims, claims)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context) (*UserClaims, bool) {
	raw := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			raw = strings.TrimSpace(parts[1])
		}
	}
	if raw == "" {
		if cookie, err := c.Cookie(SessionCookieName); err == nil {
			raw = cookie
		}
	}
	if raw == "" {
		return nil, false
	}

	claims, err := ParseToken(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// ==================== 辅助函数 ====================

// GetUserID 从 Context 获取用户 ID，未登录为 0
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetUserClaims 从 Context 获取完整 Claims
func GetUserClaims(c *gin.Context) *UserClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*UserClaims)
	}
	return nil
}
