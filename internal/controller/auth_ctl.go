package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"searchier/internal/api/dto"
	"searchier/internal/middleware"
	"searchier/internal/service"
)

// 登录成功后的落地页
const appHomePath = "/app"

type AuthController struct {
	authService *service.AuthService
	log         *zap.Logger
}

func NewAuthController(s *service.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{authService: s, log: log}
}

// Login
// @Summary 跳转 Lightfunnels 授权
// @Description 生成带 state 的授权链接并 302 跳转，state 10 分钟内有效
// @Tags Auth (授权模块)
// @Success 302 {string} string "跳转到授权页"
// @Failure 500 {object} dto.ErrorResp
// @Router /api/auth/login [get]
func (ctrl *AuthController) Login(c *gin.Context) {
	url, err := ctrl.authService.GenerateLoginURL(c.Request.Context())
	if err != nil {
		ctrl.log.Error("[AuthCtl] 生成授权链接失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign in"})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback
// @Summary Lightfunnels 授权回调
// @Description 校验 state、换取 token、同步账号后写入会话 Cookie 并跳转到 /app
// @Tags Auth (授权模块)
// @Param code query string true "授权码"
// @Param state query string true "安全校验码"
// @Success 302 {string} string "跳转到 /app"
// @Failure 400 {object} dto.ErrorResp "拒绝授权/参数错误"
// @Failure 500 {object} dto.ErrorResp
// @Router /api/auth/callback [get]
func (ctrl *AuthController) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization was denied", "detail": errParam})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code or state"})
		return
	}

	result, err := ctrl.authService.HandleCallback(c.Request.Context(), code, state)
	switch {
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OAuth state"})
		return
	case err != nil:
		ctrl.log.Error("[AuthCtl] 授权回调失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in with Lightfunnels"})
		return
	}

	middleware.SetSessionCookie(c, result.SessionToken, result.ExpiresAt)
	c.Redirect(http.StatusFound, appHomePath)
}

// Session
// @Summary 当前会话
// @Tags Auth (授权模块)
// @Produce json
// @Success 200 {object} dto.SessionResp
// @Failure 401 {object} dto.ErrorResp
// @Router /api/auth/session [get]
func (ctrl *AuthController) Session(c *gin.Context) {
	claims := middleware.GetUserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := ctrl.authService.CurrentUser(c.Request.Context(), claims.UserID)
	if errors.Is(err, service.ErrUnauthorized) {
		middleware.ClearSessionCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err != nil {
		ctrl.log.Error("[AuthCtl] 查询用户失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	resp := dto.SessionResp{User: dto.ToUserResp(user)}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, resp)
}

// Logout
// @Summary 退出登录
// @Tags Auth (授权模块)
// @Produce json
// @Success 200 {object} dto.SuccessResp
// @Router /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, dto.SuccessResp{Success: true})
}
