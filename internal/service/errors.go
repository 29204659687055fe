package service

import "errors"

// ==================== 业务错误 ====================

var (
	// ErrMissingToken 用户没有可用的 Lightfunnels 令牌，需要重新授权
	ErrMissingToken = errors.New("missing Lightfunnels access token for this user")
	// ErrValidation 请求缺少必填字段
	ErrValidation = errors.New("validation failed")
	// ErrStoreNotConfigured 店铺未安装 widget
	ErrStoreNotConfigured = errors.New("store is not configured")
	// ErrStoreNotFound 店铺不属于当前账号
	ErrStoreNotFound = errors.New("store not found")
	// ErrUnauthorized 会话无效
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidState OAuth state 不存在或已过期
	ErrInvalidState = errors.New("invalid or expired oauth state")
)
