package dto

import (
	"time"

	"searchier/internal/model"
)

// ================== Session DTO ==================

// UserResp 当前登录用户
type UserResp struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// SessionResp 会话信息
type SessionResp struct {
	User      UserResp  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToUserResp 转换
func ToUserResp(u *model.User) UserResp {
	return UserResp{ID: u.ID, Email: u.Email, Name: u.Name, Image: u.Image}
}

// ErrorResp 统一错误体
type ErrorResp struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// SuccessResp 无数据的成功响应
type SuccessResp struct {
	Success bool `json:"success"`
}
