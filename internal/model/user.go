package model

import "time"

// User 本地账号，首次 OAuth 登录时创建
type User struct {
	BaseModel
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name  string `gorm:"size:255" json:"name"`
	Image string `gorm:"size:1024" json:"image"`

	Accounts []OAuthAccount `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// OAuthAccount 第三方平台授权记录
// 一个平台账号只能绑定一个本地用户
type OAuthAccount struct {
	BaseModel
	UserID     int64  `gorm:"index;not null" json:"user_id"`
	ProviderID string `gorm:"size:32;not null;uniqueIndex:idx_provider_account" json:"provider_id"`
	AccountID  string `gorm:"size:64;not null;uniqueIndex:idx_provider_account" json:"account_id"`

	// 令牌不出现在任何 JSON 输出里
	AccessToken    string     `gorm:"type:text" json:"-"`
	RefreshToken   string     `gorm:"type:text" json:"-"`
	TokenExpiresAt *time.Time `gorm:"index" json:"token_expires_at"`
	Scope          string     `gorm:"size:255" json:"scope"`
}

func (OAuthAccount) TableName() string {
	return "oauth_accounts"
}

// ==================== 平台常量 ====================

const ProviderLightfunnels = "lightfunnels"
