package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"searchier/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户与 OAuth 授权仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error

	// OAuth 授权
	GetAccount(ctx context.Context, providerID, accountID string) (*model.OAuthAccount, error)
	GetAccountByUser(ctx context.Context, userID int64, providerID string) (*model.OAuthAccount, error)
	SaveAccount(ctx context.Context, account *model.OAuthAccount) error
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error
	ListExpiringAccounts(ctx context.Context, providerID string, before time.Time) ([]model.OAuthAccount, error)
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户，不存在返回 nil
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// GetAccount 按平台账号 ID 查询授权
func (r *userRepository) GetAccount(ctx context.Context, providerID, accountID string) (*model.OAuthAccount, error) {
	var account model.OAuthAccount
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND account_id = ?", providerID, accountID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

// GetAccountByUser 获取用户在某平台的授权
func (r *userRepository) GetAccountByUser(ctx context.Context, userID int64, providerID string) (*model.OAuthAccount, error) {
	var account model.OAuthAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_id = ?", userID, providerID).
		Order("updated_at DESC").
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

// SaveAccount 按 (provider_id, account_id) 插入或更新授权
func (r *userRepository) SaveAccount(ctx context.Context, account *model.OAuthAccount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "access_token", "refresh_token",
			"token_expires_at", "scope", "updated_at",
		}),
	}).Create(account).Error
}

// UpdateTokens 刷新令牌
func (r *userRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.OAuthAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token":     accessToken,
			"refresh_token":    refreshToken,
			"token_expires_at": expiresAt,
		}).Error
}

// ListExpiringAccounts 查询 before 之前过期、且有 refresh token 的授权
func (r *userRepository) ListExpiringAccounts(ctx context.Context, providerID string, before time.Time) ([]model.OAuthAccount, error) {
	var accounts []model.OAuthAccount
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("refresh_token <> ''").
		Where("token_expires_at IS NOT NULL AND token_expires_at < ?", before).
		Order("token_expires_at ASC").
		Find(&accounts).Error
	return accounts, err
}
