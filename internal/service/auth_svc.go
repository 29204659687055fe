package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"searchier/internal/config"
	"searchier/internal/middleware"
	"searchier/internal/model"
	"searchier/internal/repository"
	"searchier/pkg/utils"
)

// state 缓存 key 前缀
const oauthStatePrefix = "oauth_state:"

// AuthService Lightfunnels OAuth 登录
type AuthService struct {
	users repository.UserRepository
	api   LightfunnelsAPI
	oauth *oauth2.Config
	log   *zap.Logger
}

// NewOAuthConfig 授权页在商家后台，换取 token 在 API 域
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.Lightfunnels.ClientID,
		ClientSecret: cfg.Lightfunnels.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.Lightfunnels.FrontURL + "/admin/oauth",
			TokenURL:  cfg.Lightfunnels.URL + "/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: cfg.CallbackURL(),
		// 平台要求逗号分隔的单个 scope 参数
		Scopes: []string{cfg.Lightfunnels.Scopes},
	}
}

// NewAuthService 工厂方法
func NewAuthService(users repository.UserRepository, api LightfunnelsAPI, oauthCfg *oauth2.Config, log *zap.Logger) *AuthService {
	return &AuthService{users: users, api: api, oauth: oauthCfg, log: log}
}

// LoginResult 回调成功后的会话
type LoginResult struct {
	User         *model.User
	SessionToken string
	ExpiresAt    time.Time
}

// GenerateLoginURL 生成授权链接，state 缓存 10 分钟
func (s *AuthService) GenerateLoginURL(ctx context.Context) (string, error) {
	state, err := utils.GenerateRandomString(32)
	if err != nil {
		return "", err
	}
	utils.SetCache(oauthStatePrefix+state, "1")
	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback 校验 state、换取 token、同步账号并签发会话
func (s *AuthService) HandleCallback(ctx context.Context, code, state string) (*LoginResult, error) {
	// 1. state 一次性使用
	if state == "" {
		return nil, ErrInvalidState
	}
	if _, ok := utils.GetCache(oauthStatePrefix + state); !ok {
		return nil, ErrInvalidState
	}
	utils.DeleteCache(oauthStatePrefix + state)

	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrValidation)
	}

	// 2. 授权码换 token
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.log.Error("[AuthService] 换取 token 失败", zap.Error(err))
		return nil, fmt.Errorf("换取 token 失败: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrMissingToken
	}

	// 3. 拉取平台账号
	account, err := s.api.FetchAccount(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	// 4. 本地用户
	user, err := s.resolveUser(ctx, account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	user.Email = account.Email
	user.Name = account.AccountName
	user.Image = account.ImageURL()
	if user.ID == 0 {
		err = s.users.Create(ctx, user)
	} else {
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("保存用户失败: %w", err)
	}

	// 5. 授权记录
	oauthAccount := &model.OAuthAccount{
		UserID:       user.ID,
		ProviderID:   model.ProviderLightfunnels,
		AccountID:    account.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scope:        grantedScope(token, s.oauth.Scopes),
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		oauthAccount.TokenExpiresAt = &expiry
	}
	if err := s.users.SaveAccount(ctx, oauthAccount); err != nil {
		return nil, fmt.Errorf("保存授权失败: %w", err)
	}

	// 6. 会话
	sessionToken, expiresAt, err := middleware.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info("[AuthService] 登录成功", zap.Int64("user_id", user.ID), zap.String("account_id", account.ID))
	return &LoginResult{User: user, SessionToken: sessionToken, ExpiresAt: expiresAt}, nil
}

// resolveUser 先按平台账号找，再按邮箱找，都没有则返回新用户
func (s *AuthService) resolveUser(ctx context.Context, accountID, email string) (*model.User, error) {
	linked, err := s.users.GetAccount(ctx, model.ProviderLightfunnels, accountID)
	if err != nil {
		return nil, err
	}
	if linked != nil {
		user, err := s.users.GetByID(ctx, linked.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return &model.User{}, nil
}

// CurrentUser 会话对应的用户
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// RefreshAccount 用 refresh token 换新令牌
func (s *AuthService) RefreshAccount(ctx context.Context, account model.OAuthAccount) error {
	if account.RefreshToken == "" {
		return errors.New("no refresh token")
	}

	src := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
		// 标记为已过期，强制刷新
		Expiry: time.Now().Add(-time.Minute),
	})
	token, err := src.Token()
	if err != nil {
		return fmt.Errorf("刷新 token 失败: %w", err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = account.RefreshToken
	}
	var expiresAt *time.Time
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		expiresAt = &expiry
	}
	return s.users.UpdateTokens(ctx, account.ID, token.AccessToken, refreshToken, expiresAt)
}

// ListExpiringAccounts 即将过期的授权
func (s *AuthService) ListExpiringAccounts(ctx context.Context, within time.Duration) ([]model.OAuthAccount, error) {
	return s.users.ListExpiringAccounts(ctx, model.ProviderLightfunnels, time.Now().Add(within))
}

func grantedScope(token *oauth2.Token, fallback []string) string {
	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		return scope
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}
