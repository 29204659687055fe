package service

import (
	"context"
	"fmt"

	"searchier/internal/model"
	"searchier/internal/repository"
)

// TokenService 按用户查找 Lightfunnels access token
type TokenService struct {
	userRepo repository.UserRepository
}

func NewTokenService(userRepo repository.UserRepository) *TokenService {
	return &TokenService{userRepo: userRepo}
}

// Lookup 找不到授权或令牌为空时返回 ErrMissingToken
func (s *TokenService) Lookup(ctx context.Context, userID int64) (string, error) {
	account, err := s.userRepo.GetAccountByUser(ctx, userID, model.ProviderLightfunnels)
	if err != nil {
		return "", fmt.Errorf("查询授权失败: %w", err)
	}
	if account == nil || account.AccessToken == "" {
		return "", ErrMissingToken
	}
	return account.AccessToken, nil
}
