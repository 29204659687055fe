package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"searchier/internal/model"
	"searchier/internal/repository"
	"searchier/pkg/lightfunnels"
	"searchier/pkg/scripttag"
)

// StoreConfigService widget 安装/卸载
// 对 header_scripts 的读改写不加锁，同一店铺并发安装时后写覆盖先写
type StoreConfigService struct {
	repo      repository.StoreConfigRepository
	tokens    *TokenService
	stores    *StoreService
	api       LightfunnelsAPI
	scriptURL string
	log       *zap.Logger
}

func NewStoreConfigService(
	repo repository.StoreConfigRepository,
	tokens *TokenService,
	stores *StoreService,
	api LightfunnelsAPI,
	scriptURL string,
	log *zap.Logger,
) *StoreConfigService {
	return &StoreConfigService{
		repo:      repo,
		tokens:    tokens,
		stores:    stores,
		api:       api,
		scriptURL: scriptURL,
		log:       log,
	}
}

// List 用户的店铺配置，按更新时间倒序
func (s *StoreConfigService) List(ctx context.Context, userID int64) ([]model.StoreConfig, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetInstalled 公开接口按店铺找到已安装配置
func (s *StoreConfigService) GetInstalled(ctx context.Context, storeID string) (*model.StoreConfig, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: storeId is required", ErrValidation)
	}
	cfg, err := s.repo.GetInstalled(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrStoreNotConfigured
	}
	return cfg, nil
}

// Install 注入 script 标签并标记为已安装
func (s *StoreConfigService) Install(ctx context.Context, userID int64, store lightfunnels.Store) (*model.StoreConfig, error) {
	if store.ID == "" {
		return nil, fmt.Errorf("%w: missing store information", ErrValidation)
	}

	token, err := s.tokens.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 请求只带了 id 时，从账号店铺列表补全
	if store.Name == "" && store.Slug == "" && s.stores != nil {
		full, err := s.stores.GetStore(ctx, userID, store.ID)
		if err != nil {
			return nil, err
		}
		store = *full
	}

	scriptTag := scripttag.Build(s.scriptURL, store.ID, store.Slug)
	tag, err := scripttag.ParseTag(scriptTag)
	if err != nil {
		return nil, err
	}

	current, err := s.api.GetHeaderScripts(ctx, token, store.ID)
	if err != nil {
		return nil, fmt.Errorf("读取 header_scripts 失败: %w", err)
	}

	if next, changed := scripttag.Install(current, tag.Src, scriptTag); changed {
		if err := s.api.UpdateHeaderScripts(ctx, token, store.ID, next); err != nil {
			return nil, fmt.Errorf("写入 header_scripts 失败: %w", err)
		}
		s.log.Info("[StoreConfig] 已注入脚本", zap.Int64("user_id", userID), zap.String("store_id", store.ID))
	}

	snapshot, err := json.Marshal(store)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return s.repo.Upsert(ctx, &model.StoreConfig{
		UserID:        userID,
		StoreID:       store.ID,
		StoreName:     store.Name,
		StoreDomain:   store.Domain(),
		ScriptURL:     s.scriptURL,
		ScriptTag:     scriptTag,
		Installed:     true,
		InstalledAt:   &now,
		StoreSnapshot: datatypes.JSON(snapshot),
	})
}

// Uninstall 移除 script 标签并标记为未安装
// 使用安装时记录的 script 地址，没有记录时用当前配置地址
func (s *StoreConfigService) Uninstall(ctx context.Context, userID int64, store lightfunnels.Store) (*model.StoreConfig, error) {
	if store.ID == "" {
		return nil, fmt.Errorf("%w: missing store information", ErrValidation)
	}

	existing, err := s.repo.Get(ctx, userID, store.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	scriptURL := s.scriptURL
	if existing != nil && existing.ScriptURL != "" {
		scriptURL = existing.ScriptURL
	}

	current, err := s.api.GetHeaderScripts(ctx, token, store.ID)
	switch {
	case errors.Is(err, lightfunnels.ErrNodeNotFound):
		// 平台上店铺已不存在，没有可移除的内容
		s.log.Warn("[StoreConfig] 店铺不存在，跳过移除脚本", zap.String("store_id", store.ID))
		current = ""
	case err != nil:
		return nil, fmt.Errorf("读取 header_scripts 失败: %w", err)
	}

	if next, changed := scripttag.Remove(current, scriptURL); changed {
		if err := s.api.UpdateHeaderScripts(ctx, token, store.ID, next); err != nil {
			return nil, fmt.Errorf("写入 header_scripts 失败: %w", err)
		}
		s.log.Info("[StoreConfig] 已移除脚本", zap.Int64("user_id", userID), zap.String("store_id", store.ID))
	}

	// 请求里缺少的展示字段沿用已有配置
	name, domain, slug := store.Name, store.Domain(), store.Slug
	if existing != nil {
		if name == "" {
			name = existing.StoreName
		}
		if domain == "" {
			domain = existing.StoreDomain
		}
		if slug == "" {
			if tag, err := scripttag.ParseTag(existing.ScriptTag); err == nil {
				slug = tag.StoreSlug()
			}
		}
	}

	return s.repo.Upsert(ctx, &model.StoreConfig{
		UserID:      userID,
		StoreID:     store.ID,
		StoreName:   name,
		StoreDomain: domain,
		ScriptURL:   scriptURL,
		ScriptTag:   scripttag.Build(scriptURL, store.ID, slug),
		Installed:   false,
		InstalledAt: nil,
	})
}

// Reconcile 已安装店铺的标签若被移除则重新注入，返回是否写回
func (s *StoreConfigService) Reconcile(ctx context.Context, cfg model.StoreConfig) (bool, error) {
	if !cfg.Installed {
		return false, nil
	}

	token, err := s.tokens.Lookup(ctx, cfg.UserID)
	if err != nil {
		return false, err
	}

	current, err := s.api.GetHeaderScripts(ctx, token, cfg.StoreID)
	if err != nil {
		return false, err
	}
	if scripttag.Contains(current, cfg.ScriptURL) {
		return false, nil
	}

	next, changed := scripttag.Install(current, cfg.ScriptURL, cfg.ScriptTag)
	if !changed {
		return false, nil
	}
	if err := s.api.UpdateHeaderScripts(ctx, token, cfg.StoreID, next); err != nil {
		return false, err
	}
	return true, nil
}
