package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"searchier/internal/model"
)

// ==================== 仓储接口 ====================

// StoreConfigRepository 店铺安装配置仓储
type StoreConfigRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.StoreConfig, error)
	Get(ctx context.Context, userID int64, storeID string) (*model.StoreConfig, error)
	GetInstalled(ctx context.Context, storeID string) (*model.StoreConfig, error)
	ListInstalled(ctx context.Context) ([]model.StoreConfig, error)
	Upsert(ctx context.Context, cfg *model.StoreConfig) (*model.StoreConfig, error)
}

// ==================== 仓储实现 ====================

type storeConfigRepo struct {
	db *gorm.DB
}

// NewStoreConfigRepository 创建店铺配置仓储
func NewStoreConfigRepository(db *gorm.DB) StoreConfigRepository {
	return &storeConfigRepo{db: db}
}

// ListByUser 用户的全部店铺配置，最近更新的在前
func (r *storeConfigRepo) ListByUser(ctx context.Context, userID int64) ([]model.StoreConfig, error) {
	configs := make([]model.StoreConfig, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&configs).Error
	return configs, err
}

func (r *storeConfigRepo) Get(ctx context.Context, userID int64, storeID string) (*model.StoreConfig, error) {
	var cfg model.StoreConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

// GetInstalled 公开接口用，按店铺找到已安装的配置（及其所属用户）
func (r *storeConfigRepo) GetInstalled(ctx context.Context, storeID string) (*model.StoreConfig, error) {
	var cfg model.StoreConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND installed = ?", storeID, true).
		Order("updated_at DESC").
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

// ListInstalled 所有已安装的配置，巡检任务用
func (r *storeConfigRepo) ListInstalled(ctx context.Context) ([]model.StoreConfig, error) {
	var configs []model.StoreConfig
	err := r.db.WithContext(ctx).
		Where("installed = ?", true).
		Order("id ASC").
		Find(&configs).Error
	return configs, err
}

// Upsert 按 (user_id, store_id) 插入或更新，返回最新记录
func (r *storeConfigRepo) Upsert(ctx context.Context, cfg *model.StoreConfig) (*model.StoreConfig, error) {
	columns := []string{
		"store_name", "store_domain", "script_url", "script_tag",
		"installed", "installed_at", "updated_at",
	}
	// 卸载时不覆盖安装时的快照
	if len(cfg.StoreSnapshot) > 0 {
		columns = append(columns, "store_snapshot")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(cfg).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, cfg.UserID, cfg.StoreID)
}
