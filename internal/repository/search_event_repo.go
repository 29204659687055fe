package repository

import (
	"context"

	"gorm.io/gorm"

	"searchier/internal/model"
)

// ==================== 仓储接口 ====================

// SearchEventRepository 搜索事件仓储，只追加，不提供修改/删除
type SearchEventRepository interface {
	Create(ctx context.Context, event *model.SearchEvent) error

	// 统计查询，均按用户维度（跨店铺）
	DailySearches(ctx context.Context, userID int64, days int) ([]DailyCount, error)
	TopQueries(ctx context.Context, userID int64, limit int) ([]QueryCount, error)
	TopProducts(ctx context.Context, userID int64, limit int) ([]ProductCount, error)
	CountByType(ctx context.Context, userID int64, eventType string) (int64, error)
}

// ==================== 统计结构 ====================

// DailyCount 每日搜索次数
type DailyCount struct {
	Date  string `gorm:"column:date" json:"date"`
	Count int64  `gorm:"column:total" json:"count"`
}

// QueryCount 搜索词频次，query 为空的归为一组
type QueryCount struct {
	Query *string `gorm:"column:query" json:"query"`
	Count int64   `gorm:"column:total" json:"count"`
}

// ProductCount 商品点击次数，按 name+slug 分组
type ProductCount struct {
	ProductName *string `gorm:"column:product_name" json:"productName"`
	ProductSlug *string `gorm:"column:product_slug" json:"productSlug"`
	Count       int64   `gorm:"column:total" json:"count"`
}

// ==================== 仓储实现 ====================

type searchEventRepo struct {
	db *gorm.DB
}

// NewSearchEventRepository 创建搜索事件仓储
func NewSearchEventRepository(db *gorm.DB) SearchEventRepository {
	return &searchEventRepo{db: db}
}

func (r *searchEventRepo) Create(ctx context.Context, event *model.SearchEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// DailySearches 最近 days 个有数据的日期桶，按日期正序
func (r *searchEventRepo) DailySearches(ctx context.Context, userID int64, days int) ([]DailyCount, error) {
	var rows []DailyCount
	err := r.db.WithContext(ctx).Model(&model.SearchEvent{}).
		Where("user_id = ? AND type = ?", userID, model.EventTypeSearch).
		Select("DATE(created_at) AS date, COUNT(*) AS total").
		Group("DATE(created_at)").
		Order("date DESC").
		Limit(days).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// 倒序取最近的桶，再翻转为正序
	result := make([]DailyCount, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		// Postgres DATE 扫描成 RFC3339 字符串，sqlite 是 YYYY-MM-DD
		if len(row.Date) > 10 {
			row.Date = row.Date[:10]
		}
		result = append(result, row)
	}
	return result, nil
}

func (r *searchEventRepo) TopQueries(ctx context.Context, userID int64, limit int) ([]QueryCount, error) {
	rows := make([]QueryCount, 0)
	err := r.db.WithContext(ctx).Model(&model.SearchEvent{}).
		Where("user_id = ? AND type = ?", userID, model.EventTypeSearch).
		Select("query, COUNT(*) AS total").
		Group("query").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *searchEventRepo) TopProducts(ctx context.Context, userID int64, limit int) ([]ProductCount, error) {
	rows := make([]ProductCount, 0)
	err := r.db.WithContext(ctx).Model(&model.SearchEvent{}).
		Where("user_id = ? AND type = ?", userID, model.EventTypeClick).
		Select("product_name, product_slug, COUNT(*) AS total").
		Group("product_name, product_slug").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *searchEventRepo) CountByType(ctx context.Context, userID int64, eventType string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.SearchEvent{}).
		Where("user_id = ? AND type = ?", userID, eventType).
		Count(&total).Error
	return total, err
}
