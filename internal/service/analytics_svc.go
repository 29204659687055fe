package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"searchier/internal/model"
	"searchier/internal/repository"
)

// 统计窗口
const (
	dailyBuckets = 30
	topN         = 5
)

// AnalyticsSummary 用户维度的搜索统计快照，不缓存
type AnalyticsSummary struct {
	DailySearches []repository.DailyCount   `json:"dailySearches"`
	TopQueries    []repository.QueryCount   `json:"topQueries"`
	TopProducts   []repository.ProductCount `json:"topProducts"`
	TotalSearches int64                     `json:"totalSearches"`
	TotalClicks   int64                     `json:"totalClicks"`
}

// AnalyticsService 事件记录与统计
type AnalyticsService struct {
	repo repository.SearchEventRepository
	log  *zap.Logger
}

func NewAnalyticsService(repo repository.SearchEventRepository, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: log}
}

// Record 写入一条事件，只校验 userId、storeId、type，不去重
func (s *AnalyticsService) Record(ctx context.Context, event *model.SearchEvent) error {
	if event.UserID == 0 {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if event.StoreID == "" {
		return fmt.Errorf("%w: storeId is required", ErrValidation)
	}
	if event.Type != model.EventTypeSearch && event.Type != model.EventTypeClick {
		return fmt.Errorf("%w: type must be search or click", ErrValidation)
	}
	// 只追加，ID 与时间由数据库生成
	event.ID = 0
	return s.repo.Create(ctx, event)
}

// Summarize 跨店铺汇总用户的搜索数据
func (s *AnalyticsService) Summarize(ctx context.Context, userID int64) (*AnalyticsSummary, error) {
	daily, err := s.repo.DailySearches(ctx, userID, dailyBuckets)
	if err != nil {
		return nil, fmt.Errorf("统计每日搜索失败: %w", err)
	}
	queries, err := s.repo.TopQueries(ctx, userID, topN)
	if err != nil {
		return nil, fmt.Errorf("统计热门搜索词失败: %w", err)
	}
	products, err := s.repo.TopProducts(ctx, userID, topN)
	if err != nil {
		return nil, fmt.Errorf("统计热门商品失败: %w", err)
	}
	searches, err := s.repo.CountByType(ctx, userID, model.EventTypeSearch)
	if err != nil {
		return nil, err
	}
	clicks, err := s.repo.CountByType(ctx, userID, model.EventTypeClick)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		DailySearches: daily,
		TopQueries:    queries,
		TopProducts:   products,
		TotalSearches: searches,
		TotalClicks:   clicks,
	}
	// 没有数据时输出 [] 而不是 null
	if summary.DailySearches == nil {
		summary.DailySearches = []repository.DailyCount{}
	}
	if summary.TopQueries == nil {
		summary.TopQueries = []repository.QueryCount{}
	}
	if summary.TopProducts == nil {
		summary.TopProducts = []repository.ProductCount{}
	}
	return summary, nil
}
