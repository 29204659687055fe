package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"searchier/pkg/lightfunnels"
)

// StoreListInput 店铺列表参数
type StoreListInput struct {
	UserID int64
	Search string
	Cursor string
	First  int
}

// StoreService 店铺列表代理
// 上游一次返回全部店铺，过滤和分页在本地完成
type StoreService struct {
	tokens *TokenService
	api    LightfunnelsAPI
	log    *zap.Logger
}

func NewStoreService(tokens *TokenService, api LightfunnelsAPI, log *zap.Logger) *StoreService {
	return &StoreService{tokens: tokens, api: api, log: log}
}

// List 拉取账号店铺后本地过滤、分页
func (s *StoreService) List(ctx context.Context, in StoreListInput) (*lightfunnels.StoreConnection, error) {
	stores, err := s.fetch(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	conn := PaginateStores(stores, in.Search, in.Cursor, in.First)
	return &conn, nil
}

// GetStore 在账号店铺中按 ID 查找
func (s *StoreService) GetStore(ctx context.Context, userID int64, storeID string) (*lightfunnels.Store, error) {
	stores, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range stores {
		if stores[i].ID == storeID {
			return &stores[i], nil
		}
	}
	return nil, ErrStoreNotFound
}

func (s *StoreService) fetch(ctx context.Context, userID int64) ([]lightfunnels.Store, error) {
	token, err := s.tokens.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	stores, err := s.api.ListAccountStores(ctx, token)
	if err != nil {
		s.log.Error("[StoreService] 获取店铺列表失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return stores, nil
}

// ==================== 本地过滤与分页 ====================

// PaginateStores cursor 为上一页最后一个店铺 ID，找不到时从头开始
func PaginateStores(stores []lightfunnels.Store, search, cursor string, first int) lightfunnels.StoreConnection {
	term := strings.ToLower(strings.TrimSpace(search))

	filtered := make([]lightfunnels.Store, 0, len(stores))
	for _, store := range stores {
		if matchesSearch(store, term) {
			filtered = append(filtered, store)
		}
	}

	start := 0
	if cursor != "" {
		for i, store := range filtered {
			if store.ID == cursor {
				start = i + 1
				break
			}
		}
	}

	limit := ClampFirst(first)
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := filtered[start:end]

	edges := make([]lightfunnels.StoreEdge, 0, len(page))
	for _, store := range page {
		edges = append(edges, lightfunnels.StoreEdge{Cursor: store.ID, Node: store})
	}

	var endCursor *string
	if len(page) > 0 {
		id := page[len(page)-1].ID
		endCursor = &id
	}

	return lightfunnels.StoreConnection{
		Edges: edges,
		PageInfo: lightfunnels.PageInfo{
			HasNextPage: start+limit < len(filtered),
			EndCursor:   endCursor,
		},
	}
}

// matchesSearch 名称、slug、主域名、默认域名拼接后做不区分大小写的子串匹配
func matchesSearch(store lightfunnels.Store, term string) bool {
	if term == "" {
		return true
	}
	fields := make([]string, 0, 4)
	for _, v := range []string{store.Name, store.Slug, primaryDomainName(store), deref(store.DefaultDomain)} {
		if v != "" {
			fields = append(fields, v)
		}
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), term)
}

func primaryDomainName(store lightfunnels.Store) string {
	if store.PrimaryDomain == nil {
		return ""
	}
	return deref(store.PrimaryDomain.Name)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
