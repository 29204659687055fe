package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"searchier/pkg/lightfunnels"
)

// 分页大小
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ClampFirst 0 或缺省取默认值，其余收敛到 [1, 50]
func ClampFirst(first int) int {
	if first == 0 {
		return DefaultPageSize
	}
	if first < 1 {
		return 1
	}
	if first > MaxPageSize {
		return MaxPageSize
	}
	return first
}

// BuildQueryString 拼接平台的商品查询表达式
// 顺序: "搜索词" stores:"id" id:a,b order_by:id order_dir:desc，缺省片段直接跳过
func BuildQueryString(search, storeID string, ids []string) string {
	parts := make([]string, 0, 4)
	if term := strings.TrimSpace(search); term != "" {
		parts = append(parts, `"`+term+`"`)
	}
	if storeID != "" {
		parts = append(parts, `stores:"`+storeID+`"`)
	}
	if len(ids) > 0 {
		parts = append(parts, "id:"+strings.Join(ids, ","))
	}
	parts = append(parts, "order_by:id order_dir:desc")
	return strings.Join(parts, " ")
}

// ProductSearchInput 商品搜索参数
type ProductSearchInput struct {
	UserID  int64
	StoreID string
	Search  string
	After   string
	First   int
	IDs     []string
}

// ProductService 商品搜索代理
type ProductService struct {
	tokens *TokenService
	api    LightfunnelsAPI
	log    *zap.Logger
}

func NewProductService(tokens *TokenService, api LightfunnelsAPI, log *zap.Logger) *ProductService {
	return &ProductService{tokens: tokens, api: api, log: log}
}

// Search 单次上游调用，结果原样透传
func (s *ProductService) Search(ctx context.Context, in ProductSearchInput) (*lightfunnels.ProductConnection, error) {
	token, err := s.tokens.Lookup(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	query := BuildQueryString(in.Search, in.StoreID, in.IDs)
	first := ClampFirst(in.First)

	conn, err := s.api.SearchProducts(ctx, token, query, first, in.After)
	if err != nil {
		s.log.Error("[ProductService] 搜索商品失败",
			zap.Int64("user_id", in.UserID),
			zap.String("store_id", in.StoreID),
			zap.Error(err),
		)
		return nil, err
	}
	return conn, nil
}
