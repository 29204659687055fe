package widget

import (
	"context"
	"strings"

	"searchier/pkg/lightfunnels"
)

// 每页数量：有搜索词 8 条，默认列表 4 条
const (
	QueryPageSize   = 8
	DefaultPageSize = 4
)

// 事件类型
const (
	EventSearch = "search"
	EventClick  = "click"
)

// Fetcher 拉取商品分页
type Fetcher interface {
	FetchProducts(ctx context.Context, storeID, query, cursor string, first int) (*lightfunnels.ProductConnection, error)
}

// EventSink 上报分析事件
type EventSink interface {
	SendEvent(ctx context.Context, event Event) error
}

// Event 与 POST /api/searchier/events 的请求体一致
type Event struct {
	StoreID      string  `json:"storeId"`
	Type         string  `json:"type"`
	Query        *string `json:"query,omitempty"`
	ResultsCount *int    `json:"resultsCount,omitempty"`
	ProductID    *string `json:"productId,omitempty"`
	ProductName  *string `json:"productName,omitempty"`
	ProductSlug  *string `json:"productSlug,omitempty"`
}

// ProductSlug slug 为空时取 ID 最后一个下划线之后的部分
func ProductSlug(p lightfunnels.Product) string {
	if p.Slug != "" {
		return p.Slug
	}
	if i := strings.LastIndex(p.ID, "_"); i >= 0 {
		return p.ID[i+1:]
	}
	return p.ID
}

// ProductPath 商品详情页路径
func ProductPath(p lightfunnels.Product) string {
	return "/products/" + ProductSlug(p)
}
