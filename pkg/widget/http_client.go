package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"searchier/pkg/lightfunnels"
)

// HTTPClient 调用公开接口，实现 Fetcher 与 EventSink
type HTTPClient struct {
	http *resty.Client
}

// NewHTTPClient apiBase 为 script 所在源
func NewHTTPClient(apiBase string) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(apiBase, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &HTTPClient{http: client}
}

// FetchProducts GET /api/products
func (c *HTTPClient) FetchProducts(ctx context.Context, storeID, query, cursor string, first int) (*lightfunnels.ProductConnection, error) {
	params := map[string]string{
		"storeId": storeID,
		"first":   strconv.Itoa(first),
	}
	if query != "" {
		params["q"] = query
	}
	if cursor != "" {
		params["cursor"] = cursor
	}

	var conn lightfunnels.ProductConnection
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&conn).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("请求商品失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch products: status %d", resp.StatusCode())
	}
	return &conn, nil
}

// SendEvent POST /api/searchier/events
func (c *HTTPClient) SendEvent(ctx context.Context, event Event) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post("/api/searchier/events")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("event rejected: status %d", resp.StatusCode())
	}
	return nil
}
