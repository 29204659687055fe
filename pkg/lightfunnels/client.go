package lightfunnels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Lightfunnels GraphQL 客户端
// 单一 POST 端点 <LF_URL>/api/v2，不重试，不设超时，超时由调用方 ctx 控制
type Client struct {
	endpoint string
	http     *resty.Client
	log      *zap.Logger
}

// NewClient 创建客户端，baseURL 即 LF_URL
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := resty.New().
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/api/v2",
		http:     httpClient,
		log:      log,
	}
}

// GraphQLRequest 请求体
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse 响应体，data 延迟解码
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// Execute 执行一次 GraphQL 调用并把 data 解码到 out
func (c *Client) Execute(ctx context.Context, token, query string, variables map[string]interface{}, out interface{}) error {
	if token == "" {
		return ErrEmptyToken
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(GraphQLRequest{Query: query, Variables: variables}).
		Post(c.endpoint)
	if err != nil {
		c.log.Error("[Lightfunnels] 请求失败", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if resp.IsError() {
		c.log.Error("[Lightfunnels] 非成功状态码",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 512)),
		)
		return &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var payload GraphQLResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		c.log.Error("[Lightfunnels] 响应解析失败", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	if len(payload.Errors) > 0 {
		gqlErr := &GraphQLErrors{Errors: payload.Errors}
		c.log.Error("[Lightfunnels] GraphQL 返回错误", zap.String("errors", gqlErr.Error()))
		return gqlErr
	}

	data := bytes.TrimSpace(payload.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: missing data", ErrUnexpectedShape)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return nil
}

// ==================== 账号 ====================

// FetchAccount 获取当前 token 对应的账号，id 与 email 必须存在
func (c *Client) FetchAccount(ctx context.Context, token string) (*Account, error) {
	var data struct {
		Account *Account `json:"account"`
	}
	if err := c.Execute(ctx, token, accountQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Account == nil || data.Account.ID == "" {
		return nil, fmt.Errorf("%w: account is missing an id", ErrUnexpectedShape)
	}
	if data.Account.Email == "" {
		return nil, fmt.Errorf("%w: account is missing an email", ErrUnexpectedShape)
	}
	return data.Account, nil
}

// ==================== 店铺 ====================

// ListAccountStores 一次性拉取账号下所有店铺（上游不分页）
func (c *Client) ListAccountStores(ctx context.Context, token string) ([]Store, error) {
	var data struct {
		Account *struct {
			Stores []Store `json:"stores"`
		} `json:"account"`
	}
	if err := c.Execute(ctx, token, accountStoresQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Account == nil {
		return nil, fmt.Errorf("%w: account is null", ErrUnexpectedShape)
	}
	if data.Account.Stores == nil {
		return []Store{}, nil
	}
	return data.Account.Stores, nil
}

// GetHeaderScripts 读取店铺 header_scripts，为空时返回 ""
func (c *Client) GetHeaderScripts(ctx context.Context, token, storeID string) (string, error) {
	var data struct {
		Node *struct {
			HeaderScripts *string `json:"header_scripts"`
		} `json:"node"`
	}
	vars := map[string]interface{}{"id": storeID}
	if err := c.Execute(ctx, token, getStoreScriptsQuery, vars, &data); err != nil {
		return "", err
	}
	if data.Node == nil {
		return "", ErrNodeNotFound
	}
	if data.Node.HeaderScripts == nil {
		return "", nil
	}
	return *data.Node.HeaderScripts, nil
}

// UpdateHeaderScripts 整体覆盖店铺 header_scripts
func (c *Client) UpdateHeaderScripts(ctx context.Context, token, storeID, scripts string) error {
	vars := map[string]interface{}{
		"id": storeID,
		"node": map[string]interface{}{
			"header_scripts": scripts,
		},
	}
	var data struct {
		UpdateStore *struct {
			ID string `json:"id"`
		} `json:"updateStore"`
	}
	if err := c.Execute(ctx, token, updateStoreScriptsMutation, vars, &data); err != nil {
		return err
	}
	if data.UpdateStore == nil {
		return fmt.Errorf("%w: updateStore returned null", ErrUnexpectedShape)
	}
	return nil
}

// ==================== 商品 ====================

// SearchProducts 按 query 表达式分页搜索商品
func (c *Client) SearchProducts(ctx context.Context, token, query string, first int, after string) (*ProductConnection, error) {
	vars := map[string]interface{}{
		"query": query,
		"first": first,
	}
	if after != "" {
		vars["after"] = after
	}

	var data struct {
		Products *struct {
			Edges    []ProductEdge `json:"edges"`
			PageInfo PageInfo      `json:"pageInfo"`
		} `json:"products"`
	}
	if err := c.Execute(ctx, token, productsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, fmt.Errorf("%w: products is null", ErrUnexpectedShape)
	}

	edges := data.Products.Edges
	if edges == nil {
		edges = []ProductEdge{}
	}
	// 不支持向前翻页
	return &ProductConnection{
		Edges: edges,
		PageInfo: ProductPageInfo{
			PageInfo:        data.Products.PageInfo,
			HasPreviousPage: false,
			StartCursor:     nil,
		},
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
