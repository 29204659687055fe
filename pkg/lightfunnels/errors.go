package lightfunnels

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstream 平台返回错误（GraphQL errors / 非 2xx / 响应结构异常）
	ErrUpstream = errors.New("lightfunnels request failed")
	// ErrFetchFailed 网络层失败
	ErrFetchFailed = errors.New("lightfunnels fetch failed")
	// ErrUnexpectedShape 响应结构与约定不符，按失败处理
	ErrUnexpectedShape = fmt.Errorf("%w: unexpected response shape", ErrUpstream)
	// ErrNodeNotFound node(id) 查询返回 null
	ErrNodeNotFound = fmt.Errorf("%w: node not found", ErrUpstream)
	// ErrEmptyToken 调用方未提供 access token
	ErrEmptyToken = errors.New("missing Lightfunnels access token")
)

// GraphQLError 单条 GraphQL 错误
type GraphQLError struct {
	Key     string        `json:"key,omitempty"`
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// GraphQLErrors errors 数组非空即整体失败，即使 data 有部分数据
type GraphQLErrors struct {
	Errors []GraphQLError
}

func (e *GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msg := item.Message
		if msg == "" {
			msg = item.Key
		}
		msgs = append(msgs, msg)
	}
	return "lightfunnels graphql errors: " + strings.Join(msgs, "; ")
}

func (e *GraphQLErrors) Unwrap() error { return ErrUpstream }

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lightfunnels api error: status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }
