package widget

import (
	"errors"
	"fmt"
	"net/url"

	"searchier/pkg/scripttag"
)

// ErrMissingStore script 标签缺少 data-searchier-store
var ErrMissingStore = errors.New("script tag has no data-searchier-store attribute")

// Embed 从店铺页面的 script 标签中读出的配置
type Embed struct {
	StoreID   string
	StoreSlug string
	ScriptURL string
	// APIBase script 所在源，公开接口都挂在这里
	APIBase string
}

// ParseEmbed 解析 widget 的 script 标签
func ParseEmbed(tag string) (Embed, error) {
	parsed, err := scripttag.ParseTag(tag)
	if err != nil {
		return Embed{}, err
	}
	if parsed.StoreID() == "" {
		return Embed{}, ErrMissingStore
	}

	src, err := url.Parse(parsed.Src)
	if err != nil {
		return Embed{}, fmt.Errorf("解析 script 地址失败: %w", err)
	}
	if src.Scheme == "" || src.Host == "" {
		return Embed{}, fmt.Errorf("script src must be absolute: %q", parsed.Src)
	}

	return Embed{
		StoreID:   parsed.StoreID(),
		StoreSlug: parsed.StoreSlug(),
		ScriptURL: parsed.Src,
		APIBase:   src.Scheme + "://" + src.Host,
	}, nil
}
