package scripttag

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidTag 传入的标签不是带 src 的 <script>
var ErrInvalidTag = errors.New("invalid script tag provided")

// Tag 解析后的 script 标签
type Tag struct {
	Src   string
	Attrs map[string]string
}

// StoreID data-searchier-store 属性
func (t Tag) StoreID() string { return t.Attrs["data-searchier-store"] }

// StoreSlug data-searchier-store-slug 属性
func (t Tag) StoreSlug() string { return t.Attrs["data-searchier-store-slug"] }

// Pattern 匹配 src 等于 scriptURL 的 <script> 标签
// scriptURL 中的正则元字符全部转义，只做字面匹配
func Pattern(scriptURL string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(scriptURL)
	return regexp.MustCompile(`(?i)<script[^>]*\ssrc=["']` + escaped + `["'][^>]*>(?:</script>)?`)
}

// Build 生成 widget 的 script 标签
// src 原样写入，保证 Pattern(scriptURL) 能匹配回来
func Build(scriptURL, storeID, storeSlug string) string {
	return fmt.Sprintf(
		`<script src="%s" data-searchier-store="%s" data-searchier-store-slug="%s" defer></script>`,
		scriptURL,
		html.EscapeString(storeID),
		html.EscapeString(storeSlug),
	)
}

// Install 去掉已有的同 src 标签后把 scriptTag 追加到末尾
// 结果与当前内容一致时返回原内容和 false，调用方据此跳过写回
func Install(currentHTML, scriptURL, scriptTag string) (string, bool) {
	cleaned := strip(currentHTML, Pattern(scriptURL))
	next := strings.TrimSpace(cleaned + "\n" + scriptTag)
	if next == strings.TrimSpace(currentHTML) {
		return currentHTML, false
	}
	return next, true
}

// Remove 去掉同 src 标签；空内容直接返回
func Remove(currentHTML, scriptURL string) (string, bool) {
	current := strings.TrimSpace(currentHTML)
	if current == "" {
		return currentHTML, false
	}
	cleaned := strip(currentHTML, Pattern(scriptURL))
	if cleaned == current {
		return currentHTML, false
	}
	return cleaned, true
}

// Contains 当前内容里是否已有该 src 的标签
func Contains(currentHTML, scriptURL string) bool {
	pattern := Pattern(scriptURL)
	for _, line := range strings.Split(currentHTML, "\n") {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// strip 逐行过滤，一行只认一个标签
func strip(currentHTML string, pattern *regexp.Regexp) string {
	lines := strings.Split(currentHTML, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if pattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ParseTag 解析第一个带 src 的 <script> 标签
func ParseTag(tag string) (Tag, error) {
	z := nethtml.NewTokenizer(strings.NewReader(tag))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return Tag{}, ErrInvalidTag
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Script {
				continue
			}
			attrs := make(map[string]string, len(tok.Attr))
			for _, a := range tok.Attr {
				attrs[strings.ToLower(a.Key)] = a.Val
			}
			src := strings.TrimSpace(attrs["src"])
			if src == "" {
				return Tag{}, ErrInvalidTag
			}
			return Tag{Src: src, Attrs: attrs}, nil
		}
	}
}
