package dto

import (
	"math"
	"strconv"
	"strings"
)

// ================== Product DTO ==================

// ProductSearchReq 公开商品搜索参数
type ProductSearchReq struct {
	StoreID string `form:"storeId"`
	Q       string `form:"q"`
	Cursor  string `form:"cursor"`
	First   string `form:"first"` // 非数字按未传处理
	IDs     string `form:"ids"`   // 逗号分隔的商品 ID
}

// FirstValue 解析 first，0 表示未传
func (r ProductSearchReq) FirstValue() int {
	return ParseFirst(r.First)
}

// IDList 拆分 ids
func (r ProductSearchReq) IDList() []string {
	if strings.TrimSpace(r.IDs) == "" {
		return nil
	}
	ids := make([]string, 0)
	for _, id := range strings.Split(r.IDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseFirst 宽松解析分页大小：小数截断，非数字返回 0
func ParseFirst(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}
