package dto

import "searchier/pkg/lightfunnels"

// ================== Store && StoreConfig DTO ==================

// StoreListReq 账号店铺列表参数
type StoreListReq struct {
	Q      string `form:"q"`
	Cursor string `form:"cursor"`
	First  string `form:"first"`
}

// FirstValue 解析 first，0 表示未传
func (r StoreListReq) FirstValue() int {
	return ParseFirst(r.First)
}

// StoreConfigReq 安装/卸载请求体
type StoreConfigReq struct {
	Store *lightfunnels.Store `json:"store"`
}

// StoreNode 请求中的店铺，缺少 id 时返回 false
func (r StoreConfigReq) StoreNode() (lightfunnels.Store, bool) {
	if r.Store == nil || r.Store.ID == "" {
		return lightfunnels.Store{}, false
	}
	return *r.Store, true
}
