package model

import (
	"time"

	"gorm.io/datatypes"
)

// StoreConfig 店铺的 widget 安装配置
// (user_id, store_id) 唯一，只切换 installed，不物理删除
type StoreConfig struct {
	BaseModel
	UserID  int64  `gorm:"not null;uniqueIndex:idx_user_store" json:"userId"`
	StoreID string `gorm:"size:64;not null;uniqueIndex:idx_user_store;index:idx_store_installed" json:"storeId"`

	// 安装时的店铺信息冗余
	StoreName   string `gorm:"size:255" json:"storeName"`
	StoreDomain string `gorm:"size:255" json:"storeDomain"`

	ScriptURL string `gorm:"size:512" json:"scriptUrl"`
	ScriptTag string `gorm:"type:text" json:"scriptTag"`

	Installed   bool       `gorm:"index:idx_store_installed" json:"installed"`
	InstalledAt *time.Time `json:"installedAt"`

	// 安装时平台返回的完整店铺节点
	StoreSnapshot datatypes.JSON `json:"-"`
}

func (StoreConfig) TableName() string {
	return "store_configs"
}
