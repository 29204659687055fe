package model

import "time"

// SearchEvent widget 上报的搜索/点击事件，只追加不修改
// Postgres 下按 created_at 月分区，表结构见 pkg/database/partitions/search_events.sql
type SearchEvent struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64  `gorm:"index;not null" json:"userId"`
	StoreID string `gorm:"type:text;index;not null" json:"storeId"`
	Type    string `gorm:"size:16;index;not null" json:"type"`

	// search 事件
	Query        *string `gorm:"type:text" json:"query,omitempty"`
	ResultsCount *int    `json:"resultsCount,omitempty"`

	// click 事件
	ProductID   *string `gorm:"type:text" json:"productId,omitempty"`
	ProductName *string `gorm:"type:text" json:"productName,omitempty"`
	ProductSlug *string `gorm:"type:text" json:"productSlug,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (SearchEvent) TableName() string {
	return "search_events"
}

// ==================== 事件类型常量 ====================

const (
	EventTypeSearch = "search"
	EventTypeClick  = "click"
)
