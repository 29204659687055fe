package dto

import "searchier/internal/model"

// ================== Search Event DTO ==================

// SearchEventReq widget 上报的事件
type SearchEventReq struct {
	StoreID      string  `json:"storeId" binding:"required"`
	Type         string  `json:"type" binding:"required,oneof=search click"`
	Query        *string `json:"query"`
	ResultsCount *int    `json:"resultsCount" binding:"omitempty,min=0"`
	ProductID    *string `json:"productId"`
	ProductName  *string `json:"productName"`
	ProductSlug  *string `json:"productSlug"`
}

// ToModel 归属到店铺所属用户
func (r SearchEventReq) ToModel(userID int64) *model.SearchEvent {
	return &model.SearchEvent{
		UserID:       userID,
		StoreID:      r.StoreID,
		Type:         r.Type,
		Query:        r.Query,
		ResultsCount: r.ResultsCount,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		ProductSlug:  r.ProductSlug,
	}
}
