package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 公共字段，JSON 与前端约定为 camelCase
type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
