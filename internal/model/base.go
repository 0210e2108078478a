package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 持久化记录的公共字段，ID 由 snowflake 生成
type BaseModel struct {
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ID        int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Version   int64          `gorm:"not null;default:1" json:"version"`
}
