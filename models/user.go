package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
// 认证协议由外部网关负责，这里只保留预算数据关联所需的字段
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email     string         `json:"email" gorm:"size:100"` // 为空则不发送周期记账通知
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
