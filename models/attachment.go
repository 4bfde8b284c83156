package models

import "time"

// Attachment 预算条目附件
// 随所属条目级联删除
type Attachment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BudgetItemID uint      `json:"budget_item_id" gorm:"index;not null"`
	Filename     string    `json:"filename" gorm:"size:255;not null"`
	FileType     string    `json:"file_type" gorm:"size:100"`
	FileURL      string    `json:"file_url" gorm:"size:500;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 设置表名
func (Attachment) TableName() string {
	return "attachments"
}
