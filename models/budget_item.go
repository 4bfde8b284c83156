package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BudgetItem 预算条目模型
// 周期条目（Recurrence != once）作为模板存在：每次到期会生成一条独立的
// 新记录，模板自身只推进 RecurrenceDate，不改变身份
type BudgetItem struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	Name           string         `json:"name" gorm:"size:100;not null"`
	Amount         float64        `json:"amount" gorm:"type:decimal(10,2);not null"` // 金额恒为非负，收支方向由 Type 表示
	Type           string         `json:"type" gorm:"size:20;not null"`
	Category       string         `json:"category" gorm:"size:50;not null"`
	Recurrence     string         `json:"recurrence" gorm:"size:20;not null;default:once;index"`
	RecurrenceDate *time.Time     `json:"recurrence_date" gorm:"index"` // 下次到期日，once 条目为 NULL
	Note           string         `json:"note" gorm:"size:1000"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
	Attachments    []Attachment   `json:"attachments" gorm:"foreignKey:BudgetItemID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (BudgetItem) TableName() string {
	return "budget_items"
}

// Type 收支类型常量
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Recurrence 周期规则常量
const (
	RecurrenceOnce     = "once"
	RecurrenceDaily    = "daily"
	RecurrenceWeekly   = "weekly"
	RecurrenceBiweekly = "biweekly"
	RecurrenceMonthly  = "monthly"
	RecurrenceYearly   = "yearly"
)

// GetTypes 获取所有收支类型
func GetTypes() []string {
	return []string{TypeIncome, TypeExpense}
}

// GetRecurrences 获取所有周期规则
func GetRecurrences() []string {
	return []string{
		RecurrenceOnce,
		RecurrenceDaily,
		RecurrenceWeekly,
		RecurrenceBiweekly,
		RecurrenceMonthly,
		RecurrenceYearly,
	}
}

// IsValidRecurrence 校验周期规则取值
func IsValidRecurrence(r string) bool {
	for _, v := range GetRecurrences() {
		if v == r {
			return true
		}
	}
	return false
}

// IsRecurring 是否为周期条目
func (b *BudgetItem) IsRecurring() bool {
	return b.Recurrence != "" && b.Recurrence != RecurrenceOnce
}

// SignedAmount 带符号金额：收入为正，支出为负
func (b *BudgetItem) SignedAmount() float64 {
	if b.Type == TypeExpense {
		return -b.Amount
	}
	return b.Amount
}

// IsValidType 校验收支类型取值
func IsValidType(t string) bool {
	for _, v := range GetTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// ValidateRecurrence 校验周期规则与到期日的配套关系：
// 周期条目必须有到期日，一次性条目不能有到期日
func (b *BudgetItem) ValidateRecurrence() error {
	if !IsValidType(b.Type) {
		return fmt.Errorf("无效的收支类型: %s", b.Type)
	}
	if !IsValidRecurrence(b.Recurrence) {
		return fmt.Errorf("无效的周期规则: %s", b.Recurrence)
	}
	if b.IsRecurring() && b.RecurrenceDate == nil {
		return fmt.Errorf("周期条目必须设置到期日")
	}
	if !b.IsRecurring() && b.RecurrenceDate != nil {
		return fmt.Errorf("一次性条目不能设置到期日")
	}
	if b.Amount < 0 {
		return fmt.Errorf("金额不能为负数")
	}
	return nil
}
