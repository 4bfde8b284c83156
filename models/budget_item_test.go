package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRecurrence(t *testing.T) {
	for _, r := range GetRecurrences() {
		assert.True(t, IsValidRecurrence(r), r)
	}
	assert.False(t, IsValidRecurrence(""))
	assert.False(t, IsValidRecurrence("hourly"))
}

func TestBudgetItem_SignedAmount(t *testing.T) {
	income := BudgetItem{Type: TypeIncome, Amount: 100.5}
	expense := BudgetItem{Type: TypeExpense, Amount: 42}

	assert.Equal(t, 100.5, income.SignedAmount())
	assert.Equal(t, -42.0, expense.SignedAmount())
}

func TestBudgetItem_ValidateRecurrence(t *testing.T) {
	date := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)

	// 周期条目 + 到期日：合法
	ok := BudgetItem{Type: TypeExpense, Recurrence: RecurrenceMonthly, RecurrenceDate: &date, Amount: 10}
	assert.NoError(t, ok.ValidateRecurrence())

	// once 条目不能带到期日
	bad := BudgetItem{Type: TypeExpense, Recurrence: RecurrenceOnce, RecurrenceDate: &date}
	assert.Error(t, bad.ValidateRecurrence())

	// 周期条目缺少到期日
	missing := BudgetItem{Type: TypeIncome, Recurrence: RecurrenceWeekly}
	assert.Error(t, missing.ValidateRecurrence())

	// 未知规则
	unknown := BudgetItem{Type: TypeExpense, Recurrence: "hourly"}
	assert.Error(t, unknown.ValidateRecurrence())

	// 未知收支类型
	badType := BudgetItem{Type: "transfer", Recurrence: RecurrenceOnce}
	assert.Error(t, badType.ValidateRecurrence())

	// 负数金额
	negative := BudgetItem{Type: TypeExpense, Recurrence: RecurrenceOnce, Amount: -1}
	assert.Error(t, negative.ValidateRecurrence())
}

func TestBudgetItem_IsRecurring(t *testing.T) {
	assert.False(t, (&BudgetItem{Recurrence: RecurrenceOnce}).IsRecurring())
	assert.False(t, (&BudgetItem{}).IsRecurring())
	assert.True(t, (&BudgetItem{Recurrence: RecurrenceDaily}).IsRecurring())
}
