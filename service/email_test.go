package service

import (
	"testing"

	"budget/config"
	"budget/models"

	"github.com/stretchr/testify/assert"
)

func newTestEmailNotifier() *EmailNotifier {
	return NewEmailNotifier(&config.EmailConfig{})
}

func TestNotify_DisabledReturnsFailure(t *testing.T) {
	s := newTestEmailNotifier()
	outcome := s.Notify("user@example.com", []models.BudgetItem{{Name: "房租"}})

	// 未启用邮件服务：返回失败结果而不是 panic 或 error
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Reason, "邮件服务未启用")
}

func TestNotify_EmptyItemsIsNoop(t *testing.T) {
	s := NewEmailNotifier(&config.EmailConfig{Enabled: true})
	outcome := s.Notify("user@example.com", nil)
	assert.True(t, outcome.Success)
}

func TestGenerateRecurringEmailBody(t *testing.T) {
	s := newTestEmailNotifier()
	items := []models.BudgetItem{
		{Name: "工资", Amount: 10000, Type: models.TypeIncome, Category: "薪酬", Recurrence: models.RecurrenceMonthly},
		{Name: "房租", Amount: 3000, Type: models.TypeExpense, Category: "住房", Recurrence: models.RecurrenceMonthly},
	}

	body := s.generateRecurringEmailBody(items)

	// 明细表格
	assert.Contains(t, body, "工资")
	assert.Contains(t, body, "￥10000.00")
	assert.Contains(t, body, "房租")
	assert.Contains(t, body, "￥3000.00")
	assert.Contains(t, body, "收入")
	assert.Contains(t, body, "支出")
	assert.Contains(t, body, "每月")

	// 净影响 = 10000 - 3000
	assert.Contains(t, body, "￥7000.00")
	assert.Contains(t, body, "收入为主")
}

func TestGenerateRecurringEmailBody_NegativeTotal(t *testing.T) {
	s := newTestEmailNotifier()
	items := []models.BudgetItem{
		{Name: "房租", Amount: 3000, Type: models.TypeExpense, Category: "住房", Recurrence: models.RecurrenceMonthly},
	}

	body := s.generateRecurringEmailBody(items)
	assert.Contains(t, body, "￥-3000.00")
	assert.Contains(t, body, "支出为主")
}

func TestRecurrenceLabel(t *testing.T) {
	assert.Equal(t, "每天", recurrenceLabel(models.RecurrenceDaily))
	assert.Equal(t, "每周", recurrenceLabel(models.RecurrenceWeekly))
	assert.Equal(t, "每两周", recurrenceLabel(models.RecurrenceBiweekly))
	assert.Equal(t, "每月", recurrenceLabel(models.RecurrenceMonthly))
	assert.Equal(t, "每年", recurrenceLabel(models.RecurrenceYearly))
	assert.Equal(t, "一次性", recurrenceLabel(models.RecurrenceOnce))
}
