package service

import (
	"context"
	"log"
	"sort"
	"time"

	"budget/database"
	"budget/models"
)

// NotifyOutcome 通知结果，投递失败不向外抛错误
type NotifyOutcome struct {
	Success bool
	Reason  string
}

// Notifier 到期条目通知接口
type Notifier interface {
	Notify(email string, items []models.BudgetItem) NotifyOutcome
}

// ProcessedItem 单个条目的处理结果：推进后的模板与新生成的记录
type ProcessedItem struct {
	Original models.BudgetItem `json:"original"`
	Clone    models.BudgetItem `json:"clone"`
}

// ItemFailure 单个条目的处理失败记录
type ItemFailure struct {
	ItemID uint   `json:"item_id"`
	UserID uint   `json:"user_id"`
	Reason string `json:"reason"`
}

// EmailResult 单个用户的通知结果
type EmailResult struct {
	Email   string `json:"email"`
	Count   int    `json:"count"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// ProcessResult 一次周期处理的汇总结果
type ProcessResult struct {
	AsOf      time.Time       `json:"as_of"`
	Processed []ProcessedItem `json:"processed"`
	Failures  []ItemFailure   `json:"failures"`
	Emails    []EmailResult   `json:"email_notifications"`
}

// ProcessedCount 成功处理的条目数
func (r *ProcessResult) ProcessedCount() int { return len(r.Processed) }

// FailureCount 处理失败的条目数
func (r *ProcessResult) FailureCount() int { return len(r.Failures) }

// RecurringProcessor 周期条目处理器
// 依赖均通过构造函数注入，不访问任何全局状态
type RecurringProcessor struct {
	store    database.ItemStore
	notifier Notifier
}

// NewRecurringProcessor 创建周期条目处理器
func NewRecurringProcessor(store database.ItemStore, notifier Notifier) *RecurringProcessor {
	return &RecurringProcessor{store: store, notifier: notifier}
}

// ProcessDueItems 处理所有已到期的周期条目
//
// 对每个到期条目（按 id 升序）：计算下一个周期日期，生成一条复制了
// 名称/金额/类型/类别/周期/备注/归属的新记录，并把模板条目的到期日推进到
// 同一日期；新建与推进在同一事务中完成。单个条目失败只记录不中断，
// 后续条目继续处理。全部处理完后按用户分组，给每个有新记录且留有邮箱的
// 用户发送一封汇总通知；通知失败同样只记录，不回滚已提交的数据。
//
// asOf 在一批开始时取定，整批使用同一基准时间；条目之间检查 ctx 取消。
// 返回 error 仅表示批处理本身没有跑起来（查询失败或 ctx 取消）。
func (p *RecurringProcessor) ProcessDueItems(ctx context.Context, asOf time.Time) (*ProcessResult, error) {
	result := &ProcessResult{AsOf: asOf}

	items, err := p.store.FindDue(ctx, asOf)
	if err != nil {
		return nil, err
	}
	log.Printf("周期条目处理开始: 到期 %d 条, asOf=%s", len(items), asOf.Format("2006-01-02"))

	clonesByUser := make(map[uint][]models.BudgetItem)
	emailByUser := make(map[uint]string)

	for i := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item := items[i]

		// 防御：到期查询只返回周期条目，到期日不应为空
		if item.RecurrenceDate == nil {
			result.Failures = append(result.Failures, ItemFailure{
				ItemID: item.ID, UserID: item.UserID, Reason: "周期条目缺少到期日",
			})
			continue
		}

		next, err := NextRecurrenceFrom(*item.RecurrenceDate, asOf, item.Recurrence)
		if err != nil {
			result.Failures = append(result.Failures, ItemFailure{
				ItemID: item.ID, UserID: item.UserID, Reason: err.Error(),
			})
			continue
		}

		// 本期入账记录：复制模板内容，身份与时间戳全新
		clone := models.BudgetItem{
			UserID:         item.UserID,
			Name:           item.Name,
			Amount:         item.Amount,
			Type:           item.Type,
			Category:       item.Category,
			Recurrence:     item.Recurrence,
			RecurrenceDate: &next,
			Note:           item.Note,
		}

		// 新建记录与推进模板必须同进同退
		err = p.store.Transaction(ctx, func(tx database.ItemStore) error {
			if err := tx.CreateItem(ctx, &clone); err != nil {
				return err
			}
			return tx.UpdateRecurrenceDate(ctx, item.ID, next)
		})
		if err != nil {
			log.Printf("条目 %d 处理失败: %v", item.ID, err)
			result.Failures = append(result.Failures, ItemFailure{
				ItemID: item.ID, UserID: item.UserID, Reason: err.Error(),
			})
			continue
		}

		updated := item
		updated.RecurrenceDate = &next
		result.Processed = append(result.Processed, ProcessedItem{Original: updated, Clone: clone})

		clonesByUser[item.UserID] = append(clonesByUser[item.UserID], clone)
		emailByUser[item.UserID] = item.User.Email
	}

	// 按用户汇总通知，用户顺序固定便于测试与排查
	userIDs := make([]uint, 0, len(clonesByUser))
	for id := range clonesByUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	for _, userID := range userIDs {
		email := emailByUser[userID]
		if email == "" {
			log.Printf("用户 %d 未设置邮箱，跳过通知", userID)
			continue
		}
		outcome := p.notifier.Notify(email, clonesByUser[userID])
		if !outcome.Success {
			log.Printf("用户 %s 通知发送失败: %s", email, outcome.Reason)
		}
		result.Emails = append(result.Emails, EmailResult{
			Email:   email,
			Count:   len(clonesByUser[userID]),
			Success: outcome.Success,
			Reason:  outcome.Reason,
		})
	}

	log.Printf("周期条目处理完成: 成功 %d, 失败 %d, 通知 %d",
		result.ProcessedCount(), result.FailureCount(), len(result.Emails))
	return result, nil
}
