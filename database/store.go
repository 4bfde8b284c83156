package database

import (
	"context"
	"fmt"
	"time"

	"budget/models"
	"budget/storage"

	"gorm.io/gorm"
)

// ItemStore 预算条目持久化接口
// 周期处理器只依赖该接口，不直接访问全局 DB，便于注入与测试
type ItemStore interface {
	// FindDue 查询已到期的周期条目（recurrence != once 且到期日 <= asOf），
	// 按 id 升序返回并预加载所属用户，本身不产生副作用
	FindDue(ctx context.Context, asOf time.Time) ([]models.BudgetItem, error)
	// CreateItem 新建预算条目
	CreateItem(ctx context.Context, item *models.BudgetItem) error
	// UpdateRecurrenceDate 推进模板条目的下次到期日
	UpdateRecurrenceDate(ctx context.Context, id uint, next time.Time) error
	// DeleteItem 删除条目并级联清理附件记录与文件
	DeleteItem(ctx context.Context, id uint) error
	// Transaction 在单个数据库事务中执行 fn，fn 返回错误则整体回滚
	Transaction(ctx context.Context, fn func(tx ItemStore) error) error
}

// GormItemStore 基于 gorm 的 ItemStore 实现
type GormItemStore struct {
	db    *gorm.DB
	files storage.FileAdapter
}

// NewItemStore 创建预算条目存储
// files 可为 nil，此时删除条目只清理数据库记录，不动磁盘文件
func NewItemStore(db *gorm.DB, files storage.FileAdapter) *GormItemStore {
	return &GormItemStore{db: db, files: files}
}

// FindDue 查询已到期的周期条目
func (s *GormItemStore) FindDue(ctx context.Context, asOf time.Time) ([]models.BudgetItem, error) {
	var items []models.BudgetItem
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("recurrence <> ? AND recurrence_date <= ?", models.RecurrenceOnce, asOf).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询到期条目失败: %w", err)
	}
	return items, nil
}

// CreateItem 新建预算条目
func (s *GormItemStore) CreateItem(ctx context.Context, item *models.BudgetItem) error {
	if err := item.ValidateRecurrence(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("创建预算条目失败: %w", err)
	}
	return nil
}

// UpdateRecurrenceDate 推进模板条目的下次到期日
func (s *GormItemStore) UpdateRecurrenceDate(ctx context.Context, id uint, next time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.BudgetItem{}).
		Where("id = ?", id).
		Update("recurrence_date", next)
	if result.Error != nil {
		return fmt.Errorf("更新到期日失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("更新到期日失败: 条目 %d 不存在", id)
	}
	return nil
}

// DeleteItem 删除条目并级联清理附件
func (s *GormItemStore) DeleteItem(ctx context.Context, id uint) error {
	var attachments []models.Attachment
	if err := s.db.WithContext(ctx).
		Where("budget_item_id = ?", id).
		Find(&attachments).Error; err != nil {
		return fmt.Errorf("查询附件失败: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_item_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BudgetItem{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("删除预算条目失败: %w", err)
	}

	// 数据库记录删除成功后再清理磁盘文件，失败不回滚只记录
	if s.files != nil {
		for _, a := range attachments {
			_ = s.files.Delete(a.FileURL)
		}
	}
	return nil
}

// Transaction 在单个数据库事务中执行 fn
// 事务内的 ItemStore 复用同一文件适配器
func (s *GormItemStore) Transaction(ctx context.Context, fn func(tx ItemStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormItemStore{db: tx, files: s.files})
	})
}
