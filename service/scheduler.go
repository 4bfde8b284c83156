package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"budget/config"

	"github.com/robfig/cron/v3"
)

// Scheduler 内置周期任务调度器
// 部署方也可以不启用它，改用外部 cron 调用 HTTP 触发接口，两者等价：
// 都只是周期性地以当天零点为基准调一次处理器
type Scheduler struct {
	cron      *cron.Cron
	processor *RecurringProcessor
	spec      string
}

// NewScheduler 创建调度器并注册周期任务
func NewScheduler(cfg config.CronConfig, processor *RecurringProcessor) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("无效的时区 %s: %w", cfg.Timezone, err)
		}
		loc = l
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		processor: processor,
		spec:      cfg.Spec,
	}

	if _, err := s.cron.AddFunc(cfg.Spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("无效的 cron 表达式 %s: %w", cfg.Spec, err)
	}

	return s, nil
}

// runOnce 执行一轮周期条目处理
func (s *Scheduler) runOnce() {
	asOf := Midnight(time.Now())
	result, err := s.processor.ProcessDueItems(context.Background(), asOf)
	if err != nil {
		log.Printf("定时任务执行失败: %v", err)
		return
	}
	log.Printf("定时任务执行完成: 成功 %d, 失败 %d",
		result.ProcessedCount(), result.FailureCount())
}

// Start 启动调度器（异步，立即返回）
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("内置调度器已启动: %s", s.spec)
}

// Stop 停止调度器并等待运行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("内置调度器已停止")
}

// EntryCount 已注册的任务数
func (s *Scheduler) EntryCount() int {
	return len(s.cron.Entries())
}
