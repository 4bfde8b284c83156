package api

import (
	"context"
	"time"

	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// ProcessorRunner 周期处理器入口，便于测试时注入假实现
type ProcessorRunner interface {
	ProcessDueItems(ctx context.Context, asOf time.Time) (*service.ProcessResult, error)
}

// RecurringHandler 周期条目处理器触发接口
type RecurringHandler struct {
	processor ProcessorRunner
}

// NewRecurringHandler 创建周期条目触发处理器
func NewRecurringHandler(processor ProcessorRunner) *RecurringHandler {
	return &RecurringHandler{processor: processor}
}

// Run 触发一轮周期条目处理
// @Summary 触发周期条目处理
// @Description 供外部定时任务调用：处理所有已到期的周期条目，生成本期记录、推进模板到期日并给相关用户发送邮件通知。需携带 Authorization: Bearer <cron secret>
// @Tags 周期任务
// @Accept json
// @Produce json
// @Param as_of query string false "处理基准日期（默认当天），格式 2006-01-02"
// @Success 200 {object} Response "处理完成"
// @Failure 400 {object} Response "参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 500 {object} Response "处理失败"
// @Router /api/v1/cron/recurring [post]
func (h *RecurringHandler) Run(c *gin.Context) {
	// 基准时间整批取一次：默认当天零点，可通过 as_of 指定（用于补跑）
	asOf := service.Midnight(time.Now())
	if v := c.Query("as_of"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			BadRequest(c, "as_of 格式错误，应为: 2006-01-02")
			return
		}
		asOf = parsed
	}

	result, err := h.processor.ProcessDueItems(c.Request.Context(), asOf)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "周期条目处理失败"))
		return
	}

	SuccessWithMessage(c, "周期条目处理完成", gin.H{
		"as_of":               result.AsOf.Format("2006-01-02"),
		"processed":           result.ProcessedCount(),
		"failed":              result.FailureCount(),
		"items":               result.Processed,
		"failures":            result.Failures,
		"email_notifications": result.Emails,
	})
}

// ListRecurrences 获取所有可用的周期规则
// @Summary 获取周期规则列表
// @Tags 周期任务
// @Produce json
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/v1/recurrences [get]
func (h *RecurringHandler) ListRecurrences(c *gin.Context) {
	Success(c, models.GetRecurrences())
}
