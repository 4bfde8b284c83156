package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProcessor 可控的处理器假实现
type fakeProcessor struct {
	result   *service.ProcessResult
	err      error
	calls    int
	lastAsOf time.Time
}

func (f *fakeProcessor) ProcessDueItems(_ context.Context, asOf time.Time) (*service.ProcessResult, error) {
	f.calls++
	f.lastAsOf = asOf
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		f.result.AsOf = asOf
		return f.result, nil
	}
	return &service.ProcessResult{AsOf: asOf}, nil
}

func newCronRouter(secret string, h *RecurringHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/cron")
	group.Use(middleware.CronAuth(secret))
	group.POST("/recurring", h.Run)
	return router
}

func TestRecurringHandler_Run(t *testing.T) {
	processor := &fakeProcessor{
		result: &service.ProcessResult{
			Processed: []service.ProcessedItem{
				{Original: models.BudgetItem{ID: 1}, Clone: models.BudgetItem{ID: 2}},
			},
			Emails: []service.EmailResult{
				{Email: "user@example.com", Count: 1, Success: true},
			},
		},
	}
	router := newCronRouter("top-secret", NewRecurringHandler(processor))

	req := httptest.NewRequest("POST", "/api/v1/cron/recurring", nil)
	req.Header.Set("Authorization", "Bearer top-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 1, processor.calls)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "周期条目处理完成", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["processed"])
	assert.Equal(t, float64(0), data["failed"])

	// 基准时间为当天零点
	assert.Equal(t, service.Midnight(time.Now()), processor.lastAsOf)
}

func TestRecurringHandler_Run_AsOfOverride(t *testing.T) {
	processor := &fakeProcessor{}
	router := newCronRouter("top-secret", NewRecurringHandler(processor))

	req := httptest.NewRequest("POST", "/api/v1/cron/recurring?as_of=2024-02-05", nil)
	req.Header.Set("Authorization", "Bearer top-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local), processor.lastAsOf)
}

func TestRecurringHandler_Run_InvalidAsOf(t *testing.T) {
	processor := &fakeProcessor{}
	router := newCronRouter("top-secret", NewRecurringHandler(processor))

	req := httptest.NewRequest("POST", "/api/v1/cron/recurring?as_of=05/02/2024", nil)
	req.Header.Set("Authorization", "Bearer top-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, 0, processor.calls)
}

func TestRecurringHandler_Run_ProcessorError(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("数据库连接失败")}
	router := newCronRouter("top-secret", NewRecurringHandler(processor))

	req := httptest.NewRequest("POST", "/api/v1/cron/recurring", nil)
	req.Header.Set("Authorization", "Bearer top-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 500, w.Code)
}

func TestRecurringHandler_Run_Unauthorized(t *testing.T) {
	processor := &fakeProcessor{}
	router := newCronRouter("top-secret", NewRecurringHandler(processor))

	req := httptest.NewRequest("POST", "/api/v1/cron/recurring", nil)
	req.Header.Set("Authorization", "Bearer wrong-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 鉴权失败时处理器不应被调用
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, processor.calls)
}

func TestRecurringHandler_ListRecurrences(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/recurrences", NewRecurringHandler(&fakeProcessor{}).ListRecurrences)

	req := httptest.NewRequest("GET", "/recurrences", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "monthly")
	assert.Contains(t, w.Body.String(), "biweekly")
}
