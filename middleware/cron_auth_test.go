package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCronAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CronAuth("top-secret"))
	router.POST("/cron", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/cron", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 正确密钥放行
	assert.Equal(t, 200, doReq("Bearer top-secret").Code)

	// 错误密钥、缺少头、格式错误均拒绝
	assert.Equal(t, http.StatusUnauthorized, doReq("Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doReq("").Code)
	assert.Equal(t, http.StatusUnauthorized, doReq("top-secret").Code)
}

func TestCronAuth_EmptySecretRejectsAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CronAuth(""))
	router.POST("/cron", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// 未配置密钥时即使带空 Bearer 也拒绝
	req := httptest.NewRequest("POST", "/cron", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "密钥")
}
