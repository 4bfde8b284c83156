package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CronAuth 定时触发接口鉴权中间件
// 校验 Authorization: Bearer <secret>，密钥未配置时直接拒绝所有请求
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "未配置定时任务密钥"})
			c.Abort()
			return
		}

		auth := c.GetHeader("Authorization")
		expect := "Bearer " + secret
		// 常数时间比较，避免时序侧信道
		if subtle.ConstantTimeCompare([]byte(auth), []byte(expect)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "未授权"})
			c.Abort()
			return
		}

		c.Next()
	}
}
