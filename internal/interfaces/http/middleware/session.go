// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"reelsbot-ai-api/pkg/logger"
)

const (
	// SessionIDHeader 匿名会话头
	SessionIDHeader = "Session-ID"
	// SessionIDContextKey gin.Context 中的会话键
	SessionIDContextKey = "session_id"
	maxSessionIDLength  = 128
)

// Session 读取客户端会话标识，缺省时为空
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionIDHeader))
		if len(sessionID) > maxSessionIDLength {
			sessionID = sessionID[:maxSessionIDLength]
		}
		if sessionID != "" {
			c.Set(SessionIDContextKey, sessionID)
			ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sessionID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// GetSessionID 获取当前请求的会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDContextKey)
}
