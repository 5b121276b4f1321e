// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"reelsbot-ai-api/internal/config"
)

// RegisterV1Routes 注册 v1 版本路由，功能开关关闭的路由不注册
func RegisterV1Routes(v1 *gin.RouterGroup, h *RouterHandlers, features config.FeaturesConfig) {
	// 内容生成
	content := v1.Group("/content")
	{
		content.POST("/generate", h.Content.Generate)
		if features.AsyncGeneration.Enabled {
			content.POST("/generate/async", h.Content.GenerateAsync)
		}
		content.GET("/scripts", h.Content.ListScripts)
		content.GET("/scripts/:id", h.Content.GetScript)
		content.GET("/requests/:id", h.Content.GetRequest)
	}

	// 趋势分析
	if features.Trends.Enabled {
		trends := v1.Group("/trends")
		{
			trends.GET("", h.Trend.GetTrends)
			trends.GET("/insights", h.Trend.GetInsights)
		}
	}

	// 音乐推荐
	if features.Music.Enabled {
		v1.GET("/music/suggestions", h.Music.GetSuggestions)
	}
}
