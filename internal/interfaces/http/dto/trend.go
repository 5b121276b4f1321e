package dto

// TrendQuery 趋势查询参数
type TrendQuery struct {
	Topic    string `form:"topic" binding:"required,min=1,max=200"`
	Platform string `form:"platform" binding:"required,oneof=instagram youtube tiktok"`
}

// MusicQuery 音乐推荐查询参数
type MusicQuery struct {
	Topic    string `form:"topic" binding:"required,min=1,max=200"`
	Tone     string `form:"tone" binding:"required,min=1,max=100"`
	Platform string `form:"platform" binding:"required,oneof=instagram youtube tiktok"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=20"`
}
