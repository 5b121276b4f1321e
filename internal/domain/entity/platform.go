// Package entity 定义领域实体
package entity

import "strings"

// Platform 目标短视频平台
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// Platforms 返回支持的平台列表
func Platforms() []Platform {
	return []Platform{PlatformInstagram, PlatformYouTube, PlatformTikTok}
}

// ParsePlatform 解析平台名称，大小写不敏感
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Valid 是否为支持的平台
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTikTok:
		return true
	}
	return false
}

// String 实现 fmt.Stringer
func (p Platform) String() string {
	return string(p)
}
