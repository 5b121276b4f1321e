package port

// TemplateStore 外部管理的提示词模板存储。
// 未找到时返回 found=false 且 err=nil；err 仅表示读取失败。
type TemplateStore interface {
	Read(kind, platform string) (text string, found bool, err error)
}
