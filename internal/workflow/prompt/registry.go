package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"reelsbot-ai-api/internal/workflow/port"
	"reelsbot-ai-api/pkg/logger"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// Kind 模板类别
type Kind string

const (
	KindContentGeneration Kind = "content_generation"
	KindHookGeneration    Kind = "hook_generation"
	KindHashtagGeneration Kind = "hashtag_generation"
)

// GeneralPlatform 平台无关模板的占位平台名
const GeneralPlatform = "general"

// genericFallback 未知类别的兜底模板
const genericFallback = "Generate content about {topic} for {platform} with {tone} tone targeting {target_audience}."

// 模板占位符
const (
	VarTopic                  = "topic"
	VarPlatform               = "platform"
	VarTone                   = "tone"
	VarTargetAudience         = "target_audience"
	VarAdditionalRequirements = "additional_requirements"
	VarTrendsData             = "trends_data"
	VarPlatformSpecs          = "platform_specs"
)

// Registry 模板提供者：存储 (kind, platform) -> (kind, general) -> 内置默认 -> 通用兜底。
// 加载结果按 (kind, platform) 缓存至进程结束。
type Registry struct {
	store port.TemplateStore

	mu    sync.RWMutex
	cache map[string]string
}

// NewRegistry 创建模板提供者，store 可为 nil
func NewRegistry(store port.TemplateStore) *Registry {
	return &Registry{
		store: store,
		cache: make(map[string]string),
	}
}

// Template 返回 (kind, platform) 对应的模板文本，永远非空
func (r *Registry) Template(ctx context.Context, kind Kind, platform string) string {
	key := cacheKey(kind, platform)

	r.mu.RLock()
	if text, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return text
	}
	r.mu.RUnlock()

	text := r.load(ctx, kind, platform)

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		text = cached
	} else {
		r.cache[key] = text
	}
	r.mu.Unlock()
	return text
}

// ChatTemplate 返回 FString 格式的 eino 模板
func (r *Registry) ChatTemplate(ctx context.Context, kind Kind, platform string) einoprompt.ChatTemplate {
	return fstring(r.Template(ctx, kind, platform))
}

// Render 渲染模板。存储模板格式错误时退回内置默认模板。
func (r *Registry) Render(ctx context.Context, kind Kind, platform string, vars map[string]any) (string, error) {
	text := r.Template(ctx, kind, platform)
	out, err := format(ctx, text, vars)
	if err == nil {
		return out, nil
	}

	def := defaultTemplate(kind)
	if def == text {
		return "", fmt.Errorf("render template %s: %w", cacheKey(kind, platform), err)
	}
	logger.Warn(ctx, "stored template failed to render, using built-in default",
		"kind", string(kind),
		"platform", platform,
		"error", err.Error(),
	)
	out, err = format(ctx, def, vars)
	if err != nil {
		return "", fmt.Errorf("render default template %s: %w", kind, err)
	}
	return out, nil
}

func (r *Registry) load(ctx context.Context, kind Kind, platform string) string {
	if r.store == nil {
		return defaultTemplate(kind)
	}

	candidates := []string{platform}
	if platform != GeneralPlatform {
		candidates = append(candidates, GeneralPlatform)
	}
	for _, p := range candidates {
		text, found, err := r.store.Read(string(kind), p)
		if err != nil {
			logger.Warn(ctx, "failed to read template, using built-in default",
				"kind", string(kind),
				"platform", p,
				"error", err.Error(),
			)
			return defaultTemplate(kind)
		}
		if found && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}

	logger.Debug(ctx, "template not found in store, using built-in default",
		"kind", string(kind),
		"platform", platform,
	)
	return defaultTemplate(kind)
}

// defaultTemplate 内置默认模板
func defaultTemplate(kind Kind) string {
	b, err := templatesFS.ReadFile("templates/" + string(kind) + ".txt")
	if err != nil {
		return genericFallback
	}
	return strings.TrimSpace(string(b))
}

func fstring(text string) einoprompt.ChatTemplate {
	return einoprompt.FromMessages(schema.FString, schema.UserMessage(text))
}

func format(ctx context.Context, text string, vars map[string]any) (string, error) {
	msgs, err := fstring(text).Format(ctx, vars)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("template produced no messages")
	}
	return msgs[0].Content, nil
}

func cacheKey(kind Kind, platform string) string {
	return string(kind) + "_" + platform
}
