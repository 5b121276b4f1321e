package llm

import (
	"context"
	"testing"

	"reelsbot-ai-api/internal/config"
	apperrors "reelsbot-ai-api/pkg/errors"
)

func TestEinoFactoryConfigurationErrors(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai":  {Type: "openai"},
			"bedrock": {Type: "bedrock", APIKey: "k"},
		},
	}}
	f := NewEinoFactory(cfg)

	tests := []struct {
		name     string
		provider string
	}{
		{"missing api key", ""},
		{"unknown provider", "anthropic"},
		{"unsupported type", "bedrock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Get(context.Background(), tt.provider)
			if err == nil {
				t.Fatal("expected error")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeConfigurationError {
				t.Fatalf("code = %s, want configuration error", apperrors.AsAppError(err).Code)
			}
		})
	}
}

func TestEinoFactoryCachesModels(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai": {Type: "openai", APIKey: "sk-test", BaseURL: "http://127.0.0.1:1", Model: "gpt-4o", MaxTokens: 100},
		},
	}}
	f := NewEinoFactory(cfg)

	first, err := f.Default(context.Background())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	second, err := f.Get(context.Background(), "openai")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Fatal("factory should cache chat models per provider")
	}
	if f.ModelName("") != "gpt-4o" {
		t.Fatalf("ModelName = %q", f.ModelName(""))
	}
}
