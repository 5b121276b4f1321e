package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("REELSBOT_TEST_HOST", "db.internal")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "host: ${REELSBOT_TEST_HOST}", "host: db.internal"},
		{"set variable ignores default", "host: ${REELSBOT_TEST_HOST:localhost}", "host: db.internal"},
		{"unset with default", "port: ${REELSBOT_TEST_UNSET:5432}", "port: 5432"},
		{"unset with empty default", "key: ${REELSBOT_TEST_UNSET:}", "key: "},
		{"unset without default", "key: ${REELSBOT_TEST_UNSET}", "key: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.in); got != tt.want {
				t.Fatalf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("REELSBOT_TEST_KEY", "sk-test")

	writeConfig(t, dir, "config.yaml", `
llm:
  default_provider: openai
  providers:
    openai:
      type: openai
      api_key: ${REELSBOT_TEST_KEY}
      model: gpt-4o
content:
  music_limit: 3
`)
	writeConfig(t, dir, "config.test.yaml", `
content:
  music_limit: 4
`)

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if got := cfg.LLM.Providers["openai"].APIKey; got != "sk-test" {
		t.Errorf("api key = %q, want sk-test", got)
	}
	if cfg.Content.MusicLimit != 4 {
		t.Errorf("music_limit = %d, want env override 4", cfg.Content.MusicLimit)
	}
	if cfg.Content.Temperature != 0.7 {
		t.Errorf("temperature default = %v, want 0.7", cfg.Content.Temperature)
	}
	if cfg.Content.MaxTokens != 2000 {
		t.Errorf("max_tokens default = %d, want 2000", cfg.Content.MaxTokens)
	}
	if cfg.Cache.Redis.TrendTTL != time.Hour {
		t.Errorf("trend_ttl default = %v, want 1h", cfg.Cache.Redis.TrendTTL)
	}
	if cfg.Security.RateLimit.Requests != 100 || cfg.Security.RateLimit.Window != time.Hour {
		t.Errorf("rate limit defaults = %d/%v", cfg.Security.RateLimit.Requests, cfg.Security.RateLimit.Window)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config.yaml")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LLM: LLMConfig{
				DefaultProvider: "openai",
				Providers: map[string]ProviderConfig{
					"openai": {Type: "openai", APIKey: "sk"},
					"gemini": {Type: "gemini"},
				},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no default provider", func(c *Config) { c.LLM.DefaultProvider = "" }, true},
		{"unknown provider", func(c *Config) { c.LLM.DefaultProvider = "anthropic" }, true},
		{"missing api key", func(c *Config) { c.Content.Provider = "gemini" }, true},
		{"unsupported type", func(c *Config) {
			c.LLM.Providers["openai"] = ProviderConfig{Type: "bedrock", APIKey: "k"}
		}, true},
		{"negative music limit", func(c *Config) { c.Content.MusicLimit = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
