package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderDeepSeek {
		t.Errorf("default provider = %q, want %q", cfg.Provider, ProviderDeepSeek)
	}
	if cfg.Model.Name != "deepseek-chat" {
		t.Errorf("default model = %q", cfg.Model.Name)
	}
	if cfg.Server.Listen != "localhost:5000" {
		t.Errorf("default listen = %q", cfg.Server.Listen)
	}
	if cfg.Database.Path == "" {
		t.Error("default database path must be set")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
provider: ollama
model:
  name: llama3
server:
  listen: ":9000"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama || cfg.Model.Name != "llama3" || cfg.Server.Listen != ":9000" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Model.MaxTokens != 8192 {
		t.Errorf("default max_tokens lost: %d", cfg.Model.MaxTokens)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen: \":9000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EVENTIDE_SERVER_LISTEN", ":7000")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != ":7000" {
		t.Errorf("env should win over file, got %q", cfg.Server.Listen)
	}
	if cfg.DeepSeek.APIKey != "sk-test" {
		t.Errorf("DEEPSEEK_API_KEY not honored, got %q", cfg.DeepSeek.APIKey)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("a missing config file should fall back to defaults, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Provider: ProviderDeepSeek,
			DeepSeek: DeepSeekConfig{APIKey: "sk-test"},
			Model:    ModelConfig{Name: "deepseek-chat", MaxTokens: 8192, Temperature: 1.0},
			Server:   ServerConfig{Listen: "localhost:5000"},
			Database: DatabaseConfig{Path: "eventide.db"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.DeepSeek.APIKey = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "skynet" }},
		{"missing model", func(c *Config) { c.Model.Name = "" }},
		{"zero max_tokens", func(c *Config) { c.Model.MaxTokens = 0 }},
		{"temperature out of range", func(c *Config) { c.Model.Temperature = 3.5 }},
		{"missing listen", func(c *Config) { c.Server.Listen = "" }},
		{"missing db path", func(c *Config) { c.Database.Path = "" }},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidate_OllamaDefaultsBaseURL(t *testing.T) {
	cfg := &Config{
		Provider: ProviderOllama,
		Model:    ModelConfig{Name: "llama3", MaxTokens: 4096, Temperature: 1.0},
		Server:   ServerConfig{Listen: "localhost:5000"},
		Database: DatabaseConfig{Path: "eventide.db"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("ollama base URL not defaulted, got %q", cfg.Ollama.BaseURL)
	}
}
