package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"provider": "deepseek",
		"deepseek": map[string]interface{}{
			"api_key":  "",
			"base_url": "https://api.deepseek.com",
			"timeout":  120,
		},
		"ollama": map[string]interface{}{
			"base_url": "http://localhost:11434",
			"timeout":  120,
		},
		"model": map[string]interface{}{
			"name":        "deepseek-chat",
			"max_tokens":  8192,
			"temperature": 1.0,
		},
		"server": map[string]interface{}{
			"listen": "localhost:5000",
		},
		"database": map[string]interface{}{
			"path": "~/.eventide/eventide.db",
		},
		"log": map[string]interface{}{
			"level": "info",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.eventide/config.yaml"
}
