// Command eventide runs the schedule HTTP API server.
//
// Endpoints cover direct schedule CRUD plus the AI-backed optimize and
// summarize operations.
//
// Usage:
//
//	./eventide                       # Start with default config
//	./eventide -config custom.yaml   # Start with a specific config file
//
// Environment:
//
//	DEEPSEEK_API_KEY   API key for the DeepSeek provider
//	EVENTIDE_*         Overrides for any config key (e.g. EVENTIDE_SERVER_LISTEN)
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/eventide-app/eventide/internal/api"
	"github.com/eventide-app/eventide/internal/assistant"
	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/log"
	"github.com/eventide-app/eventide/internal/schedule"
	"github.com/eventide-app/eventide/internal/server"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	provider := flag.String("provider", "", "Provider to use (deepseek, ollama)")
	modelName := flag.String("model", "", "Model name (overrides config)")
	listen := flag.String("listen", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		if cfg.Provider == config.ProviderDeepSeek {
			fmt.Fprintf(os.Stderr, "Tip: Set DEEPSEEK_API_KEY environment variable or add it to config file\n")
		}
		os.Exit(1)
	}

	log.SetLevel(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create database directory: %v\n", err)
		os.Exit(1)
	}

	store, err := schedule.NewStore(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	providerInstance, err := api.NewProvider(cfg.GetProviderConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating provider: %v\n", err)
		os.Exit(1)
	}
	defer providerInstance.Close()

	asst := assistant.New(providerInstance, store, cfg.GetProviderConfig().Model)
	srv := server.New(store, asst)

	log.Info("starting server", "listen", cfg.Server.Listen, "provider", providerInstance.Name(), "db", cfg.Database.Path)
	if err := http.ListenAndServe(cfg.Server.Listen, srv.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
