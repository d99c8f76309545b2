// Command eventide-db provides the interactive database console for the
// schedule: clearing, deleting, creating, AI generation, and summarizing.
//
// Usage:
//
//	./eventide-db                       # Start the console
//	./eventide-db -config custom.yaml   # Use a specific config file
//	./eventide-db --help                # Show help
//
// Environment:
//
//	EVENTIDE_DATABASE_PATH  Path to SQLite database (default: ~/.eventide/eventide.db)
//	DEEPSEEK_API_KEY        API key for the DeepSeek provider
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eventide-app/eventide/internal/api"
	"github.com/eventide-app/eventide/internal/assistant"
	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/console"
	"github.com/eventide-app/eventide/internal/log"
	"github.com/eventide-app/eventide/internal/schedule"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
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

	c, err := console.New(store, asst, !*noColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating console: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := c.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Console error: %v\n", err)
		os.Exit(1)
	}
}
