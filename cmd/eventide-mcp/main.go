// Command eventide-mcp provides an MCP server for schedule management.
//
// This server provides tools for listing, creating, updating, and deleting
// schedule items stored in a SQLite database.
//
// Usage:
//
//	./eventide-mcp          # Start MCP server (stdio)
//	./eventide-mcp --help   # Show help
//
// Environment:
//
//	EVENTIDE_DB_PATH  Path to SQLite database (default: ~/.eventide/eventide.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/eventide-app/eventide/internal/schedule"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	dbPath := os.Getenv("EVENTIDE_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".eventide")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create config directory: %v\n", err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "eventide.db")
	}

	store, err := schedule.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s := schedule.NewMCPServer(store)

	if err := server.ServeStdio(s.Server()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`Eventide MCP Server - Schedule management via MCP protocol

USAGE:
    eventide-mcp          Start MCP server (communicates via stdio)
    eventide-mcp --help   Show this help

ENVIRONMENT:
    EVENTIDE_DB_PATH  Path to SQLite database file
                      Default: ~/.eventide/eventide.db

TOOLS:
    list_schedule   List schedule items (optional date filter)
    get_item        Get a single item by ID
    create_item     Create an event or reminder
    update_item     Replace an item's fields
    delete_item     Delete an item permanently
    clear_schedule  Delete every item`)
}
