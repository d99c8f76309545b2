package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "eventide"
	serverVersion = "1.0.0"
)

// MCPServer is the MCP tool server for schedule management.
type MCPServer struct {
	mcpServer *server.MCPServer
	store     *Store
}

// NewMCPServer creates a schedule MCP server backed by the given store.
func NewMCPServer(store *Store) *MCPServer {
	s := &MCPServer{
		store: store,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// Server returns the underlying MCP server for serving.
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcpServer
}

func (s *MCPServer) registerTools() {
	// list_schedule
	s.mcpServer.AddTool(
		mcp.NewTool("list_schedule",
			mcp.WithDescription("List all schedule items, optionally only those covering a given date"),
			mcp.WithString("date", mcp.Description("Filter date in YYYY-MM-DD format")),
		),
		s.handleListSchedule,
	)

	// get_item
	s.mcpServer.AddTool(
		mcp.NewTool("get_item",
			mcp.WithDescription("Get a single schedule item by ID"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item ID")),
		),
		s.handleGetItem,
	)

	// create_item
	s.mcpServer.AddTool(
		mcp.NewTool("create_item",
			mcp.WithDescription("Create an event or reminder"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Title (1-20 characters)")),
			mcp.WithString("start_date", mcp.Required(), mcp.Description("Start date in YYYY-MM-DD format")),
			mcp.WithString("end_date", mcp.Required(), mcp.Description("End date in YYYY-MM-DD format")),
			mcp.WithString("start", mcp.Required(), mcp.Description("Start time in HH:MM AM/PM format")),
			mcp.WithString("end", mcp.Required(), mcp.Description("End time in HH:MM AM/PM format")),
			mcp.WithString("type", mcp.Description("Item type: event or reminder (default: event)")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("urgency", mcp.Description("Urgency: trivial, ongoing, attention-needed, important, critical (default: trivial)")),
			mcp.WithBoolean("locked", mcp.Description("Whether the item is exempt from AI modification (default: false)")),
		),
		s.handleCreateItem,
	)

	// update_item
	s.mcpServer.AddTool(
		mcp.NewTool("update_item",
			mcp.WithDescription("Replace a schedule item's fields"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item ID")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Title (1-20 characters)")),
			mcp.WithString("start_date", mcp.Required(), mcp.Description("Start date in YYYY-MM-DD format")),
			mcp.WithString("end_date", mcp.Required(), mcp.Description("End date in YYYY-MM-DD format")),
			mcp.WithString("start", mcp.Required(), mcp.Description("Start time in HH:MM AM/PM format")),
			mcp.WithString("end", mcp.Required(), mcp.Description("End time in HH:MM AM/PM format")),
			mcp.WithString("urgency", mcp.Required(), mcp.Description("Urgency: trivial, ongoing, attention-needed, important, critical")),
			mcp.WithString("type", mcp.Description("Item type: event or reminder")),
			mcp.WithString("description", mcp.Description("Description")),
			mcp.WithBoolean("locked", mcp.Description("Whether the item is exempt from AI modification")),
		),
		s.handleUpdateItem,
	)

	// delete_item
	s.mcpServer.AddTool(
		mcp.NewTool("delete_item",
			mcp.WithDescription("Delete a schedule item permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item ID")),
		),
		s.handleDeleteItem,
	)

	// clear_schedule
	s.mcpServer.AddTool(
		mcp.NewTool("clear_schedule",
			mcp.WithDescription("Delete every schedule item"),
		),
		s.handleClearSchedule,
	)
}

func (s *MCPServer) handleListSchedule(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "")
	if date != "" && !ValidDate(date) {
		return mcp.NewToolResultError("invalid date: use YYYY-MM-DD"), nil
	}

	items, err := s.store.List(date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list schedule: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No schedule items found."), nil
	}

	output, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *MCPServer) handleGetItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	item, err := s.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get item: %v", err)), nil
	}

	output, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *MCPServer) handleCreateItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, violations := ParseItem(itemFields(req), ProfileCreate)
	if len(violations) > 0 {
		return mcp.NewToolResultError(violationText(violations)), nil
	}

	created, err := s.store.Create(item)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create item: %v", err)), nil
	}

	output, _ := json.MarshalIndent(created, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *MCPServer) handleUpdateItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	item, violations := ParseItem(itemFields(req), ProfileUpdate)
	if len(violations) > 0 {
		return mcp.NewToolResultError(violationText(violations)), nil
	}

	updated, err := s.store.Update(id, item)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("item %d not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update item: %v", err)), nil
	}

	output, _ := json.MarshalIndent(updated, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *MCPServer) handleDeleteItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("item %d not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete item: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Schedule item %d deleted.", id)), nil
}

func (s *MCPServer) handleClearSchedule(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.store.Clear()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear schedule: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted %d schedule item(s).", n)), nil
}

func idArg(req mcp.CallToolRequest) (int64, bool) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 0 {
		return 0, false
	}
	return int64(idFloat), true
}

// itemFields collects the tool arguments into the untrusted-fields shape the
// validator consumes, so MCP payloads run through the same checks as HTTP
// payloads.
func itemFields(req mcp.CallToolRequest) map[string]any {
	fields := map[string]any{}
	if v := req.GetString("title", ""); v != "" {
		fields["title"] = v
	}
	if v := req.GetString("start_date", ""); v != "" {
		fields["startDate"] = v
	}
	if v := req.GetString("end_date", ""); v != "" {
		fields["endDate"] = v
	}
	if v := req.GetString("start", ""); v != "" {
		fields["start"] = v
	}
	if v := req.GetString("end", ""); v != "" {
		fields["end"] = v
	}
	if v := req.GetString("type", ""); v != "" {
		fields["type"] = v
	}
	if v := req.GetString("description", ""); v != "" {
		fields["description"] = v
	}
	if v := req.GetString("urgency", ""); v != "" {
		fields["urgency"] = v
	}
	fields["locked"] = req.GetBool("locked", false)
	return fields
}

func violationText(violations []*ValidationError) string {
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Error()
	}
	return "invalid item: " + strings.Join(msgs, "; ")
}
