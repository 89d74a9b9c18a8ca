package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"github.com/wricardo/mcp-training/tileboard/game/service"
)

// ServerVersion is reported to MCP clients during initialization
const ServerVersion = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tile Board",
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Board - MCP Interface

This is a thin client that proxies all requests to the REST API server.

THE BOARD:
An N x N grid of cells. Each cell holds at most one component. Components
start in the palette and are placed onto cells; placing an already placed
component moves it.

COMPONENTS:
- candle: unlit -> lit on LIGHT. Lighting notifies its observers with CANDLE_LIT.
- box: open <-> closed on TOGGLE.
- ball: active <-> inactive, only through the toggle tool.
The toggle tool is a direct click: it flips the state and never notifies observers.

AVAILABLE TOOLS:
- create_session, get_session, list_sessions, list_configs
- get_view: board grid, component states and palette
- place / remove: move components on and off the board
- action: send LIGHT or TOGGLE to a component
- toggle: direct click on a component
- observe: make one component observe another
- reset_board: rebuild the board from its configuration
- history: past requests, including rejected ones`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func componentProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the board config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active board sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details for a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	// Board state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_view",
		Description: "Show the board grid, every component's state and the palette",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetView)

	// Board operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place",
		Description: "Place a component on a cell. A placed component is moved; the target cell must be empty.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":   sessionProperty(),
				"component_id": componentProperty("Component to place, e.g. Candle1"),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row (0-based)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column (0-based)",
				},
			},
			Required: []string{"session_id", "component_id", "row", "col"},
		},
	}, c.handlePlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove",
		Description: "Take a component off the board and return it to the palette",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":   sessionProperty(),
				"component_id": componentProperty("Component to remove"),
			},
			Required: []string{"session_id", "component_id"},
		},
	}, c.handleRemove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action",
		Description: "Send an action to a component. Actions a component does not understand are ignored.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":   sessionProperty(),
				"component_id": componentProperty("Target component"),
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{engine.ActionLight, engine.ActionToggle},
					"description": "Action to send",
				},
			},
			Required: []string{"session_id", "component_id", "action"},
		},
	}, c.handleAction)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle",
		Description: "Direct click on a component: flips its state without notifying observers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":   sessionProperty(),
				"component_id": componentProperty("Component to toggle"),
			},
			Required: []string{"session_id", "component_id"},
		},
	}, c.handleToggle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "observe",
		Description: "Register observer to receive notifications emitted by subject",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"subject":    componentProperty("Component that emits notifications"),
				"observer":   componentProperty("Component that receives them"),
			},
			Required: []string{"session_id", "subject", "observer"},
		},
	}, c.handleObserve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Rebuild the board and components from the session's configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "history",
		Description: "Get request history for a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleHistory)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			if errResp.Code != "" {
				return fmt.Errorf("%s [%s]", errResp.Error, errResp.Code)
			}
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created " + formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		placed := 0
		if s.View != nil {
			placed = len(s.View.Components) - len(s.View.Palette)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Placed: %d, Last used: %s)\n",
			s.ID, s.ConfigName, placed, s.LastAccessedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Board: %dx%d, Components: %d\n\n",
			config.ConfigID, config.Name, config.Description, config.BoardSize, config.BoardSize, config.ComponentCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var view engine.View
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/view"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	componentID, _ := args["component_id"].(string)
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}

	body := engine.PlacementRequest{ComponentID: componentID, Row: row, Col: col}

	var result service.PlacementResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/place"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Message + "\n\n" + formatView(result.View)), nil
}

func (c *Client) handleRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	componentID, _ := args["component_id"].(string)

	var result service.PlacementResult
	body := engine.RemoveRequest{ComponentID: componentID}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/remove"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Message + "\n\n" + formatView(result.View)), nil
}

func (c *Client) handleAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	componentID, _ := args["component_id"].(string)
	action, _ := args["action"].(string)

	body := engine.ActionRequest{ComponentID: componentID, Action: action}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/action"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleToggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	componentID, _ := args["component_id"].(string)

	var result service.ToggleResult
	body := engine.ToggleRequest{ComponentID: componentID}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/toggle"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Message + "\n\n" + formatView(result.View)), nil
}

func (c *Client) handleObserve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	subject, _ := args["subject"].(string)
	observer, _ := args["observer"].(string)

	var result service.ObserveResult
	body := map[string]string{"subject": subject, "observer": observer}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/observers"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Message), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string       `json:"message"`
		View    *engine.View `json:"view"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatView(response.View)), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.CreatedAt.Format("2006-01-02 15:04:05"), formatView(session.View))
}

// formatView draws the grid with one short label per cell, then lists
// every component and the palette.
func formatView(view *engine.View) string {
	if view == nil {
		return "No view available"
	}

	byID := make(map[string]engine.RenderState, len(view.Components))
	for _, c := range view.Components {
		byID[c.ID] = c
	}

	grid := make([][]string, view.Size)
	for i := range grid {
		grid[i] = make([]string, view.Size)
		for j := range grid[i] {
			grid[i][j] = "."
		}
	}
	width := 1
	for _, cell := range view.Cells {
		if cell.ComponentID == "" || cell.Row >= view.Size || cell.Col >= view.Size {
			continue
		}
		grid[cell.Row][cell.Col] = cell.ComponentID
		if len(cell.ComponentID) > width {
			width = len(cell.ComponentID)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board %dx%d (revision %s)\n\n", view.Size, view.Size, view.Revision)

	b.WriteString("    ")
	for col := 0; col < view.Size; col++ {
		fmt.Fprintf(&b, "%-*d ", width, col)
	}
	b.WriteString("\n")
	for row, cells := range grid {
		fmt.Fprintf(&b, "%2d  ", row)
		for _, label := range cells {
			fmt.Fprintf(&b, "%-*s ", width, label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nComponents:\n")
	for _, c := range view.Components {
		where := "palette"
		if c.Position != nil {
			where = fmt.Sprintf("(%d,%d)", c.Position.Row, c.Position.Col)
		}
		fmt.Fprintf(&b, "- %s [%s] %s at %s", c.DisplayText, c.Kind, activeLabel(c.Active), where)
		if len(c.Observers) > 0 {
			fmt.Fprintf(&b, ", observed by %s", strings.Join(c.Observers, ", "))
		}
		b.WriteString("\n")
	}

	if len(view.Palette) > 0 {
		fmt.Fprintf(&b, "\nPalette: %s\n", strings.Join(view.Palette, ", "))
	} else {
		b.WriteString("\nPalette: (empty)\n")
	}

	return b.String()
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	status := "✓"
	if result.Result != nil && !result.Result.Transition.Changed {
		status = "·"
	}
	fmt.Fprintf(&b, "%s %s\n", status, result.Message)

	if result.Result != nil && len(result.Result.Notifications) > 0 {
		b.WriteString("\nNotifications:\n")
		for _, n := range result.Result.Notifications {
			outcome := "ignored"
			if n.Transition.Changed {
				outcome = fmt.Sprintf("%s -> %s", n.Transition.From, n.Transition.To)
			}
			fmt.Fprintf(&b, "%s%s -> %s: %s (%s)\n", strings.Repeat("  ", n.Depth-1), n.From, n.To, n.Event, outcome)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatView(result.View))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "History (Page %d/%d), Total: %d\n\n", history.Page, history.TotalPages, history.TotalEntries)

	for _, entry := range history.Entries {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s", entry.Seq, status, entry.Type)
		if entry.ComponentID != "" {
			fmt.Fprintf(&b, " %s", entry.ComponentID)
		}
		if entry.Action != "" {
			fmt.Fprintf(&b, " %s", entry.Action)
		}
		if entry.Position != nil {
			fmt.Fprintf(&b, " (%d,%d)", entry.Position.Row, entry.Position.Col)
		}
		if entry.Error != "" {
			fmt.Fprintf(&b, ": %s", entry.Error)
		}
		b.WriteString("\n")
	}

	return b.String()
}
