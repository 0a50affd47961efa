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

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/service"
)

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

const instructions = `Cleaning Robot Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Drive a one-cell robot (R) around a walled room until every free cell has been
cleaned. A cell counts as cleaned once the robot moves OFF it, so the cell the
robot stands on is still dirty until it leaves.

GRID LEGEND:
  #  wall        O  obstacle     .  dirty cell
  *  cleaned     R  robot        C  charging point

MODES:
- manual: you steer with move / bulk_move (at most 50 moves per call)
- exploration: the robot runs a depth-first search on its own; advance it with
  explore_step (at most 5000 ticks per call)

AVAILABLE TOOLS:
- create_session: start a run (preset, mode and seed are optional)
- list_sessions / get_session: inspect runs
- get_state: snapshot plus the rendered grid
- render_grid: the rendered grid only
- move / bulk_move: manual steering, blocked moves change nothing
- explore_step: advance an exploration run
- reset: regenerate the room with a fresh seed
- path_history: visited points, paginated
- list_presets: room layouts available to create_session

NOTE: The 'intent' parameter on move/bulk_move serves as rubber duck debugging - explain your reasoning!`

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Cleaning Robot Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new cleaning run from a preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset to build the room from (optional, see list_presets)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"manual", "exploration"},
					"description": "Overrides the preset's mode (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for a reproducible room (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active cleaning runs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific run",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Robot operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the current snapshot and the rendered grid",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_grid",
		Description: "Get only the rendered grid (# wall, O obstacle, . dirty, * cleaned, R robot, C charging point)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRenderGrid)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the robot one cell in a direction (manual runs only)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in order, stopping at the first blocked move (manual runs only)", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Directions to execute in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the plan behind these moves",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "explore_step",
		Description: "Advance an exploration run by a number of ticks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"steps": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Ticks to run (default 1, max %d)", engine.MaxStepsPerCall),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleExploreStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset",
		Description: "Regenerate the run's room from its preset with a fresh seed",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "path_history",
		Description: "Get the points the robot has visited, paginated",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "desc shows the latest moves first (default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePathHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List the room presets available to create_session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)
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
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool arguments, empty when the client sent none
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads a JSON number argument, which arrives as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if preset, _ := args["preset"].(string); preset != "" {
		body["preset"] = preset
	}
	if mode, _ := args["mode"].(string); mode != "" {
		body["mode"] = mode
	}
	if seed, ok := intArg(args, "seed"); ok {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created session\n" + formatSessionInfo(&session)), nil
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
	fmt.Fprintf(&b, "Active sessions: %d\n", response.Count)
	for _, s := range response.Sessions {
		cleaned, todo := 0, 0
		status := engine.StatusRunning
		if s.Snapshot != nil {
			cleaned, todo, status = s.Snapshot.CleanedCount, s.Snapshot.Todo, s.Snapshot.Status
		}
		fmt.Fprintf(&b, "- %s (preset: %s, mode: %s, %d/%d cleaned, %s)\n",
			s.ID, s.Preset, s.Mode, cleaned, todo, status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snapshot engine.Snapshot
	if err := c.apiCall(ctx, "GET", path, nil, &snapshot); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snapshot)), nil
}

func (c *Client) handleRenderGrid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/grid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var grid struct {
		Rows    []string      `json:"rows"`
		Status  engine.Status `json:"status"`
		Cleaned int           `json:"cleaned"`
		Todo    int           `json:"todo"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &grid); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n%d/%d cleaned, %s",
		strings.Join(grid.Rows, "\n"), grid.Cleaned, grid.Todo, grid.Status)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)

	// intent is only there to make the caller explain itself
	_, _ = args["intent"].(string)

	var result service.MoveResponse
	if err := c.apiCall(ctx, "POST", path, map[string]string{"direction": direction}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/bulk-move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	movesRaw, _ := args["moves"].([]interface{})
	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	var result service.BulkMoveResponse
	if err := c.apiCall(ctx, "POST", path, map[string]interface{}{"moves": moves}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleExploreStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/step")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]int{}
	if steps, ok := intArg(args, "steps"); ok {
		body["steps"] = steps
	}

	var result service.StepResponse
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatSnapshot(response.Snapshot)), nil
}

func (c *Client) handlePathHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.PathResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPath(&history)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []service.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available presets:\n")
	for _, p := range presets {
		layout := fmt.Sprintf("%d-%d random obstacles", p.MinObstacles, p.MaxObstacles)
		if p.FixedLayout {
			layout = "fixed layout"
		}
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %s, %s)\n", p.PresetID, p.Name, p.GridWidth, p.GridHeight, layout, p.Mode)
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nPreset: %s\nMode: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.Preset, session.Mode, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.Snapshot))
}

func formatSnapshot(s *engine.Snapshot) string {
	if s == nil {
		return "No snapshot available"
	}

	var b strings.Builder
	rx, ry := s.Robot.Rect.Cell()
	fmt.Fprintf(&b, "Robot: (%d,%d) | Cleaned: %d/%d (%.1f%%) | Moves: %d | Blocked: %d | Status: %s\n",
		rx, ry, s.CleanedCount, s.Todo, s.Coverage*100, s.MoveCount, s.BlockedCount, s.Status)
	if s.Docked {
		b.WriteString("Docked on the charging point\n")
	}

	rows := engine.RenderGrid(s)
	if pm := possibleMoves(rows, rx, ry); len(pm) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(pm, ","))
	}

	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if s.Status == engine.StatusComplete {
		b.WriteString("\nRoom complete!")
	}
	return b.String()
}

// possibleMoves reads the rendered grid around the robot
func possibleMoves(rows []string, x, y int) []string {
	var moves []string
	for _, dir := range engine.Directions {
		dx, dy, _ := dir.Delta()
		nx, ny := x+dx, y+dy
		if ny < 0 || ny >= len(rows) || nx < 0 || nx >= len(rows[ny]) {
			continue
		}
		if g := rows[ny][nx]; g != engine.GlyphWall && g != engine.GlyphObstacle {
			moves = append(moves, string(dir))
		}
	}
	return moves
}

func formatMoveResult(result *service.MoveResponse) string {
	var b strings.Builder
	if result.Result.Outcome.Accepted() {
		b.WriteString("✓ Move accepted\n")
	} else {
		b.WriteString("✗ Move blocked\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	b.WriteString("\n" + formatSnapshot(result.Snapshot))
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Executed %d/%d moves, %d newly cleaned\n",
		result.MovesExecuted, result.RequestedMoves, result.NewlyCleaned)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}
	b.WriteString("\n" + formatSnapshot(result.Snapshot))
	return b.String()
}

func formatStepResult(result *service.StepResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ran %d/%d ticks: %d moves, %d blocked probes, %d backtracks\n",
		result.StepsExecuted, result.RequestedSteps, result.Moves, result.Blocked, result.Backtracks)
	if result.Finished {
		b.WriteString("Exploration finished\n")
	}
	if result.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", result.Error)
	}
	b.WriteString("\n" + formatSnapshot(result.Snapshot))
	return b.String()
}

func formatPath(history *service.PathResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path (page %d/%d, %d moves total):\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, e := range history.Entries {
		fmt.Fprintf(&b, "%d. (%g,%g) cell (%d,%d)\n", e.Index, e.Point.X, e.Point.Y, e.Cell.X, e.Cell.Y)
	}
	if history.HasNext {
		b.WriteString("More entries on the next page\n")
	}
	return b.String()
}
