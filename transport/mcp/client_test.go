package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/geom"
	"github.com/wricardo/robot-cleaner/game/service"
)

// testSnapshot is a 5x4 room with the robot at (2,1) after one move right
func testSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		ID:            "w1",
		Mode:          engine.ModeManual,
		Status:        engine.StatusRunning,
		Grid:          engine.GridSize{Width: 5, Height: 4},
		CellSize:      geom.CellSize,
		Obstacles:     engine.BoundaryWalls(5, 4),
		Cleaned:       []engine.Object{{Rect: geom.CellRect(1, 1), Color: engine.CoverageColor}},
		Robot:         engine.Object{Rect: geom.CellRect(2, 1), Color: engine.RobotColor},
		ChargingPoint: engine.Object{Rect: geom.CellRect(3, 2), Color: engine.ChargerIdleColor},
		Path:          []geom.Point{{X: 2.5, Y: 1.5}},
		CleanedCount:  1,
		Todo:          6,
		MoveCount:     1,
		Coverage:      1.0 / 6,
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", response["status"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/gone":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found: gone"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api/other", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error', got: %v", err)
	}

	err = client.apiCall(context.Background(), "GET", "/api/sessions/gone", nil, nil)
	if err == nil || err.Error() != "session not found: gone" {
		t.Errorf("Expected server error message, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:       "ab12",
			Preset:   "open_room",
			Mode:     engine.ModeExploration,
			Seed:     42,
			Snapshot: testSnapshot(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"preset": "open_room",
		"mode":   "exploration",
		"seed":   float64(42),
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := textOf(t, result)
	for _, want := range []string{"Session: ab12", "Preset: open_room", "Seed: 42", "#R.."} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
	if body["preset"] != "open_room" || body["mode"] != "exploration" || body["seed"] != float64(42) {
		t.Errorf("Unexpected request body: %v", body)
	}
}

func TestClient_handlersRequireSessionID(t *testing.T) {
	client := NewClient("http://localhost:0")
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_session":  client.handleGetSession,
		"get_state":    client.handleGetState,
		"render_grid":  client.handleRenderGrid,
		"move":         client.handleMove,
		"bulk_move":    client.handleBulkMove,
		"explore_step": client.handleExploreStep,
		"reset":        client.handleReset,
		"path_history": client.handlePathHistory,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callRequest(name, nil))
			if err != nil {
				t.Fatalf("Expected tool error result, got error %v", err)
			}
			if !result.IsError {
				t.Error("Expected IsError for missing session_id")
			}
		})
	}
}

func TestClient_bulkMove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/bulk-move" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req struct {
			Moves []string `json:"moves"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if strings.Join(req.Moves, ",") != "right,down" {
			t.Errorf("Unexpected moves %v", req.Moves)
		}

		json.NewEncoder(w).Encode(service.BulkMoveResponse{
			RequestedMoves: 2,
			MovesExecuted:  1,
			NewlyCleaned:   1,
			StoppedReason:  "blocked",
			StoppedOnMove:  2,
			Snapshot:       testSnapshot(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleBulkMove(context.Background(), callRequest("bulk_move", map[string]interface{}{
		"session_id": "ab12",
		"moves":      []interface{}{"right", "down"},
		"intent":     "sweep the top row",
	}))
	if err != nil {
		t.Fatal(err)
	}

	text := textOf(t, result)
	for _, want := range []string{"Executed 1/2 moves", "Stopped on move 2: blocked"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_pathHistoryQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("order") != "asc" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.PathResponse{
			Entries:    []service.PathEntry{{Index: 6, Point: geom.Point{X: 2.5, Y: 1.5}, Cell: engine.CellSpec{X: 2, Y: 1}}},
			TotalMoves: 6,
			Page:       2,
			TotalPages: 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handlePathHistory(context.Background(), callRequest("path_history", map[string]interface{}{
		"session_id": "ab12",
		"page":       float64(2),
		"limit":      float64(5),
		"order":      "asc",
	}))

	if text := textOf(t, result); !strings.Contains(text, "6. (2.5,1.5) cell (2,1)") {
		t.Errorf("Unexpected path output: %s", text)
	}
}

func TestFormatSnapshot(t *testing.T) {
	text := formatSnapshot(testSnapshot())

	expected := []string{
		"Robot: (2,1)",
		"Cleaned: 1/6",
		"Status: running",
		"Possible moves: right,down,left",
		"#####\n#*R.#\n#..C#\n#####\n",
	}
	for _, want := range expected {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in formatted output, got: %s", want, text)
		}
	}
	if strings.Contains(text, "Room complete!") {
		t.Error("Did not expect completion banner")
	}
}

func TestFormatSnapshot_Complete(t *testing.T) {
	s := testSnapshot()
	s.Status = engine.StatusComplete

	if text := formatSnapshot(s); !strings.Contains(text, "Room complete!") {
		t.Errorf("Expected completion banner, got: %s", text)
	}
	if formatSnapshot(nil) != "No snapshot available" {
		t.Error("Expected placeholder for nil snapshot")
	}
}

func TestFormatMoveResult_Blocked(t *testing.T) {
	text := formatMoveResult(&service.MoveResponse{
		Result:   engine.MoveResult{Outcome: engine.Blocked, Direction: engine.Up},
		Message:  "Blocked moving up",
		Snapshot: testSnapshot(),
	})

	if !strings.Contains(text, "✗ Move blocked") || !strings.Contains(text, "Blocked moving up") {
		t.Errorf("Unexpected output: %s", text)
	}
}

func TestFormatStepResult(t *testing.T) {
	text := formatStepResult(&service.StepResponse{
		RequestedSteps: 100,
		StepsExecuted:  40,
		Moves:          30,
		Blocked:        10,
		Backtracks:     12,
		Finished:       true,
		Error:          "exploration exhausted",
		Snapshot:       testSnapshot(),
	})

	for _, want := range []string{"Ran 40/100 ticks", "Exploration finished", "Error: exploration exhausted"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output, got: %s", want, text)
		}
	}
}

func TestClient_renderGrid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/grid" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rows":    []string{"#####", "#*R.#", "#..C#", "#####"},
			"status":  "running",
			"cleaned": 1,
			"todo":    6,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleRenderGrid(context.Background(), callRequest("render_grid", map[string]interface{}{
		"session_id": "ab12",
	}))
	if err != nil {
		t.Fatal(err)
	}

	expected := "#####\n#*R.#\n#..C#\n#####\n1/6 cleaned, running"
	if text := textOf(t, result); text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}
