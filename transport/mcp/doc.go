// Package mcp exposes the cleaning robot simulator to AI agents over the
// Model Context Protocol.
//
// The client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON response is rendered as text, including
// the room drawn with the same glyphs as GET /api/sessions/{id}/grid.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - get_state: snapshot, possible moves and rendered grid
//   - render_grid: the rendered grid only
//   - move, bulk_move: manual runs
//   - explore_step: exploration runs
//   - reset, path_history, list_presets
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
