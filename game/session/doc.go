// Package session keeps the cleaning runs served by the HTTP, WebSocket and
// MCP transports.
//
// Each session owns one world and the navigation strategy driving it. Sessions
// live in memory only and are addressed by short case-insensitive IDs: callers
// may pick their own or let the manager draw a random 4-character hex ID.
//
// The manager is safe for concurrent use. It guards the registry only; the
// service layer serialises access to the worlds themselves.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "reference", &cfg, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop runs nobody touched for an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
