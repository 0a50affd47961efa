// Package service is the orchestration layer between the transports (HTTP,
// WebSocket, MCP, CLI) and the simulation core.
//
// Core Interfaces:
//
// CleanerService is the main interface every transport talks to.
// SessionManager stores runs; ConfigManager loads and saves world presets.
// Both are implemented by the session and config packages and mocked in tests.
//
// A Session pairs an engine.World with the navigation.Strategy that drives
// it. Manual sessions accept Move and BulkMove; exploration sessions accept
// Step. Calling the other kind returns ErrWrongMode.
//
// Usage:
//
//	sessions := session.NewManager()
//	configs, _ := config.NewManager("configs")
//	svc := service.NewCleanerService(sessions, configs)
//
//	info, err := svc.CreateSession(ctx, service.SessionOptions{Preset: "open_room"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := svc.Move(ctx, info.ID, "right")
//
// Concurrency:
//
// The service serialises every world mutation behind a single RWMutex, so
// the engine and the strategies never see concurrent calls.
package service
