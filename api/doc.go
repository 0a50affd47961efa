// Package api provides HTTP REST API handlers for the cleaning robot simulator.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a run ({"preset", "mode", "seed"} all optional)
//   - GET /api/sessions - List runs (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a run
//   - DELETE /api/sessions/{id} - Delete a run
//
// Robot:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/grid - Text rendering of the room
//   - POST /api/sessions/{id}/move - Manual move ({"direction": "up|down|left|right"})
//   - POST /api/sessions/{id}/bulk-move - Manual moves ({"moves": [...]}), capped at 50
//   - POST /api/sessions/{id}/step - Exploration ticks ({"steps": N}), capped at 5000
//   - POST /api/sessions/{id}/reset - Regenerate the room with a fresh seed
//   - GET /api/sessions/{id}/path - Visited points (?page=&limit=&order=)
//
// Presets:
//   - GET /api/presets - List presets
//   - GET /api/presets/{name} - Get a preset
//   - POST /api/presets - Save a preset ({"id"?, ...world config})
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - Live snapshots over WebSocket
//
// Errors are returned as {"error": "..."} with a status derived from the
// service error: 404 for unknown runs or presets, 409 for an operation that
// does not match the run's mode, 400 for bad input and 422 when the room has
// no free cell to place the robot.
package api
