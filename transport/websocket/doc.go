// Package websocket pushes live world snapshots to browser viewers.
//
// A Hub groups connections by session ID. After every change to a run the
// API layer calls BroadcastToSession, and each viewer of that session
// receives one JSON text frame:
//
//	{"session_id":"a3f1","event":"state_update","snapshot":{...}}
//
// Other events (reset, session_deleted) carry no snapshot.
//
// Viewers connect to /ws?session=<id>. The connection is read-only: incoming
// frames are discarded and only keep the ping/pong deadline alive. Clients
// that fall behind by more than the send buffer are dropped.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, snapshot)
package websocket
