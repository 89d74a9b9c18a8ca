// Package websocket pushes board views to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session via
// the ?session= query parameter and receive:
//
//	{"session_id": "ab12", "event": "connected", "view": {...}}
//	{"session_id": "ab12", "event": "view_update", "view": {...}}
//
// "connected" is sent once with the view at connect time. "view_update"
// follows every successful mutation made through the REST API. Messages
// sent by clients are ignored.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID, view)
//	hub.BroadcastView(sessionID, view)
//
// Broadcasts are queued and never block the caller. When the queue is full
// or a client's send buffer is full the message or the client is dropped.
package websocket
