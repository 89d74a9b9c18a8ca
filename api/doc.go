// Package api provides the HTTP REST API for board sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "wide"}, optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Board Operations:
//   - GET /api/sessions/{id}/view - Render view; ETag is the view revision
//   - POST /api/sessions/{id}/place - {"component_id", "row", "col"}
//   - POST /api/sessions/{id}/remove - {"component_id"}
//   - POST /api/sessions/{id}/action - {"component_id", "action"}
//   - POST /api/sessions/{id}/toggle - {"component_id"}
//   - POST /api/sessions/{id}/observers - {"subject", "observer"}
//   - POST /api/sessions/{id}/reset - Rebuild the board from its config
//   - GET /api/sessions/{id}/history - Paginated request history (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List board configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration
//
// WebSocket:
//   - GET /ws?session={id} - Subscribe to view updates
//
// Errors:
//
// Failures return {"error": "...", "code": "..."}. Placement outside the
// board is 400 out_of_bounds, an occupied target cell is 409 cell_occupied
// and an unknown component id is 404 unknown_component with a
// "suggestion" when a registered id is close.
//
// Every /api response carries an X-Request-ID header. Successful mutations
// push the new view to websocket subscribers of the session.
package api
