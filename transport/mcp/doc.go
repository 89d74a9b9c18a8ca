// Package mcp exposes the tile board to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON response is rendered as plain text
// (a board grid, component states, notification chains).
//
// Tools:
//   - create_session, get_session, list_sessions, list_configs
//   - get_view: board grid, component list and palette
//   - place, remove: move components on and off the board
//   - action: send LIGHT or TOGGLE to a component
//   - toggle: direct click, never notifies observers
//   - observe: register an observer on a subject
//   - reset_board, history
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
