// Package service provides the business logic layer for the tile board server.
//
// The service package implements:
//   - Multi-session board management
//   - Configuration lookup for new sessions
//   - Placement, action, toggle and observer requests
//   - Request history with pagination
//
// Core Interfaces:
//
// GameService is the main service interface used by the transport layers.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads board configurations.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Each session exclusively owns one engine (its registry and
// board). Every request runs to completion under the service lock before the
// next one is processed, so the engine itself needs no locking.
//
// Usage:
//
//	sessionMgr := session.NewManager(logger)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := gameService.Place(ctx, info.ID, engine.PlacementRequest{ComponentID: "Candle1", Row: 0, Col: 0})
package service
