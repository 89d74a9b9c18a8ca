// Package engine provides the core board logic for the tile board server.
//
// The engine package implements:
//   - Components (candle, box, ball) with kind-specific state machines
//   - Observer wiring and synchronous notification between components
//   - A fixed-size board enforcing single occupancy and move-not-copy placement
//   - An action dispatcher routing named actions to components
//   - Board configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the contract for one board session,
// implemented by GameEngine. GameEngine owns a Registry (the only owner of
// Component values), a Board (cells hold component ids, never components)
// and a Dispatcher. BoardConfig describes the initial component set, observer
// wiring and optional initial placements, loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadBoardConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := eng.Place("Candle1", 0, 0); err != nil {
//		log.Println(err)
//	}
//	result, err := eng.Dispatch("Candle1", engine.ActionLight)
//	view := eng.View()
//
// Rules:
//
// A candle goes from unlit to lit on LIGHT and tells its observers
// CANDLE_LIT. A box flips between open and closed on TOGGLE. A ball ignores
// actions and only changes through a direct toggle. Every operation runs to
// completion before the next one starts; the engine is not safe for
// concurrent use and callers serialize access.
//
// Observer graphs must be acyclic. Notification delivery does not detect
// cycles; with the current rule set a delivered CANDLE_LIT never emits a
// further event, so chains stop after one hop.
package engine
