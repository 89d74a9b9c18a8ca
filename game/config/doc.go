// Package config loads board configurations from a directory.
//
// A board configuration names the board size, the component set with
// optional initial states, observer wiring and optional starting
// placements. Files may be JSON (.json) or YAML (.yaml, .yml):
//
//	name: wide
//	board_size: 5
//	components:
//	  - {id: Candle1, kind: candle}
//	  - {id: Box1, kind: box, state: open}
//	observers:
//	  - {subject: Candle1, observer: Box1}
//	placements:
//	  - {component: Candle1, row: 0, col: 0}
//
// Configurations are validated on load and cached by name. The default is
// "classic" when present, otherwise the first valid file, otherwise the
// built-in 3x3 board from engine.DefaultBoardConfig.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		return err
//	}
//
//	boardConfig, err := manager.LoadConfig("wide")
package config
