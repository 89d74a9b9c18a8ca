package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BoardConfig describes the startup state of a board session
type BoardConfig struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	BoardSize   int             `json:"board_size" yaml:"board_size"`
	Components  []ComponentSpec `json:"components" yaml:"components"`
	Observers   []ObserverSpec  `json:"observers,omitempty" yaml:"observers,omitempty"`
	Placements  []PlacementSpec `json:"placements,omitempty" yaml:"placements,omitempty"`
}

// ComponentSpec declares one component of the initial set
type ComponentSpec struct {
	ID    string `json:"id" yaml:"id"`
	Kind  string `json:"kind" yaml:"kind"`
	State string `json:"state,omitempty" yaml:"state,omitempty"`
}

// ObserverSpec wires observer to receive notifications from subject
type ObserverSpec struct {
	Subject  string `json:"subject" yaml:"subject"`
	Observer string `json:"observer" yaml:"observer"`
}

// PlacementSpec puts a component on the board at startup
type PlacementSpec struct {
	Component string `json:"component" yaml:"component"`
	Row       int    `json:"row" yaml:"row"`
	Col       int    `json:"col" yaml:"col"`
}

// ValidateBoardConfig validates a board configuration
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config cannot be nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardSize)
	}
	if len(config.Components) == 0 {
		return fmt.Errorf("config validation: at least one component is required")
	}

	ids := make(map[string]bool, len(config.Components))
	for i, spec := range config.Components {
		if strings.TrimSpace(spec.ID) == "" {
			return fmt.Errorf("config validation: components[%d].id is required", i)
		}
		if ids[spec.ID] {
			return fmt.Errorf("config validation: duplicate component id %q", spec.ID)
		}
		ids[spec.ID] = true

		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return fmt.Errorf("config validation: components[%d]: %w", i, err)
		}
		if _, err := ParseState(kind, spec.State); err != nil {
			return fmt.Errorf("config validation: components[%d]: %w", i, err)
		}
	}

	for i, obs := range config.Observers {
		if !ids[obs.Subject] {
			return fmt.Errorf("config validation: observers[%d]: unknown subject %q", i, obs.Subject)
		}
		if !ids[obs.Observer] {
			return fmt.Errorf("config validation: observers[%d]: unknown observer %q", i, obs.Observer)
		}
		if obs.Subject == obs.Observer {
			return fmt.Errorf("config validation: observers[%d]: %q cannot observe itself", i, obs.Subject)
		}
	}

	placed := make(map[string]bool)
	cells := make(map[Position]string)
	for i, p := range config.Placements {
		if !ids[p.Component] {
			return fmt.Errorf("config validation: placements[%d]: unknown component %q", i, p.Component)
		}
		if p.Row < 0 || p.Row >= config.BoardSize || p.Col < 0 || p.Col >= config.BoardSize {
			return fmt.Errorf("config validation: placements[%d]: cell (%d,%d) is outside a %dx%d board",
				i, p.Row, p.Col, config.BoardSize, config.BoardSize)
		}
		if placed[p.Component] {
			return fmt.Errorf("config validation: placements[%d]: %q is placed more than once", i, p.Component)
		}
		pos := Position{Row: p.Row, Col: p.Col}
		if other, taken := cells[pos]; taken {
			return fmt.Errorf("config validation: placements[%d]: cell (%d,%d) already holds %q", i, p.Row, p.Col, other)
		}
		placed[p.Component] = true
		cells[pos] = p.Component
	}

	return nil
}

// DecodeBoardConfig parses a board configuration. ext selects the format
// (".json", ".yaml" or ".yml").
func DecodeBoardConfig(data []byte, ext string) (*BoardConfig, error) {
	var config BoardConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return &config, nil
}

// LoadBoardConfig loads and validates a board configuration file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeBoardConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultBoardConfig returns the classic 3x3 setup: one candle, one box and
// one ball, with the box observing the candle.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "classic",
		Description: "One candle, one box and one ball on a 3x3 board",
		BoardSize:   DefaultBoardSize,
		Components: []ComponentSpec{
			{ID: "Candle1", Kind: string(Candle)},
			{ID: "Box1", Kind: string(Box)},
			{ID: "Ball1", Kind: string(Ball)},
		},
		Observers: []ObserverSpec{
			{Subject: "Candle1", Observer: "Box1"},
		},
	}
}

// buildSession creates the registry, board and dispatcher described by config.
// config must already be valid.
func buildSession(config *BoardConfig) (*Registry, *Board, *Dispatcher, error) {
	registry := NewRegistry()
	for _, spec := range config.Components {
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return nil, nil, nil, err
		}
		state, err := ParseState(kind, spec.State)
		if err != nil {
			return nil, nil, nil, err
		}
		c, err := NewComponent(spec.ID, kind, state)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := registry.Add(c); err != nil {
			return nil, nil, nil, err
		}
	}

	for _, obs := range config.Observers {
		if _, err := registry.Observe(obs.Subject, obs.Observer); err != nil {
			return nil, nil, nil, err
		}
	}

	board, err := NewBoard(config.BoardSize, registry)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, p := range config.Placements {
		if err := board.Place(p.Component, p.Row, p.Col); err != nil {
			return nil, nil, nil, err
		}
	}

	return registry, board, NewDispatcher(registry), nil
}
