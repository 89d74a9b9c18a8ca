package engine

import "fmt"

// Engine provides the main interface for one board session
type Engine interface {
	// Placement
	Place(componentID string, row, col int) error
	Remove(componentID string) error
	ComponentAt(row, col int) (string, bool)
	FindPosition(componentID string) (Position, bool)

	// Actions
	Dispatch(componentID, action string) (*DispatchResult, error)
	Toggle(componentID string) (*RenderState, error)
	Observe(subjectID, observerID string) (bool, error)

	// Render state
	Component(componentID string) (*RenderState, error)
	View() *View
	Palette() []RenderState
	Reset() *View

	// Configuration
	GetConfig() *BoardConfig

	// History
	GetHistory() []HistoryEntry
	GetLastEntry() *HistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config     *BoardConfig
	registry   *Registry
	board      *Board
	dispatcher *Dispatcher
	history    []HistoryEntry
}

// NewEngine creates a new engine with the provided configuration
func NewEngine(config *BoardConfig) (*GameEngine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	registry, board, dispatcher, err := buildSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}

	return &GameEngine{
		config:     config,
		registry:   registry,
		board:      board,
		dispatcher: dispatcher,
		history:    []HistoryEntry{},
	}, nil
}

// NewEngineWithDefaults creates a new engine with the classic configuration
func NewEngineWithDefaults() *GameEngine {
	eng, err := NewEngine(DefaultBoardConfig())
	if err != nil {
		panic(fmt.Sprintf("default board config is invalid: %v", err))
	}
	return eng
}

// Place moves a component onto a cell
func (e *GameEngine) Place(componentID string, row, col int) error {
	entry := newHistoryEntry(EntryPlace, componentID)
	entry.Position = &Position{Row: row, Col: col}

	err := e.board.Place(componentID, row, col)
	e.record(entry, err)
	return err
}

// Remove returns a component to the palette
func (e *GameEngine) Remove(componentID string) error {
	entry := newHistoryEntry(EntryRemove, componentID)
	if pos, ok := e.board.FindPosition(componentID); ok {
		entry.Position = &pos
	}

	err := e.board.Remove(componentID)
	e.record(entry, err)
	return err
}

// ComponentAt returns the component id on a cell
func (e *GameEngine) ComponentAt(row, col int) (string, bool) {
	return e.board.ComponentAt(row, col)
}

// FindPosition returns the cell holding a component
func (e *GameEngine) FindPosition(componentID string) (Position, bool) {
	return e.board.FindPosition(componentID)
}

// Dispatch routes an action to a component
func (e *GameEngine) Dispatch(componentID, action string) (*DispatchResult, error) {
	entry := newHistoryEntry(EntryAction, componentID)
	entry.Action = normalizeAction(action)

	result, err := e.dispatcher.Dispatch(componentID, action)
	if result != nil {
		entry.Notifications = result.Notifications
	}
	e.record(entry, err)
	return result, err
}

// Toggle applies the direct-click transition to a component
func (e *GameEngine) Toggle(componentID string) (*RenderState, error) {
	entry := newHistoryEntry(EntryToggle, componentID)

	_, rs, err := e.dispatcher.Toggle(componentID)
	e.record(entry, err)
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

// Observe registers observerID as an observer of subjectID
func (e *GameEngine) Observe(subjectID, observerID string) (bool, error) {
	entry := newHistoryEntry(EntryObserve, subjectID)
	entry.Action = observerID

	added, err := e.registry.Observe(subjectID, observerID)
	e.record(entry, err)
	return added, err
}

// Component returns the render state of a single component
func (e *GameEngine) Component(componentID string) (*RenderState, error) {
	c, err := e.registry.Get(componentID)
	if err != nil {
		return nil, err
	}
	rs := c.Render()
	return &rs, nil
}

// View returns the render state of every component and cell
func (e *GameEngine) View() *View {
	components := make([]RenderState, 0, e.registry.Len())
	for _, c := range e.registry.All() {
		components = append(components, c.Render())
	}

	palette := []string{}
	for _, c := range e.registry.Palette() {
		palette = append(palette, c.ID())
	}

	cells := e.board.Cells()

	return &View{
		Size:       e.board.Size(),
		Components: components,
		Cells:      cells,
		Palette:    palette,
		Placed:     e.board.Occupied(),
		Revision:   computeRevision(e.board.Size(), components, cells),
		ConfigName: e.config.Name,
	}
}

// Palette returns the unplaced components in creation order
func (e *GameEngine) Palette() []RenderState {
	out := []RenderState{}
	for _, c := range e.registry.Palette() {
		out = append(out, c.Render())
	}
	return out
}

// Reset rebuilds the registry and board from the configuration.
// History is kept.
func (e *GameEngine) Reset() *View {
	registry, board, dispatcher, err := buildSession(e.config)
	if err != nil {
		// the config was validated in NewEngine
		panic(fmt.Sprintf("rebuilding board from validated config: %v", err))
	}
	e.registry = registry
	e.board = board
	e.dispatcher = dispatcher

	e.record(newHistoryEntry(EntryReset, ""), nil)
	return e.View()
}

// GetConfig returns the board configuration
func (e *GameEngine) GetConfig() *BoardConfig {
	return e.config
}

// GetHistory returns a copy of the complete request history
func (e *GameEngine) GetHistory() []HistoryEntry {
	out := make([]HistoryEntry, len(e.history))
	for i, entry := range e.history {
		out[i] = entry.clone()
	}
	return out
}

// GetLastEntry returns a copy of the most recent history entry, or nil
func (e *GameEngine) GetLastEntry() *HistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	entry := e.history[len(e.history)-1].clone()
	return &entry
}

// CheckInvariants verifies board and component positions agree
func (e *GameEngine) CheckInvariants() error {
	return e.board.CheckInvariants()
}

func (e *GameEngine) record(entry HistoryEntry, err error) {
	entry.Seq = len(e.history) + 1
	entry.Success = err == nil
	if err != nil {
		entry.Error = err.Error()
	}
	e.history = append(e.history, entry)
}
