package engine

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the transition rule a component follows
type Kind string

const (
	Candle Kind = "candle"
	Box    Kind = "box"
	Ball   Kind = "ball"
)

// State is the kind-specific state of a component
type State string

const (
	Unlit    State = "unlit"
	Lit      State = "lit"
	BurntOut State = "burnt_out"
	Open     State = "open"
	Closed   State = "closed"
	Active   State = "active"
	Inactive State = "inactive"
)

// Actions and events understood by the transition rules
const (
	ActionLight    = "LIGHT"
	ActionToggle   = "TOGGLE"
	EventCandleLit = "CANDLE_LIT"
)

// Validation constants
const (
	MinBoardSize     = 1
	MaxBoardSize     = 26
	DefaultBoardSize = 3
)

// History entry types
const (
	EntryPlace   = "place"
	EntryRemove  = "remove"
	EntryAction  = "action"
	EntryToggle  = "toggle"
	EntryObserve = "observe"
	EntryReset   = "reset"
)

var kindStates = map[Kind][]State{
	Candle: {Unlit, Lit, BurntOut},
	Box:    {Open, Closed},
	Ball:   {Active, Inactive},
}

// ParseKind converts user input into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindStates[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// ParseState converts user input into a State valid for kind.
// An empty string yields the kind's default state.
func ParseState(kind Kind, s string) (State, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultState(kind), nil
	}
	st := State(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range kindStates[kind] {
		if st == valid {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a %s state", ErrInvalidState, s, kind)
}

// DefaultState returns the state a component of kind starts in
func DefaultState(kind Kind) State {
	switch kind {
	case Candle:
		return Unlit
	case Box:
		return Closed
	default:
		return Inactive
	}
}

// Position is a board cell coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RenderState is what the presentation layer needs to draw a component
type RenderState struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	State       State     `json:"state"`
	DisplayText string    `json:"display_text"`
	Active      bool      `json:"active"`
	Position    *Position `json:"position,omitempty"`
	Observers   []string  `json:"observers,omitempty"`
}

// CellSnapshot is the occupancy of a single cell
type CellSnapshot struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	ComponentID string `json:"component_id,omitempty"`
}

// View is the full render state handed to the presentation layer after a change
type View struct {
	Size       int            `json:"size"`
	Components []RenderState  `json:"components"`
	Cells      []CellSnapshot `json:"cells"`
	Palette    []string       `json:"palette"`
	Placed     int            `json:"placed"`
	Revision   string         `json:"revision"`
	ConfigName string         `json:"config_name"`
}

// TransitionResult describes what one apply or toggle did to a component
type TransitionResult struct {
	ComponentID string   `json:"component_id"`
	Action      string   `json:"action"`
	From        State    `json:"from"`
	To          State    `json:"to"`
	Changed     bool     `json:"changed"`
	Emitted     []string `json:"emitted,omitempty"`
}

// Notification records one event delivered to an observer
type Notification struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Event      string           `json:"event"`
	Depth      int              `json:"depth"`
	Transition TransitionResult `json:"transition"`
}

// DispatchResult is returned by a successful Dispatch
type DispatchResult struct {
	Transition    TransitionResult `json:"transition"`
	Notifications []Notification   `json:"notifications"`
	Component     RenderState      `json:"component"`
}

// PlacementRequest is raised when a drag-drop gesture completes over a cell
type PlacementRequest struct {
	ComponentID string `json:"component_id" yaml:"component"`
	Row         int    `json:"row" yaml:"row"`
	Col         int    `json:"col" yaml:"col"`
}

// ActionRequest is raised when a component receives an action-bearing interaction
type ActionRequest struct {
	ComponentID string `json:"component_id" yaml:"component"`
	Action      string `json:"action" yaml:"action"`
}

// RemoveRequest takes a component off the board
type RemoveRequest struct {
	ComponentID string `json:"component_id" yaml:"component"`
}

// ToggleRequest is raised on a direct click on a component
type ToggleRequest struct {
	ComponentID string `json:"component_id" yaml:"component"`
}

// HistoryEntry represents a single request in the session history
type HistoryEntry struct {
	Seq           int            `json:"seq"`
	Type          string         `json:"type"`
	ComponentID   string         `json:"component_id,omitempty"`
	Action        string         `json:"action,omitempty"`
	Position      *Position      `json:"position,omitempty"`
	Success       bool           `json:"success"`
	Error         string         `json:"error,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
	Timestamp     int64          `json:"timestamp"`
}

func newHistoryEntry(entryType, componentID string) HistoryEntry {
	return HistoryEntry{
		Type:        entryType,
		ComponentID: componentID,
		Timestamp:   time.Now().Unix(),
	}
}

// clone returns a copy that shares no slices or pointers with e
func (e HistoryEntry) clone() HistoryEntry {
	if e.Position != nil {
		pos := *e.Position
		e.Position = &pos
	}
	if e.Notifications != nil {
		notifications := make([]Notification, len(e.Notifications))
		for i, n := range e.Notifications {
			n.Transition.Emitted = append([]string(nil), n.Transition.Emitted...)
			notifications[i] = n
		}
		e.Notifications = notifications
	}
	return e
}
