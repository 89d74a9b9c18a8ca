package engine

import (
	"fmt"
	"strings"
)

// Component is a placeable tile with a kind-specific state machine.
// Only the Board sets its position.
type Component struct {
	id        string
	kind      Kind
	state     State
	active    bool
	observers []string
	position  *Position
}

// NewComponent creates a component in the given state.
// An empty state selects the kind's default.
func NewComponent(id string, kind Kind, state State) (*Component, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("component id cannot be empty")
	}
	if _, ok := kindStates[kind]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	st, err := ParseState(kind, string(state))
	if err != nil {
		return nil, err
	}

	c := &Component{id: id, kind: kind}
	c.setState(st)
	return c, nil
}

// ID returns the component's immutable identifier
func (c *Component) ID() string { return c.id }

// Kind returns the component's kind
func (c *Component) Kind() Kind { return c.kind }

// State returns the current state
func (c *Component) State() State { return c.state }

// Active reports the activity flag used for coloring
func (c *Component) Active() bool { return c.active }

// Observers returns the observer ids in registration order
func (c *Component) Observers() []string {
	out := make([]string, len(c.observers))
	copy(out, c.observers)
	return out
}

// Position returns the board cell holding the component, if placed
func (c *Component) Position() (Position, bool) {
	if c.position == nil {
		return Position{}, false
	}
	return *c.position, true
}

// ApplyAction applies the kind-specific transition rule for action.
// Actions without a rule for the kind are silent no-ops.
func (c *Component) ApplyAction(action string) TransitionResult {
	action = normalizeAction(action)
	result := TransitionResult{
		ComponentID: c.id,
		Action:      action,
		From:        c.state,
	}

	switch c.kind {
	case Candle:
		if action == ActionLight && c.state == Unlit {
			c.setState(Lit)
			result.Emitted = []string{EventCandleLit}
		}
	case Box:
		if action == ActionToggle {
			c.setState(flipBox(c.state))
		}
	case Ball:
		// balls only change through ToggleState
	}

	result.To = c.state
	result.Changed = result.From != result.To
	return result
}

// ToggleState is the direct-click transition. It never notifies observers.
func (c *Component) ToggleState() TransitionResult {
	result := TransitionResult{
		ComponentID: c.id,
		Action:      "toggle",
		From:        c.state,
	}

	switch c.kind {
	case Candle:
		switch c.state {
		case Unlit:
			c.setState(Lit)
		case Lit:
			c.setState(Unlit)
		}
	case Box:
		c.setState(flipBox(c.state))
	case Ball:
		c.active = !c.active
		c.setState(ballState(c.active))
	}

	result.To = c.state
	result.Changed = result.From != result.To
	return result
}

// RegisterObserver adds observerID to the observer list.
// It reports false when observerID is the component itself or already registered.
func (c *Component) RegisterObserver(observerID string) bool {
	if observerID == c.id || observerID == "" {
		return false
	}
	for _, id := range c.observers {
		if id == observerID {
			return false
		}
	}
	c.observers = append(c.observers, observerID)
	return true
}

// DisplayText is the textual representation shown on the tile
func (c *Component) DisplayText() string {
	return fmt.Sprintf("%s (%s)", c.id, c.state)
}

// Render returns a snapshot for the presentation layer
func (c *Component) Render() RenderState {
	rs := RenderState{
		ID:          c.id,
		Kind:        c.kind,
		State:       c.state,
		DisplayText: c.DisplayText(),
		Active:      c.active,
		Observers:   c.Observers(),
	}
	if pos, ok := c.Position(); ok {
		rs.Position = &pos
	}
	return rs
}

// setState updates the state and recomputes the activity flag
func (c *Component) setState(s State) {
	c.state = s
	switch c.kind {
	case Candle:
		c.active = s == Lit
	case Box:
		c.active = s == Open
	case Ball:
		c.active = s == Active
	}
}

func (c *Component) setPosition(p *Position) {
	c.position = p
}

func flipBox(s State) State {
	if s == Open {
		return Closed
	}
	return Open
}

func ballState(active bool) State {
	if active {
		return Active
	}
	return Inactive
}

func normalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
