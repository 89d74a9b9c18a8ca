package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrCellOccupied       = errors.New("cell occupied")
	ErrUnknownComponent   = errors.New("unknown component")
	ErrDuplicateComponent = errors.New("duplicate component")
	ErrInvalidKind        = errors.New("invalid component kind")
	ErrInvalidState       = errors.New("invalid component state")
)

// UnknownComponentError reports an id missing from the registry
type UnknownComponentError struct {
	ID         string
	Suggestion string
}

func (e *UnknownComponentError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown component %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("unknown component %q", e.ID)
}

func (e *UnknownComponentError) Unwrap() error { return ErrUnknownComponent }

// PlacementError is returned by Board.Place and Board.Remove.
// The board is unchanged whenever one is returned.
type PlacementError struct {
	Op          string
	ComponentID string
	Row         int
	Col         int
	Occupant    string
	Err         error
}

func (e *PlacementError) Error() string {
	switch {
	case errors.Is(e.Err, ErrOutOfBounds):
		return fmt.Sprintf("%s %s: cell (%d,%d) is out of bounds", e.Op, e.ComponentID, e.Row, e.Col)
	case errors.Is(e.Err, ErrCellOccupied):
		return fmt.Sprintf("%s %s: cell (%d,%d) is occupied by %s", e.Op, e.ComponentID, e.Row, e.Col, e.Occupant)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.ComponentID, e.Err)
	}
}

func (e *PlacementError) Unwrap() error { return e.Err }

// DispatchError is returned when an action or toggle cannot be routed
type DispatchError struct {
	ComponentID string
	Action      string
	Err         error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s to %s: %v", e.Action, e.ComponentID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
