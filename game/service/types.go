package service

import (
	"time"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
)

// Board event types
const (
	EventPlaced       = "placed"
	EventMoved        = "moved"
	EventRemoved      = "removed"
	EventStateChanged = "state_changed"
	EventNotified     = "notified"
	EventReset        = "reset"
)

// SessionInfo provides information about a board session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	View           *engine.View        `json:"view"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// PlacementResult contains the result of a place or remove request
type PlacementResult struct {
	Success     bool             `json:"success"`
	ComponentID string           `json:"component_id"`
	From        *engine.Position `json:"from,omitempty"`
	To          *engine.Position `json:"to,omitempty"`
	View        *engine.View     `json:"view"`
	Message     string           `json:"message"`
	Events      []BoardEvent     `json:"events,omitempty"`
}

// ActionResult contains the result of an action request
type ActionResult struct {
	Success bool                   `json:"success"`
	Result  *engine.DispatchResult `json:"result"`
	View    *engine.View           `json:"view"`
	Message string                 `json:"message"`
	Events  []BoardEvent           `json:"events,omitempty"`
}

// ToggleResult contains the result of a toggle request
type ToggleResult struct {
	Success   bool                `json:"success"`
	Component *engine.RenderState `json:"component"`
	View      *engine.View        `json:"view"`
	Message   string              `json:"message"`
	Events    []BoardEvent        `json:"events,omitempty"`
}

// ObserveResult contains the result of an observer registration
type ObserveResult struct {
	Added   bool         `json:"added"`
	View    *engine.View `json:"view"`
	Message string       `json:"message"`
}

// BoardEvent represents something that happened while handling a request
type BoardEvent struct {
	Type        string           `json:"type"`
	Message     string           `json:"message"`
	ComponentID string           `json:"component_id,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	Position    *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated request history
type HistoryResponse struct {
	Entries      []engine.HistoryEntry `json:"entries"`
	TotalEntries int                   `json:"total_entries"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	BoardSize      int    `json:"board_size"`
	ComponentCount int    `json:"component_count"`
}
