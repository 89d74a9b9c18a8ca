package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// GameService defines all board-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Operations
	Place(ctx context.Context, sessionID string, req engine.PlacementRequest) (*PlacementResult, error)
	Remove(ctx context.Context, sessionID, componentID string) (*PlacementResult, error)
	Dispatch(ctx context.Context, sessionID string, req engine.ActionRequest) (*ActionResult, error)
	Toggle(ctx context.Context, sessionID string, req engine.ToggleRequest) (*ToggleResult, error)
	Observe(ctx context.Context, sessionID, subjectID, observerID string) (*ObserveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.View, error)

	// Board State
	GetView(ctx context.Context, sessionID string) (*engine.View, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
	ReloadConfigs(ctx context.Context) ([]*ConfigInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
	RefreshCache()
}

// Broadcaster receives every state change of a session. It is called with
// the service lock held, so calls arrive in the order the changes were
// applied; implementations must not block.
type Broadcaster interface {
	BroadcastView(sessionID string, view *engine.View)
	BroadcastEvent(sessionID string, event string, data interface{})
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithBroadcaster publishes views and board events after each change
func WithBroadcaster(b Broadcaster) Option {
	return func(s *gameServiceImpl) {
		s.broadcaster = b
	}
}

// Session represents an active board session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.BoardConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
