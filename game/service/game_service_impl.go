package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"go.uber.org/zap"
)

// gameServiceImpl implements the GameService interface.
// Every method that touches a session holds mu exclusively: reads also
// update the session's access time.
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster Broadcaster
	logger      *zap.Logger
	mu          sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger, opts ...Option) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new board session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = config.Name
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ConfigID = configID

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("config", configID),
		zap.Int("board_size", config.BoardSize))

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Place handles a placement request
func (s *gameServiceImpl) Place(ctx context.Context, sessionID string, req engine.PlacementRequest) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var from *engine.Position
	if pos, ok := sess.Engine.FindPosition(req.ComponentID); ok {
		from = &pos
	}

	if err := sess.Engine.Place(req.ComponentID, req.Row, req.Col); err != nil {
		s.logger.Debug("place rejected",
			zap.String("session", sessionID),
			zap.String("component", req.ComponentID),
			zap.Int("row", req.Row),
			zap.Int("col", req.Col),
			zap.Error(err))
		return nil, err
	}

	to := &engine.Position{Row: req.Row, Col: req.Col}
	result := &PlacementResult{
		Success:     true,
		ComponentID: req.ComponentID,
		From:        from,
		To:          to,
		View:        sess.Engine.View(),
	}

	switch {
	case from == nil:
		result.Message = fmt.Sprintf("%s placed at (%d,%d)", req.ComponentID, req.Row, req.Col)
		result.Events = []BoardEvent{newEvent(EventPlaced, result.Message, req.ComponentID, to)}
	case *from == *to:
		result.Message = fmt.Sprintf("%s is already at (%d,%d)", req.ComponentID, req.Row, req.Col)
	default:
		result.Message = fmt.Sprintf("%s moved from (%d,%d) to (%d,%d)", req.ComponentID, from.Row, from.Col, req.Row, req.Col)
		result.Events = []BoardEvent{newEvent(EventMoved, result.Message, req.ComponentID, to)}
	}

	s.publish(sess.ID, result.View, result.Events)
	return result, nil
}

// Remove returns a component to the palette
func (s *gameServiceImpl) Remove(ctx context.Context, sessionID, componentID string) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var from *engine.Position
	if pos, ok := sess.Engine.FindPosition(componentID); ok {
		from = &pos
	}

	if err := sess.Engine.Remove(componentID); err != nil {
		return nil, err
	}

	result := &PlacementResult{
		Success:     true,
		ComponentID: componentID,
		From:        from,
		View:        sess.Engine.View(),
	}
	if from != nil {
		result.Message = fmt.Sprintf("%s removed from (%d,%d)", componentID, from.Row, from.Col)
		result.Events = []BoardEvent{newEvent(EventRemoved, result.Message, componentID, from)}
	} else {
		result.Message = fmt.Sprintf("%s is not on the board", componentID)
	}

	s.publish(sess.ID, result.View, result.Events)
	return result, nil
}

// Dispatch routes an action to a component
func (s *gameServiceImpl) Dispatch(ctx context.Context, sessionID string, req engine.ActionRequest) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	dispatched, err := sess.Engine.Dispatch(req.ComponentID, req.Action)
	if err != nil {
		return nil, err
	}

	result := &ActionResult{
		Success: true,
		Result:  dispatched,
		View:    sess.Engine.View(),
		Events:  extractDispatchEvents(dispatched),
	}
	tr := dispatched.Transition
	if tr.Changed {
		result.Message = fmt.Sprintf("%s: %s -> %s", tr.ComponentID, tr.From, tr.To)
	} else {
		result.Message = fmt.Sprintf("%s ignored %s (state %s)", tr.ComponentID, tr.Action, tr.To)
	}

	s.publish(sess.ID, result.View, result.Events)
	return result, nil
}

// Toggle applies the direct-click transition
func (s *gameServiceImpl) Toggle(ctx context.Context, sessionID string, req engine.ToggleRequest) (*ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	before, _ := sess.Engine.Component(req.ComponentID)

	rs, err := sess.Engine.Toggle(req.ComponentID)
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{
		Success:   true,
		Component: rs,
		View:      sess.Engine.View(),
		Message:   fmt.Sprintf("%s: %s -> %s", rs.ID, before.State, rs.State),
	}
	if before.State != rs.State || before.Active != rs.Active {
		result.Events = []BoardEvent{newEvent(EventStateChanged, result.Message, rs.ID, rs.Position)}
	}

	s.publish(sess.ID, result.View, result.Events)
	return result, nil
}

// Observe registers an observer between two components
func (s *gameServiceImpl) Observe(ctx context.Context, sessionID, subjectID, observerID string) (*ObserveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	added, err := sess.Engine.Observe(subjectID, observerID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s now observes %s", observerID, subjectID)
	if !added {
		msg = fmt.Sprintf("%s was not added as an observer of %s", observerID, subjectID)
	}

	result := &ObserveResult{
		Added:   added,
		View:    sess.Engine.View(),
		Message: msg,
	}
	if added {
		s.publish(sess.ID, result.View, nil)
	}
	return result, nil
}

// Reset rebuilds the board from its configuration
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	view := sess.Engine.Reset()
	s.logger.Info("board reset", zap.String("session", sessionID))
	s.publish(sess.ID, view, []BoardEvent{newEvent(EventReset, "board reset", "", nil)})
	return view, nil
}

// GetView returns the current render view
func (s *gameServiceImpl) GetView(ctx context.Context, sessionID string) (*engine.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.View(), nil
}

// GetHistory returns paginated request history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var entries []engine.HistoryEntry
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else if start < total {
		entries = history[start:end]
	}

	if entries == nil {
		entries = []engine.HistoryEntry{}
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ReloadConfigs drops cached configurations and lists what is on disk now.
// Running sessions keep the config they were created with.
func (s *gameServiceImpl) ReloadConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	s.configs.RefreshCache()
	configs, err := s.configs.ListConfigs()
	if err != nil {
		return nil, err
	}
	s.logger.Info("configs reloaded", zap.Int("count", len(configs)))
	return configs, nil
}

// publish hands a change to the broadcaster. Callers hold s.mu.
func (s *gameServiceImpl) publish(sessionID string, view *engine.View, events []BoardEvent) {
	if s.broadcaster == nil {
		return
	}
	if view != nil {
		s.broadcaster.BroadcastView(sessionID, view)
	}
	for _, ev := range events {
		s.broadcaster.BroadcastEvent(sessionID, ev.Type, ev)
	}
}

// getSession looks up a session and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Warn("failed to update last access", zap.String("session", sessionID), zap.Error(err))
	}
	return sess, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		View:           sess.Engine.View(),
		BoardConfig:    sess.Config,
	}
}

func newEvent(eventType, message, componentID string, pos *engine.Position) BoardEvent {
	return BoardEvent{
		Type:        eventType,
		Message:     message,
		ComponentID: componentID,
		Timestamp:   time.Now(),
		Position:    pos,
	}
}

// extractDispatchEvents turns a dispatch result into board events
func extractDispatchEvents(result *engine.DispatchResult) []BoardEvent {
	events := []BoardEvent{}

	tr := result.Transition
	if tr.Changed {
		events = append(events, newEvent(EventStateChanged,
			fmt.Sprintf("%s changed from %s to %s", tr.ComponentID, tr.From, tr.To),
			tr.ComponentID, result.Component.Position))
	}

	for _, n := range result.Notifications {
		events = append(events, newEvent(EventNotified,
			fmt.Sprintf("%s notified %s of %s", n.From, n.To, n.Event),
			n.To, nil))
		if n.Transition.Changed {
			events = append(events, newEvent(EventStateChanged,
				fmt.Sprintf("%s changed from %s to %s", n.To, n.Transition.From, n.Transition.To),
				n.To, nil))
		}
	}

	return events
}
