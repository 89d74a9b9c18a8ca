package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"github.com/wricardo/mcp-training/tileboard/game/service"
	"github.com/wricardo/mcp-training/tileboard/transport/websocket"
	"go.uber.org/zap"
)

// Error codes returned in the "code" field of error bodies
const (
	CodeOutOfBounds      = "out_of_bounds"
	CodeCellOccupied     = "cell_occupied"
	CodeUnknownComponent = "unknown_component"
	CodeSessionNotFound  = "session_not_found"
	CodeConfigNotFound   = "config_not_found"
	CodeInvalidConfig    = "invalid_config"
	CodeInvalidRequest   = "invalid_request"
	CodeInternal         = "internal"
)

// RequestIDHeader carries the request id assigned by the server
const RequestIDHeader = "X-Request-ID"

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  *zap.Logger
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.Named("api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.requestMiddleware)

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Board operations
	api.HandleFunc("/sessions/{id}/view", s.handleGetView).Methods("GET")
	api.HandleFunc("/sessions/{id}/place", s.handlePlace).Methods("POST")
	api.HandleFunc("/sessions/{id}/remove", s.handleRemove).Methods("POST")
	api.HandleFunc("/sessions/{id}/action", s.handleAction).Methods("POST")
	api.HandleFunc("/sessions/{id}/toggle", s.handleToggle).Methods("POST")
	api.HandleFunc("/sessions/{id}/observers", s.handleObserve).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/reload", s.handleReloadConfigs).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket stays outside the middleware: the recorder cannot hijack
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestMiddleware assigns a request id and logs each request
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps engine and service errors to status codes
func respondServiceError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var unknown *engine.UnknownComponentError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status, resp.Code = http.StatusNotFound, CodeSessionNotFound
	case errors.Is(err, service.ErrConfigNotFound):
		status, resp.Code = http.StatusNotFound, CodeConfigNotFound
	case errors.Is(err, service.ErrInvalidConfig):
		status, resp.Code = http.StatusBadRequest, CodeInvalidConfig
	case errors.Is(err, engine.ErrOutOfBounds):
		status, resp.Code = http.StatusBadRequest, CodeOutOfBounds
	case errors.Is(err, engine.ErrCellOccupied):
		status, resp.Code = http.StatusConflict, CodeCellOccupied
	case errors.As(err, &unknown):
		status, resp.Code = http.StatusNotFound, CodeUnknownComponent
		resp.Suggestion = unknown.Suggestion
	case errors.Is(err, engine.ErrUnknownComponent):
		status, resp.Code = http.StatusNotFound, CodeUnknownComponent
	default:
		resp.Code = CodeInternal
	}

	respondJSON(w, status, resp)
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Board Handlers

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	etag := `"` + view.Revision + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req engine.PlacementRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if req.ComponentID == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "component_id is required")
		return
	}

	result, err := s.service.Place(r.Context(), sessionID, req)
	s.logger.Debug("place",
		zap.String("session", sessionID),
		zap.String("component", req.ComponentID),
		zap.Int("row", req.Row),
		zap.Int("col", req.Col),
		zap.Bool("ok", err == nil))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req engine.RemoveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if req.ComponentID == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "component_id is required")
		return
	}

	result, err := s.service.Remove(r.Context(), sessionID, req.ComponentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req engine.ActionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if req.ComponentID == "" || req.Action == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "component_id and action are required")
		return
	}

	result, err := s.service.Dispatch(r.Context(), sessionID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.logger.Debug("action",
		zap.String("session", sessionID),
		zap.String("component", req.ComponentID),
		zap.String("action", req.Action),
		zap.Bool("changed", result.Result.Transition.Changed),
		zap.Int("notifications", len(result.Result.Notifications)))

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req engine.ToggleRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if req.ComponentID == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "component_id is required")
		return
	}

	result, err := s.service.Toggle(r.Context(), sessionID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Subject  string `json:"subject"`
		Observer string `json:"observer"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if req.Subject == "" || req.Observer == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "subject and observer are required")
		return
	}

	result, err := s.service.Observe(r.Context(), sessionID, req.Subject, req.Observer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	view, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Board reset successfully",
		"view":    view,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	config, err := s.service.LoadConfig(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var boardConfig engine.BoardConfig
	if err := decodeBody(r, &boardConfig); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if strings.TrimSpace(boardConfig.Name) == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), boardConfig.Name, &boardConfig); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": boardConfig.Name,
	})
}

func (s *Server) handleReloadConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ReloadConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "session parameter required")
		return
	}

	view, err := s.service.GetView(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, CodeInternal, "websocket hub not running")
		return
	}

	s.hub.ServeWS(w, r, sessionID, view)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
