package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"github.com/wricardo/mcp-training/tileboard/game/service"
	"github.com/wricardo/mcp-training/tileboard/transport/websocket"
	"go.uber.org/zap"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Board Operations
	PlaceFunc    func(ctx context.Context, sessionID string, req engine.PlacementRequest) (*service.PlacementResult, error)
	RemoveFunc   func(ctx context.Context, sessionID, componentID string) (*service.PlacementResult, error)
	DispatchFunc func(ctx context.Context, sessionID string, req engine.ActionRequest) (*service.ActionResult, error)
	ToggleFunc   func(ctx context.Context, sessionID string, req engine.ToggleRequest) (*service.ToggleResult, error)
	ObserveFunc  func(ctx context.Context, sessionID, subjectID, observerID string) (*service.ObserveResult, error)
	ResetFunc    func(ctx context.Context, sessionID string) (*engine.View, error)

	// Board State
	GetViewFunc    func(ctx context.Context, sessionID string) (*engine.View, error)
	GetHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.BoardConfig) error
	ReloadFunc      func(ctx context.Context) ([]*service.ConfigInfo, error)
}

func testView() *engine.View {
	return engine.NewEngineWithDefaults().View()
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Board Operations
func (m *MockGameService) Place(ctx context.Context, sessionID string, req engine.PlacementRequest) (*service.PlacementResult, error) {
	if m.PlaceFunc != nil {
		return m.PlaceFunc(ctx, sessionID, req)
	}
	return &service.PlacementResult{Success: true, ComponentID: req.ComponentID, View: testView()}, nil
}

func (m *MockGameService) Remove(ctx context.Context, sessionID, componentID string) (*service.PlacementResult, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, sessionID, componentID)
	}
	return &service.PlacementResult{Success: true, ComponentID: componentID, View: testView()}, nil
}

func (m *MockGameService) Dispatch(ctx context.Context, sessionID string, req engine.ActionRequest) (*service.ActionResult, error) {
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, sessionID, req)
	}
	return &service.ActionResult{
		Success: true,
		Result:  &engine.DispatchResult{Notifications: []engine.Notification{}},
		View:    testView(),
	}, nil
}

func (m *MockGameService) Toggle(ctx context.Context, sessionID string, req engine.ToggleRequest) (*service.ToggleResult, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, sessionID, req)
	}
	return &service.ToggleResult{Success: true, View: testView()}, nil
}

func (m *MockGameService) Observe(ctx context.Context, sessionID, subjectID, observerID string) (*service.ObserveResult, error) {
	if m.ObserveFunc != nil {
		return m.ObserveFunc(ctx, sessionID, subjectID, observerID)
	}
	return &service.ObserveResult{Added: true, View: testView()}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.View, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return testView(), nil
}

// Board State
func (m *MockGameService) GetView(ctx context.Context, sessionID string) (*engine.View, error) {
	if m.GetViewFunc != nil {
		return m.GetViewFunc(ctx, sessionID)
	}
	return testView(), nil
}

func (m *MockGameService) GetHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Entries:    []engine.HistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.BoardConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

func (m *MockGameService) ReloadConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return m.ListConfigs(ctx)
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	hub := websocket.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return NewServer(mockService, hub, zap.NewNop())
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{
						ID:             "ab12",
						ConfigName:     "classic",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific config",
			requestBody: map[string]string{"config_id": "wide"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "wide" {
						t.Errorf("Expected config name 'wide', got %s", configName)
					}
					return &service.SessionInfo{ID: "cd34", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "wide" {
					t.Errorf("Expected config name 'wide', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_name": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: 'nope'", service.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				parseResponse(t, w, &resp)
				if resp.Code != CodeConfigNotFound {
					t.Errorf("Expected code %s, got %s", CodeConfigNotFound, resp.Code)
				}
			},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				parseResponse(t, w, &resp)
				if resp.Error != "service error" || resp.Code != CodeInternal {
					t.Errorf("Unexpected error body %+v", resp)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
				{ID: "new", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name        string
		path        string
		expectedIDs []string
		total       float64
	}{
		{"default sorts by access desc", "/api/sessions", []string{"new", "mid", "old"}, 3},
		{"sort by created asc", "/api/sessions?sort=created&order=asc", []string{"mid", "old", "new"}, 3},
		{"limit", "/api/sessions?limit=1", []string{"new"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", tt.path, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    float64                `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.total {
				t.Errorf("Expected total %v, got %v", tt.total, resp.Total)
			}
			if len(resp.Sessions) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d sessions, got %d", len(tt.expectedIDs), len(resp.Sessions))
			}
			for i, id := range tt.expectedIDs {
				if resp.Sessions[i].ID != id {
					t.Errorf("Expected session %d to be %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	notFound := func(ctx context.Context, sessionID string) error {
		return fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
	}
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, notFound(ctx, sessionID)
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "ab12" {
				return notFound(ctx, sessionID)
			}
			return nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{"GET", "/api/sessions/ab12", http.StatusOK},
		{"GET", "/api/sessions/zzzz", http.StatusNotFound},
		{"DELETE", "/api/sessions/ab12", http.StatusOK},
		{"DELETE", "/api/sessions/zzzz", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest(tt.method, tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code == http.StatusNotFound {
				var resp ErrorResponse
				parseResponse(t, w, &resp)
				if resp.Code != CodeSessionNotFound {
					t.Errorf("Expected code %s, got %s", CodeSessionNotFound, resp.Code)
				}
			}
		})
	}
}

// Board Operation Tests

func TestPlace(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		placeErr       error
		expectedStatus int
		expectedCode   string
		suggestion     string
	}{
		{
			name:           "successful placement",
			body:           engine.PlacementRequest{ComponentID: "Candle1", Row: 0, Col: 1},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing component id",
			body:           map[string]int{"row": 0, "col": 0},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeInvalidRequest,
		},
		{
			name: "out of bounds",
			body: engine.PlacementRequest{ComponentID: "Candle1", Row: 3, Col: 0},
			placeErr: &engine.PlacementError{
				Op: "place", ComponentID: "Candle1", Row: 3, Col: 0, Err: engine.ErrOutOfBounds,
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeOutOfBounds,
		},
		{
			name: "cell occupied",
			body: engine.PlacementRequest{ComponentID: "Box1", Row: 0, Col: 0},
			placeErr: &engine.PlacementError{
				Op: "place", ComponentID: "Box1", Row: 0, Col: 0, Occupant: "Candle1", Err: engine.ErrCellOccupied,
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   CodeCellOccupied,
		},
		{
			name: "unknown component",
			body: engine.PlacementRequest{ComponentID: "Candel1", Row: 0, Col: 0},
			placeErr: &engine.PlacementError{
				Op: "place", ComponentID: "Candel1", Row: 0, Col: 0,
				Err: &engine.UnknownComponentError{ID: "Candel1", Suggestion: "Candle1"},
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   CodeUnknownComponent,
			suggestion:     "Candle1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			mockService := &MockGameService{
				PlaceFunc: func(ctx context.Context, sessionID string, req engine.PlacementRequest) (*service.PlacementResult, error) {
					called = true
					if sessionID != "ab12" {
						t.Errorf("Expected session ab12, got %s", sessionID)
					}
					if tt.placeErr != nil {
						return nil, tt.placeErr
					}
					return &service.PlacementResult{Success: true, ComponentID: req.ComponentID, View: testView()}, nil
				},
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/place", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedCode == CodeInvalidRequest && called {
				t.Error("Service should not be called for an invalid body")
			}
			if tt.expectedCode != "" {
				var resp ErrorResponse
				parseResponse(t, w, &resp)
				if resp.Code != tt.expectedCode {
					t.Errorf("Expected code %s, got %s", tt.expectedCode, resp.Code)
				}
				if resp.Suggestion != tt.suggestion {
					t.Errorf("Expected suggestion %q, got %q", tt.suggestion, resp.Suggestion)
				}
			}
		})
	}
}

func TestBoardOperations(t *testing.T) {
	var gotAction engine.ActionRequest
	var gotToggle engine.ToggleRequest
	var gotRemove, gotSubject, gotObserver string

	mockService := &MockGameService{
		RemoveFunc: func(ctx context.Context, sessionID, componentID string) (*service.PlacementResult, error) {
			gotRemove = componentID
			return &service.PlacementResult{Success: true, View: testView()}, nil
		},
		DispatchFunc: func(ctx context.Context, sessionID string, req engine.ActionRequest) (*service.ActionResult, error) {
			gotAction = req
			return &service.ActionResult{
				Success: true,
				Result: &engine.DispatchResult{
					Transition: engine.TransitionResult{ComponentID: req.ComponentID, From: engine.Unlit, To: engine.Lit, Changed: true},
				},
				View: testView(),
			}, nil
		},
		ToggleFunc: func(ctx context.Context, sessionID string, req engine.ToggleRequest) (*service.ToggleResult, error) {
			gotToggle = req
			return &service.ToggleResult{Success: true, View: testView()}, nil
		},
		ObserveFunc: func(ctx context.Context, sessionID, subjectID, observerID string) (*service.ObserveResult, error) {
			gotSubject, gotObserver = subjectID, observerID
			return &service.ObserveResult{Added: true, View: testView()}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name           string
		path           string
		body           interface{}
		expectedStatus int
		check          func(t *testing.T)
	}{
		{
			name:           "remove",
			path:           "/api/sessions/ab12/remove",
			body:           map[string]string{"component_id": "Box1"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T) {
				if gotRemove != "Box1" {
					t.Errorf("Expected Box1 removed, got %s", gotRemove)
				}
			},
		},
		{
			name:           "action",
			path:           "/api/sessions/ab12/action",
			body:           engine.ActionRequest{ComponentID: "Candle1", Action: "LIGHT"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T) {
				if gotAction.ComponentID != "Candle1" || gotAction.Action != "LIGHT" {
					t.Errorf("Unexpected action request %+v", gotAction)
				}
			},
		},
		{
			name:           "action without action name",
			path:           "/api/sessions/ab12/action",
			body:           map[string]string{"component_id": "Candle1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "toggle",
			path:           "/api/sessions/ab12/toggle",
			body:           engine.ToggleRequest{ComponentID: "Ball1"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T) {
				if gotToggle.ComponentID != "Ball1" {
					t.Errorf("Expected Ball1 toggled, got %s", gotToggle.ComponentID)
				}
			},
		},
		{
			name:           "observe",
			path:           "/api/sessions/ab12/observers",
			body:           map[string]string{"subject": "Candle1", "observer": "Ball1"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T) {
				if gotSubject != "Candle1" || gotObserver != "Ball1" {
					t.Errorf("Unexpected observe %s <- %s", gotSubject, gotObserver)
				}
			},
		},
		{
			name:           "malformed body",
			path:           "/api/sessions/ab12/toggle",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", tt.path, tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func TestReset(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/reset", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message string       `json:"message"`
		View    *engine.View `json:"view"`
	}
	parseResponse(t, w, &resp)
	if resp.View == nil || resp.View.Size != 3 {
		t.Errorf("Expected reset view of size 3, got %+v", resp.View)
	}
}

func TestGetView(t *testing.T) {
	view := testView()
	server := setupTestServer(t, &MockGameService{
		GetViewFunc: func(ctx context.Context, sessionID string) (*engine.View, error) {
			return view, nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/view", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag != `"`+view.Revision+`"` {
		t.Errorf("Expected ETag of the revision, got %s", etag)
	}

	var resp engine.View
	parseResponse(t, w, &resp)
	if len(resp.Cells) != 9 {
		t.Errorf("Expected 9 cells, got %d", len(resp.Cells))
	}

	t.Run("not modified", func(t *testing.T) {
		req := makeRequest("GET", "/api/sessions/ab12/view", nil)
		req.Header.Set("If-None-Match", etag)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusNotModified {
			t.Errorf("Expected status 304, got %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Error("Expected empty body for 304")
		}
	})
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedOpts service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=2&limit=5&order=asc", service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{"invalid values fall back", "?page=-1&limit=abc&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			server := setupTestServer(t, &MockGameService{
				GetHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Entries: []engine.HistoryEntry{}}, nil
				},
			})

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.expectedOpts {
				t.Errorf("Expected options %+v, got %+v", tt.expectedOpts, got)
			}
		})
	}
}

// Configuration Tests

func TestConfigs(t *testing.T) {
	var saved *engine.BoardConfig
	reloads := 0
	server := setupTestServer(t, &MockGameService{
		ReloadFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			reloads++
			return []*service.ConfigInfo{{ConfigID: "classic"}, {ConfigID: "wide"}}, nil
		},
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "classic", BoardSize: 3, ComponentCount: 3}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.BoardConfig, error) {
			if configName != "classic" {
				return nil, service.ErrConfigNotFound
			}
			return engine.DefaultBoardConfig(), nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.BoardConfig) error {
			if config.BoardSize < 1 {
				return fmt.Errorf("%w: board_size", service.ErrInvalidConfig)
			}
			saved = config
			return nil
		},
	})

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))
		var resp []*service.ConfigInfo
		parseResponse(t, w, &resp)
		if len(resp) != 1 || resp[0].ConfigID != "classic" {
			t.Errorf("Unexpected config list %+v", resp)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/configs/classic", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/configs/missing", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		cfg := engine.DefaultBoardConfig()
		cfg.Name = "mine"

		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/configs", cfg))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d", w.Code)
		}
		if saved == nil || saved.Name != "mine" || len(saved.Components) != 3 {
			t.Errorf("Unexpected saved config %+v", saved)
		}
	})

	t.Run("reload", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/configs/reload", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var resp []*service.ConfigInfo
		parseResponse(t, w, &resp)
		if reloads != 1 || len(resp) != 2 {
			t.Errorf("Expected one reload listing 2 configs, got %d and %+v", reloads, resp)
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/configs", map[string]interface{}{"name": "bad", "board_size": 0}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/configs", map[string]interface{}{"board_size": 3}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for missing name, got %d", w.Code)
		}
	})
}

func TestRequestID(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	req := makeRequest("GET", "/api/sessions", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "given-id" {
		t.Errorf("Expected request id to be echoed, got %s", got)
	}
}

func TestWebSocket(t *testing.T) {
	server := setupTestServer(t, &MockGameService{
		GetViewFunc: func(ctx context.Context, sessionID string) (*engine.View, error) {
			return nil, service.ErrSessionNotFound
		},
	})

	t.Run("missing session parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/ws", nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/ws?session=zzzz", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
