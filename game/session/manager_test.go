package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"go.uber.org/zap"
)

func createTestConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "test",
		Description: "Test configuration",
		BoardSize:   3,
		Components: []engine.ComponentSpec{
			{ID: "Candle1", Kind: "candle"},
			{ID: "Box1", Kind: "box"},
			{ID: "Ball1", Kind: "ball"},
		},
		Observers: []engine.ObserverSpec{
			{Subject: "Candle1", Observer: "Box1"},
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.ConfigID != "test" {
			t.Errorf("Expected config ID 'test', got '%s'", session.ConfigID)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid session ID", func(t *testing.T) {
		_, err := manager.Create("a/b", config)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.Name = ""
		_, err := manager.Create("invalid-test", invalidConfig)
		if err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager(zap.NewNop())
	created, _ := manager.Create("get-test", createTestConfig())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the stored session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	manager.Create("delete-test", config)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		err := manager.Delete("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", config)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	ids := []string{"list-1", "list-2", "list-3"}
	for _, id := range ids {
		if _, err := manager.Create(id, config); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}

	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Errorf("Session %s not found in list", id)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	active, _ := manager.Create("active", config)
	expired, _ := manager.Create("expired", config)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)
	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}

	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager(zap.NewNop())

	session, _ := manager.Create("access-test", createTestConfig())
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := manager.Create(fmt.Sprintf("conc-%d", id%50), config)
			if err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config)
	session2, _ := manager.Create("iso-2", config)

	if err := session1.Engine.Place("Candle1", 0, 0); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if _, err := session1.Engine.Dispatch("Candle1", engine.ActionLight); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if _, ok := session2.Engine.ComponentAt(0, 0); ok {
		t.Error("Session 2 board should not be affected by session 1 placements")
	}

	candle, err := session2.Engine.Component("Candle1")
	if err != nil {
		t.Fatalf("Component failed: %v", err)
	}
	if candle.State != engine.Unlit {
		t.Errorf("Session 2 candle should still be unlit, got %s", candle.State)
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager(zap.NewNop())
	config := createTestConfig()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}
