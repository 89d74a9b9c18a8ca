// Package session stores board sessions in memory.
//
// Each session owns its own engine, so components and occupancy never leak
// between sessions. Sessions are addressed by short ids, case-insensitively.
// Generated ids are 4 hex characters.
//
// The Manager is safe for concurrent use. It does not serialize calls into
// a session's engine; the service layer does that.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		return err
//	}
//
//	// periodically
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
