package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long session activity is retained.
const DefaultTTL = 40 * time.Minute

// Activity is the last observed state of one session.
type Activity struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	LastGame    string `json:"last_game"`
	Predictions int64  `json:"predictions"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Tracker observes per-session prediction activity. Tracking is
// best-effort: the predict path never fails because of it. Multiple
// predictions may share one session.
type Tracker interface {
	Touch(ctx context.Context, sessionID, userID, gameID string) error
	Get(ctx context.Context, sessionID string) (*Activity, error)
	Close() error
}

// MemoryTracker is an in-memory implementation for development and tests.
type MemoryTracker struct {
	mu       sync.Mutex
	sessions map[string]*Activity
	ttl      time.Duration
}

// NewMemoryTracker creates a new in-memory session tracker.
func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryTracker{
		sessions: make(map[string]*Activity),
		ttl:      ttl,
	}
}

// Touch records one prediction for a session.
func (m *MemoryTracker) Touch(ctx context.Context, sessionID, userID, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().Unix()
	act, ok := m.sessions[sessionID]
	if !ok || m.expired(act, now) {
		act = &Activity{SessionID: sessionID}
		m.sessions[sessionID] = act
	}
	act.UserID = userID
	act.LastGame = gameID
	act.Predictions++
	act.UpdatedAt = now
	return nil
}

// Get returns the activity for a session, or nil when unknown or expired.
func (m *MemoryTracker) Get(ctx context.Context, sessionID string) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	act, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if m.expired(act, time.Now().Unix()) {
		delete(m.sessions, sessionID)
		return nil, nil
	}
	copied := *act
	return &copied, nil
}

// Close is a no-op for the in-memory tracker.
func (m *MemoryTracker) Close() error {
	return nil
}

func (m *MemoryTracker) expired(act *Activity, now int64) bool {
	return now-act.UpdatedAt > int64(m.ttl.Seconds())
}
