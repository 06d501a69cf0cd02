package session

import (
	"context"
	"sync"

	"draftworx_orchestrator/internal/core"
)

// Store owns the per-session workflow state. Unknown session identifiers are
// silently provisioned with an empty state, never rejected.
type Store interface {
	// Get returns a snapshot of the state for a session, initializing an
	// empty one on first reference. Callers may read the snapshot freely;
	// it never aliases memory a concurrent Update mutates.
	Get(ctx context.Context, sessionID string) (*core.SessionState, error)
	// Update applies a field-wise merge and returns the resulting state.
	Update(ctx context.Context, sessionID string, patch core.StatePatch) (*core.SessionState, error)
	// PushToolRun appends a run id to the session's run sequence. It never
	// deduplicates and never reorders.
	PushToolRun(ctx context.Context, sessionID string, toolRunID string) error
}

// MemoryStore keeps session state in process memory for the process lifetime.
// There is no expiry; session identifiers accumulate until restart.
//
// All mutation happens under the mutex and reads hand out deep-copy
// snapshots, so the stored state is never touched outside the lock. No lock
// is held across a handler's remote call: two in-flight operations on the
// same session still interleave last-write-wins at field granularity.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*core.SessionState
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*core.SessionState),
	}
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*core.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked(sessionID).Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, sessionID string, patch core.StatePatch) (*core.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.locked(sessionID)
	state.Apply(patch)
	return state.Clone(), nil
}

func (m *MemoryStore) PushToolRun(ctx context.Context, sessionID string, toolRunID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.locked(sessionID)
	state.ToolRunSequence = append(state.ToolRunSequence, toolRunID)
	return nil
}

func (m *MemoryStore) locked(sessionID string) *core.SessionState {
	state, exists := m.sessions[sessionID]
	if !exists {
		state = core.NewSessionState()
		m.sessions[sessionID] = state
	}
	return state
}
