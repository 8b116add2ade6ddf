package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

// MockStorage is an in-memory Storage for tests
type MockStorage struct {
	mu        sync.RWMutex
	updateMu  sync.Mutex
	levels    map[string]*sprite.Level
	sessions  map[uuid.UUID]*session.Session
	lines     map[uuid.UUID][]session.Line
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		levels:   make(map[string]*sprite.Level),
		sessions: make(map[uuid.UUID]*session.Session),
		lines:    make(map[uuid.UUID][]session.Line),
	}
}

// AddLevel makes a level available to GetLevel and ListLevels
func (m *MockStorage) AddLevel(l *sprite.Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[l.ID] = l
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) ListLevels(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.levels))
	for id := range m.levels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *MockStorage) GetLevel(ctx context.Context, id string) (*sprite.Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.levels[id]
	if !ok {
		return nil, fmt.Errorf("level %q: %w", id, ErrNotFound)
	}
	return l, nil
}

func (m *MockStorage) SaveSession(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	cp.Visited = slices.Clone(s.Visited)
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	cp := *s
	cp.Visited = slices.Clone(s.Visited)
	return &cp, nil
}

// UpdateSession serializes updates without holding the data lock, so fn
// may call back into the mock.
func (m *MockStorage) UpdateSession(ctx context.Context, id uuid.UUID, fn func(*session.Session) error) (*session.Session, error) {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	s, err := m.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.SaveSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.lines, id)
	return nil
}

func (m *MockStorage) AppendLine(ctx context.Context, id uuid.UUID, line session.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[id] = append([]session.Line{line}, m.lines[id]...)
	return nil
}

func (m *MockStorage) History(ctx context.Context, id uuid.UUID, limit int) ([]session.Line, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := m.lines[id]
	if limit > 0 && limit < len(lines) {
		lines = lines[:limit]
	}
	return slices.Clone(lines), nil
}
