package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreFactory opens the store backing a session.
type StoreFactory func(sessionID string) (Store, error)

// Session pairs a session id with its reconciler.
type Session struct {
	ID         string
	Reconciler *Reconciler
}

// Manager hands out isolated sessions. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  StoreFactory
	logger   *zap.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStoreFactory overrides the default in-memory store factory.
func WithStoreFactory(factory StoreFactory) ManagerOption {
	return func(m *Manager) {
		if factory != nil {
			m.factory = factory
		}
	}
}

// WithManagerLogger sets the logger handed to every reconciler.
func WithManagerLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a Manager backed by in-memory stores unless configured
// otherwise.
func NewManager(options ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		factory: func(string) (Store, error) {
			return NewMemoryStore(), nil
		},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// New creates a session with a random id.
func (m *Manager) New() (*Session, error) {
	return m.Get(uuid.NewString())
}

// Get returns the session for id, creating it on first use.
func (m *Manager) Get(id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session: id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	store, err := m.factory(id)
	if err != nil {
		return nil, fmt.Errorf("session: open store for %s: %w", id, err)
	}
	sess := &Session{
		ID:         id,
		Reconciler: NewReconciler(store, WithLogger(m.logger.With(zap.String("session_id", id)))),
	}
	m.sessions[id] = sess
	m.logger.Debug("session created", zap.String("session_id", id))
	return sess, nil
}

// Close forgets the session. The store itself is left untouched.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
