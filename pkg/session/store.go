package session

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
)

// State is the persisted state of one widget. Value holds the encoded wire
// form so stores stay agnostic of widget types.
type State struct {
	Value               model.Optional[string] `json:"value"`
	FromUserInteraction bool                   `json:"from_user_interaction"`
}

// Store persists widget state for a single session.
type Store interface {
	Load(ctx context.Context, id identity.ID) (State, bool, error)
	Save(ctx context.Context, id identity.ID, state State) error
	Delete(ctx context.Context, id identity.ID) error
	IDs(ctx context.Context) ([]identity.ID, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[identity.ID]State
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[identity.ID]State)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Load(_ context.Context, id identity.ID) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	return state, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, id identity.ID, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id identity.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

// IDs returns the stored identities sorted lexically.
func (s *MemoryStore) IDs(_ context.Context) ([]identity.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]identity.ID, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
