package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
)

// Reconciler merges declared defaults, stored state and queued interactions.
// Interactions queued with ApplyInteraction become visible only after the
// next BeginRun, so an interaction and its reflected output are always one
// run apart.
type Reconciler struct {
	mu        sync.Mutex
	store     Store
	logger    *zap.Logger
	pending   map[identity.ID]model.Optional[string]
	order     []identity.ID
	callbacks map[identity.ID]func()
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *zap.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReconciler wraps store. A nil store gets a fresh MemoryStore.
func NewReconciler(store Store, options ...ReconcilerOption) *Reconciler {
	if store == nil {
		store = NewMemoryStore()
	}
	r := &Reconciler{
		store:     store,
		logger:    zap.NewNop(),
		pending:   make(map[identity.ID]model.Optional[string]),
		callbacks: make(map[identity.ID]func()),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Store exposes the backing store.
func (r *Reconciler) Store() Store {
	return r.store
}

// GetOrInit returns the stored state for id, seeding it from declared when
// none exists. Existing state always wins over a newly declared default.
func (r *Reconciler) GetOrInit(ctx context.Context, id identity.ID, declared model.Optional[string]) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok, err := r.store.Load(ctx, id)
	if err != nil {
		return State{}, fmt.Errorf("session: load %s: %w", id, err)
	}
	if ok {
		return state, nil
	}
	state = State{Value: declared}
	if err := r.store.Save(ctx, id, state); err != nil {
		return State{}, fmt.Errorf("session: seed %s: %w", id, err)
	}
	r.logger.Debug("widget state seeded", zap.String("widget_id", string(id)), zap.Bool("has_value", declared.Has()))
	return state, nil
}

// ApplyInteraction queues a user change for id. An absent value clears the
// widget. The latest interaction per widget wins.
func (r *Reconciler) ApplyInteraction(id identity.ID, value model.Optional[string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, queued := r.pending[id]; !queued {
		r.order = append(r.order, id)
	}
	r.pending[id] = value
}

// Pending reports whether an interaction is queued for id.
func (r *Reconciler) Pending(id identity.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[id]
	return ok
}

// BeginRun commits queued interactions and then invokes the change callbacks
// registered by the previous run for widgets whose value changed. Callbacks
// run in interaction order, outside the lock. When a commit fails, the
// interactions committed before it still fire their callbacks; the failed
// one and those after it stay queued.
func (r *Reconciler) BeginRun(ctx context.Context) error {
	r.mu.Lock()
	var (
		fire      []func()
		commitErr error
	)
	for i, id := range r.order {
		value := r.pending[id]
		prev, ok, err := r.store.Load(ctx, id)
		if err != nil {
			r.order = r.order[i:]
			commitErr = fmt.Errorf("session: load %s: %w", id, err)
			break
		}
		next := State{Value: value, FromUserInteraction: true}
		if err := r.store.Save(ctx, id, next); err != nil {
			r.order = r.order[i:]
			commitErr = fmt.Errorf("session: commit %s: %w", id, err)
			break
		}
		delete(r.pending, id)
		r.logger.Debug("widget interaction committed", zap.String("widget_id", string(id)), zap.Bool("has_value", value.Has()))
		if changed(prev, ok, value) {
			if cb := r.callbacks[id]; cb != nil {
				fire = append(fire, cb)
				delete(r.callbacks, id)
			}
		}
	}
	if commitErr == nil {
		r.order = r.order[:0]
		r.callbacks = make(map[identity.ID]func())
	}
	r.mu.Unlock()

	for _, cb := range fire {
		cb()
	}
	return commitErr
}

// RegisterCallback attaches fn to id for the next BeginRun.
func (r *Reconciler) RegisterCallback(id identity.ID, fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[id] = fn
}

// Value reads the committed state of id.
func (r *Reconciler) Value(ctx context.Context, id identity.ID) (State, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load(ctx, id)
}

// Prune deletes state for every stored identity not in active. Call it only
// after a run that completed.
func (r *Reconciler) Prune(ctx context.Context, active []identity.ID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keep := make(map[identity.ID]struct{}, len(active))
	for _, id := range active {
		keep[id] = struct{}{}
	}
	ids, err := r.store.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("session: list ids: %w", err)
	}
	removed := 0
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			continue
		}
		if _, queued := r.pending[id]; queued {
			continue
		}
		if err := r.store.Delete(ctx, id); err != nil {
			return removed, fmt.Errorf("session: delete %s: %w", id, err)
		}
		removed++
	}
	if removed > 0 {
		r.logger.Debug("stale widget state pruned", zap.Int("count", removed))
	}
	return removed, nil
}

func changed(prev State, existed bool, next model.Optional[string]) bool {
	if !existed {
		return true
	}
	if prev.Value.Has() != next.Has() {
		return true
	}
	return prev.Value.Value() != next.Value()
}
