package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/apierror"
	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/session"
)

// Func is a declarative script. Returning an error ends the run; records
// enqueued before the failure are kept.
type Func func(ctx context.Context, st *Container) error

// RootPath is the delta path of the implicit top-level container.
var RootPath = []int{0}

// Run holds the per-execution state: the delta queue and the identity table.
// A Run is single-use and not safe for concurrent use; declarations happen in
// script order.
type Run struct {
	reconciler *session.Reconciler
	table      *identity.Table
	deltas     []model.Delta
	clock      func() time.Time
	logger     *zap.Logger
	root       *Container
	recorders  []*recorder
}

// RunOption configures a Run.
type RunOption func(*Run)

// WithClock overrides the clock used for "now" defaults.
func WithClock(clock func() time.Time) RunOption {
	return func(r *Run) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *zap.Logger) RunOption {
	return func(r *Run) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRun prepares a run against reconciler. A nil reconciler gets a private
// in-memory one.
func NewRun(reconciler *session.Reconciler, options ...RunOption) *Run {
	if reconciler == nil {
		reconciler = session.NewReconciler(nil)
	}
	r := &Run{
		reconciler: reconciler,
		table:      identity.NewTable(),
		clock:      time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.root = &Container{run: r, path: append([]int(nil), RootPath...)}
	return r
}

// Main returns the implicit top-level container.
func (r *Run) Main() *Container {
	return r.root
}

// Execute runs fn against the main container. A returned error is also
// recorded as a non-warning Exception delta.
func (r *Run) Execute(ctx context.Context, fn Func) error {
	if fn == nil {
		return errors.New("script: func is required")
	}
	if err := fn(ctx, r.root); err != nil {
		r.RecordError(err)
		return err
	}
	return nil
}

// RecordError appends an Exception record describing err to the main
// container.
func (r *Run) RecordError(err error) {
	if err == nil {
		return
	}
	r.root.enqueueElement(model.Element{Exception: &model.Exception{
		Type:    errorType(err),
		Message: err.Error(),
	}})
}

// Deltas returns a copy of the records enqueued so far, in order.
func (r *Run) Deltas() []model.Delta {
	return append([]model.Delta(nil), r.deltas...)
}

// Declared returns the widget identities declared so far, in order.
func (r *Run) Declared() []identity.ID {
	return r.table.Seen()
}

// Reconciler returns the reconciler the run reads and seeds.
func (r *Run) Reconciler() *session.Reconciler {
	return r.reconciler
}

func errorType(err error) string {
	if kind, ok := apierror.KindOf(err); ok {
		return string(kind)
	}
	var target error = err
	for {
		next := errors.Unwrap(target)
		if next == nil {
			break
		}
		target = next
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", target), "*")
}
