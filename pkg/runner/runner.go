// Package runner executes a script against a session: it commits queued
// interactions, runs the script with a fresh identity table and delta queue,
// and garbage-collects state of widgets that a completed run no longer
// declares.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/script"
	"github.com/goliatone/go-formstate/pkg/session"
)

// Result is the outcome of one run.
type Result struct {
	// Deltas are the records in enqueue order, including the Exception
	// record of a failed script.
	Deltas []model.Delta
	// Declared lists the widget identities declared by the run.
	Declared []identity.ID
	// Err is the error returned by the script, if any.
	Err error
	// Pruned counts widget states dropped after the run.
	Pruned int
}

// Runner binds a script to a session.
type Runner struct {
	fn      script.Func
	session *session.Session
	clock   func() time.Time
	logger  *zap.Logger
	runs    int
}

// Option configures a Runner.
type Option func(*Runner)

// WithSession runs the script against sess instead of a private session.
func WithSession(sess *session.Session) Option {
	return func(r *Runner) {
		if sess != nil {
			r.session = sess
		}
	}
}

// WithClock overrides the clock used for "now" defaults.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a Runner for fn.
func New(fn script.Func, options ...Option) (*Runner, error) {
	if fn == nil {
		return nil, errors.New("runner: script func is required")
	}
	r := &Runner{
		fn:     fn,
		clock:  time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.session == nil {
		sess, err := session.NewManager(session.WithManagerLogger(r.logger)).New()
		if err != nil {
			return nil, fmt.Errorf("runner: create session: %w", err)
		}
		r.session = sess
	}
	return r, nil
}

// Session returns the session the runner executes against.
func (r *Runner) Session() *session.Session {
	return r.session
}

// Reconciler is shorthand for Session().Reconciler.
func (r *Runner) Reconciler() *session.Reconciler {
	return r.session.Reconciler
}

// Run executes the script once. Script errors are reported on Result.Err and
// do not roll back state reconciled before the failure; the returned error is
// reserved for failures of the session machinery itself.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	rec := r.session.Reconciler
	if err := rec.BeginRun(ctx); err != nil {
		return Result{}, fmt.Errorf("runner: begin run: %w", err)
	}

	r.runs++
	logger := r.logger.With(zap.String("session_id", r.session.ID), zap.Int("run", r.runs))
	logger.Debug("script run started")

	run := script.NewRun(rec, script.WithClock(r.clock), script.WithLogger(logger))
	scriptErr := run.Execute(ctx, r.fn)

	result := Result{
		Deltas:   run.Deltas(),
		Declared: run.Declared(),
		Err:      scriptErr,
	}
	if scriptErr != nil {
		logger.Debug("script run failed", zap.Error(scriptErr), zap.Int("deltas", len(result.Deltas)))
		return result, nil
	}

	pruned, err := rec.Prune(ctx, result.Declared)
	if err != nil {
		return result, fmt.Errorf("runner: prune: %w", err)
	}
	result.Pruned = pruned
	logger.Debug("script run finished", zap.Int("deltas", len(result.Deltas)), zap.Int("pruned", pruned))
	return result, nil
}
