// Package apptest drives scripts programmatically: run a script, inspect the
// declared widgets, queue interactions on them and run again.
//
//	at, err := apptest.FromFunc(myScript).Run(ctx)
//	ti := at.TimeInput(0)
//	at, err = ti.SetValue(model.Some(model.Clock(8, 45))).Run(ctx)
package apptest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/codec"
	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/runner"
	"github.com/goliatone/go-formstate/pkg/script"
	"github.com/goliatone/go-formstate/pkg/session"
)

// App is a script under test together with the view of its last run.
type App struct {
	fn      script.Func
	options []runner.Option
	runner  *runner.Runner
	result  runner.Result
	values  map[identity.ID]model.Optional[model.TimeOfDay]
}

// Option configures an App.
type Option func(*App)

// WithClock fixes the clock used for "now" defaults.
func WithClock(clock func() time.Time) Option {
	return func(a *App) {
		a.options = append(a.options, runner.WithClock(clock))
	}
}

// WithLogger routes run logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.options = append(a.options, runner.WithLogger(logger))
	}
}

// WithStore runs against a session backed by store.
func WithStore(store session.Store) Option {
	return func(a *App) {
		sess := &session.Session{ID: "apptest", Reconciler: session.NewReconciler(store)}
		a.options = append(a.options, runner.WithSession(sess))
	}
}

// FromFunc wraps fn. Nothing runs until Run is called.
func FromFunc(fn script.Func, options ...Option) *App {
	app := &App{fn: fn}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(app)
	}
	return app
}

// Run executes the script once and refreshes the view. Script errors are kept
// on Err; the returned error reports harness failures.
func (a *App) Run(ctx context.Context) (*App, error) {
	if a.runner == nil {
		r, err := runner.New(a.fn, a.options...)
		if err != nil {
			return a, fmt.Errorf("apptest: %w", err)
		}
		a.runner = r
	}
	result, err := a.runner.Run(ctx)
	if err != nil {
		return a, fmt.Errorf("apptest: %w", err)
	}
	values, err := a.snapshot(ctx, result.Deltas)
	if err != nil {
		return a, err
	}
	a.result = result
	a.values = values
	return a, nil
}

// snapshot reads the reconciled value of every time input the run declared.
func (a *App) snapshot(ctx context.Context, deltas []model.Delta) (map[identity.ID]model.Optional[model.TimeOfDay], error) {
	values := make(map[identity.ID]model.Optional[model.TimeOfDay])
	for _, d := range deltas {
		if d.Element == nil || d.Element.TimeInput == nil {
			continue
		}
		id := identity.ID(d.Element.TimeInput.ID)
		state, ok, err := a.runner.Reconciler().Value(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("apptest: read %s: %w", id, err)
		}
		if !ok {
			return nil, fmt.Errorf("apptest: no state for declared widget %s", id)
		}
		value, err := codec.DecodeOptional(state.Value)
		if err != nil {
			return nil, fmt.Errorf("apptest: decode %s: %w", id, err)
		}
		values[id] = value
	}
	return values, nil
}

// Err returns the script error of the last run.
func (a *App) Err() error {
	return a.result.Err
}

// Deltas returns the records of the last run.
func (a *App) Deltas() []model.Delta {
	return append([]model.Delta(nil), a.result.Deltas...)
}

// Exceptions returns the Exception records of the last run, warnings
// included.
func (a *App) Exceptions() []model.Exception {
	var out []model.Exception
	for _, d := range a.result.Deltas {
		if d.Element != nil && d.Element.Exception != nil {
			out = append(out, *d.Element.Exception)
		}
	}
	return out
}

// TimeInputs returns the time inputs of the last run in declaration order.
func (a *App) TimeInputs() []*TimeInput {
	var out []*TimeInput
	for _, d := range a.result.Deltas {
		if d.Element == nil || d.Element.TimeInput == nil {
			continue
		}
		proto := *d.Element.TimeInput
		out = append(out, &TimeInput{
			app:   a,
			proto: proto,
			path:  append([]int(nil), d.Path...),
			value: a.values[identity.ID(proto.ID)],
		})
	}
	return out
}

// TimeInput returns the i-th time input. It panics when out of range, like
// slice indexing.
func (a *App) TimeInput(i int) *TimeInput {
	inputs := a.TimeInputs()
	if i < 0 || i >= len(inputs) {
		panic(fmt.Sprintf("apptest: time input %d out of range (have %d)", i, len(inputs)))
	}
	return inputs[i]
}

// TimeInputByKey returns the time input declared with key, if any.
func (a *App) TimeInputByKey(key string) (*TimeInput, bool) {
	for _, ti := range a.TimeInputs() {
		if ti.Key() == key {
			return ti, true
		}
	}
	return nil, false
}

// TimeInput is a handle on one declared time input.
type TimeInput struct {
	app   *App
	proto model.TimeInput
	path  []int
	value model.Optional[model.TimeOfDay]
}

// ID returns the widget identity.
func (t *TimeInput) ID() identity.ID {
	return identity.ID(t.proto.ID)
}

// Key returns the explicit key encoded in the identity, or "".
func (t *TimeInput) Key() string {
	return identity.KeyOf(t.ID())
}

// Label returns the declared label.
func (t *TimeInput) Label() string {
	return t.proto.Label
}

// Path returns the delta path of the widget record.
func (t *TimeInput) Path() []int {
	return append([]int(nil), t.path...)
}

// Proto returns the emitted record.
func (t *TimeInput) Proto() model.TimeInput {
	return t.proto
}

// Value returns the reconciled value captured when the run that produced this
// handle finished. Interactions queued since then show after the next Run.
func (t *TimeInput) Value() model.Optional[model.TimeOfDay] {
	return t.value
}

// SetValue queues an interaction for the next run. model.None clears the
// widget.
func (t *TimeInput) SetValue(value model.Optional[model.TimeOfDay]) *App {
	t.app.runner.Reconciler().ApplyInteraction(t.ID(), codec.Encode(value))
	return t.app
}
