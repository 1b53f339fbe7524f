// Package tui drives a script interactively from a terminal: every pass runs
// the script, lists the declared time inputs and lets the user set or clear
// one of them, which takes effect on the next run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/codec"
	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/runner"
)

// DoneOption is the menu entry that ends the loop.
const DoneOption = "Done"

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Loop.
type Option func(*Loop)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(l *Loop) {
		if driver != nil {
			l.driver = driver
		}
	}
}

// WithRecordRenderer prints every run's records through renderer before the
// menu is shown.
func WithRecordRenderer(renderer render.Renderer) Option {
	return func(l *Loop) {
		l.records = renderer
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(l *Loop) {
		l.theme = theme
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loop is the interactive rerun loop.
type Loop struct {
	runner  *runner.Runner
	driver  PromptDriver
	records render.Renderer
	theme   Theme
	logger  *zap.Logger
}

// New builds a loop over r. The survey driver is used unless overridden.
func New(r *runner.Runner, options ...Option) (*Loop, error) {
	if r == nil {
		return nil, ErrNoRunner
	}
	l := &Loop{
		runner: r,
		logger: zap.NewNop(),
		theme:  Theme{ErrorPrefix: "error: "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.driver == nil {
		l.driver = NewSurveyDriver(nil)
	}
	return l, nil
}

// Run loops until the user picks Done or aborts. An abort is not an error.
func (l *Loop) Run(ctx context.Context) error {
	for {
		result, err := l.runner.Run(ctx)
		if err != nil {
			return err
		}
		if err := l.report(ctx, result); err != nil {
			return l.finish(err)
		}

		inputs := editable(result.Deltas)
		if len(inputs) == 0 {
			return l.finish(l.info(ctx, "no editable time inputs declared"))
		}

		options := make([]string, 0, len(inputs)+1)
		for i, in := range inputs {
			options = append(options, describe(i, in))
		}
		options = append(options, DoneOption)

		idx, err := l.driver.Select(ctx, SelectConfig{
			Message:      "Pick a time input",
			Options:      options,
			DefaultIndex: len(options) - 1,
		})
		if err != nil {
			return l.finish(err)
		}
		if idx < 0 || idx >= len(inputs) {
			return nil
		}

		chosen := inputs[idx]
		value, err := l.ask(ctx, chosen)
		if err != nil {
			return l.finish(err)
		}
		l.runner.Reconciler().ApplyInteraction(identity.ID(chosen.ID), value)
		l.logger.Debug("interaction queued",
			zap.String("widget_id", chosen.ID),
			zap.Bool("has_value", value.Has()),
		)
	}
}

func (l *Loop) ask(ctx context.Context, in *model.TimeInput) (model.Optional[string], error) {
	raw, err := l.driver.Input(ctx, InputConfig{
		Message:   fmt.Sprintf("%s (HH:MM, blank clears)", in.Label),
		Default:   in.Value.OrElse(""),
		Help:      in.Help,
		Validator: validateInput,
	})
	if err != nil {
		return model.Optional[string]{}, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.None[string](), nil
	}
	if err := validateInput(raw); err != nil {
		return model.Optional[string]{}, err
	}
	return model.Some(raw), nil
}

func (l *Loop) report(ctx context.Context, result runner.Result) error {
	if l.records != nil {
		out, err := l.records.Render(ctx, result.Deltas)
		if err != nil {
			return fmt.Errorf("tui: render records: %w", err)
		}
		if err := l.info(ctx, strings.TrimRight(string(out), "\n")); err != nil {
			return err
		}
	}
	for _, delta := range result.Deltas {
		if delta.Element == nil || delta.Element.Exception == nil {
			continue
		}
		exc := delta.Element.Exception
		prefix := l.theme.ErrorPrefix
		if exc.IsWarning {
			prefix = l.theme.InfoPrefix
		}
		if err := l.driver.Info(ctx, prefix+exc.Message); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) info(ctx context.Context, msg string) error {
	return l.driver.Info(ctx, l.theme.InfoPrefix+msg)
}

func (l *Loop) finish(err error) error {
	if errors.Is(err, ErrAborted) {
		l.logger.Debug("interaction loop aborted")
		return nil
	}
	return err
}

func validateInput(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := codec.Decode(raw); err != nil {
		return fmt.Errorf("enter a time as HH:MM: %w", err)
	}
	return nil
}

func editable(deltas []model.Delta) []*model.TimeInput {
	var out []*model.TimeInput
	for _, delta := range deltas {
		if delta.Element == nil || delta.Element.TimeInput == nil {
			continue
		}
		if delta.Element.TimeInput.Disabled {
			continue
		}
		out = append(out, delta.Element.TimeInput)
	}
	return out
}

func describe(i int, in *model.TimeInput) string {
	label := in.Label
	if label == "" {
		label = in.ID
	}
	return fmt.Sprintf("%d. %s [%s]", i+1, label, in.Value.OrElse("no value"))
}
