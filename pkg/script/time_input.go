package script

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/codec"
	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/memo"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// TypeTimeInput is the widget type tag of time inputs.
const TypeTimeInput = "time_input"

// CachedWidgetWarningType is the Exception type emitted for widgets declared
// inside memoized evaluation.
const CachedWidgetWarningType = "CachedWidgetWarning"

// TimeInputOption configures a single TimeInput call.
type TimeInputOption func(*timeInputConfig)

type timeInputConfig struct {
	value      model.Optional[model.TimeOfDay]
	valueSet   bool
	step       any
	disabled   bool
	visibility string
	key        string
	help       string
	onChange   func()
}

// WithValue sets the initial value.
func WithValue(value model.TimeOfDay) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.value = model.Some(value)
		cfg.valueSet = true
	}
}

// WithTime sets the initial value from t, keeping only hour and minute.
func WithTime(t time.Time) TimeInputOption {
	return WithValue(codec.FromTime(t))
}

// WithNoValue declares the widget empty until the user picks a time.
func WithNoValue() TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.value = model.None[model.TimeOfDay]()
		cfg.valueSet = true
	}
}

// WithStep sets the picker interval. Accepts an int number of seconds, a
// time.Duration or a validation.Step.
func WithStep(step any) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.step = step
	}
}

// WithDisabled disables the widget.
func WithDisabled(disabled bool) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.disabled = disabled
	}
}

// WithLabelVisibility selects "visible", "hidden" or "collapsed".
func WithLabelVisibility(token string) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.visibility = token
	}
}

// WithKey gives the widget an explicit identity.
func WithKey(key string) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.key = key
	}
}

// WithHelp sets the tooltip text.
func WithHelp(help string) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.help = help
	}
}

// WithOnChange registers fn to run before the next run when the user changes
// the value.
func WithOnChange(fn func()) TimeInputOption {
	return func(cfg *timeInputConfig) {
		cfg.onChange = fn
	}
}

// TimeInput declares a time input and returns its current value. Invalid
// options abort the call before any state is touched or record emitted.
func (c *Container) TimeInput(ctx context.Context, label string, options ...TimeInputOption) (model.Optional[model.TimeOfDay], error) {
	none := model.None[model.TimeOfDay]()

	cfg := timeInputConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	step, err := validation.ResolveStep(cfg.step)
	if err != nil {
		return none, err
	}
	visibility, err := validation.ParseLabelVisibility(cfg.visibility)
	if err != nil {
		return none, err
	}

	run := c.run
	declared := cfg.value
	if !cfg.valueSet {
		declared = model.Some(codec.Now(run.clock))
	}
	encodedDefault := codec.Encode(declared)

	id, err := run.table.Derive(identity.Declaration{
		Path:  c.path,
		Type:  TypeTimeInput,
		Label: label,
		Key:   cfg.key,
	})
	if err != nil {
		return none, err
	}

	state, err := run.reconciler.GetOrInit(ctx, id, encodedDefault)
	if err != nil {
		return none, fmt.Errorf("script: reconcile %s: %w", TypeTimeInput, err)
	}
	current, err := codec.DecodeOptional(state.Value)
	if err != nil {
		return none, fmt.Errorf("script: stored %s value: %w", TypeTimeInput, err)
	}
	if cfg.onChange != nil {
		run.reconciler.RegisterCallback(id, cfg.onChange)
	}

	if label == "" && visibility == model.LabelVisibilityVisible {
		run.logger.Warn("time input declared with an empty visible label", zap.String("widget_id", string(id)))
	}

	if memo.Active(ctx) {
		run.logger.Warn("widget declared inside memoized evaluation", zap.String("widget_id", string(id)))
		c.enqueueElement(model.Element{Exception: cachedWidgetWarning(TypeTimeInput)})
	}

	c.enqueueElement(model.Element{TimeInput: &model.TimeInput{
		ID:              string(id),
		Label:           sanitizeLabel(label),
		Default:         encodedDefault,
		Value:           state.Value,
		Step:            step,
		Disabled:        cfg.disabled,
		Help:            sanitizeHelp(cfg.help),
		LabelVisibility: model.LabelVisibilityMessage{Value: visibility},
	}})
	run.recordTimeInput(c, label, options)
	return current, nil
}

func cachedWidgetWarning(widgetType string) *model.Exception {
	return &model.Exception{
		Type: CachedWidgetWarningType,
		Message: fmt.Sprintf(
			"Your script declares a `%s` widget inside a memoized function. The function body only runs on a cache miss and the widget is replayed from the cache otherwise, which can lead to unexpected results. Move the widget outside the memoized function.",
			widgetType),
		IsWarning: true,
	}
}
