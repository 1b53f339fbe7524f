package validation

import (
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-formstate/pkg/apierror"
)

const (
	// MinStepSeconds is the smallest accepted step (one minute).
	MinStepSeconds = 60
	// MaxStepSeconds is the largest accepted step (23 hours 59 minutes).
	MaxStepSeconds = 86340
	// DefaultStepSeconds applies when the caller does not pass a step.
	DefaultStepSeconds = 900
)

type stepKind int

const (
	stepUnset stepKind = iota
	stepSeconds
	stepDuration
	stepRaw
)

// Step is the accepted shape of a step interval: a count of seconds or a
// duration. Arbitrary caller input is captured with StepOf and rejected by
// Resolve unless it reduces to one of the two.
type Step struct {
	kind     stepKind
	seconds  int64
	duration time.Duration
	raw      any
}

// Seconds returns a step of n seconds.
func Seconds(n int) Step {
	return Step{kind: stepSeconds, seconds: int64(n)}
}

// Duration returns a step expressed as a duration.
func Duration(d time.Duration) Step {
	return Step{kind: stepDuration, duration: d}
}

// StepOf captures an arbitrary value. Integers and durations are accepted;
// booleans, composites and everything else fail validation.
func StepOf(v any) Step {
	switch typed := v.(type) {
	case Step:
		return typed
	case time.Duration:
		return Duration(typed)
	}
	return Step{kind: stepRaw, raw: v}
}

// IsZero reports whether the step was never set.
func (s Step) IsZero() bool {
	return s.kind == stepUnset
}

// Resolve validates the step and returns it in whole seconds. An unset step
// resolves to DefaultStepSeconds.
func (s Step) Resolve() (int64, error) {
	var seconds int64
	switch s.kind {
	case stepUnset:
		return DefaultStepSeconds, nil
	case stepSeconds:
		seconds = s.seconds
	case stepDuration:
		seconds = int64(s.duration / time.Second)
	default:
		n, err := rawSeconds(s.raw)
		if err != nil {
			return 0, err
		}
		seconds = n
	}
	if seconds < MinStepSeconds || seconds > MaxStepSeconds {
		return 0, apierror.New(apierror.KindStepOutOfRange,
			"`step` must be between 60 seconds and 23 hours 59 minutes but is currently set to %d seconds.", seconds)
	}
	return seconds, nil
}

// ResolveStep is shorthand for StepOf(v).Resolve(). A nil v means unset.
func ResolveStep(v any) (int64, error) {
	if v == nil {
		return Step{}.Resolve()
	}
	return StepOf(v).Resolve()
}

func rawSeconds(v any) (int64, error) {
	if _, ok := v.(bool); ok {
		return 0, invalidStepType(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(MaxStepSeconds) {
			return MaxStepSeconds + 1, nil
		}
		return int64(u), nil
	default:
		return 0, invalidStepType(v)
	}
}

func invalidStepType(v any) error {
	return apierror.New(apierror.KindInvalidStepType,
		"`step` can only be an integer number of seconds or a time.Duration but %s is provided.", describe(v))
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
