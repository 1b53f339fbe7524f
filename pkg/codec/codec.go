// Package codec converts time input values to and from their wire form, the
// zero-padded 24-hour "HH:MM" string.
package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrInvalidTime is returned when text is not a valid "HH:MM" value.
var ErrInvalidTime = errors.New("codec: invalid time")

// Layout is the wire layout understood by Encode and Decode.
const Layout = "15:04"

// Encode converts an optional value into its wire field. Absent values encode
// as an absent string; present values always carry present=true, even if a
// caller later compares the text against "".
func Encode(value model.Optional[model.TimeOfDay]) model.Optional[string] {
	t, ok := value.Get()
	if !ok {
		return model.None[string]()
	}
	return model.Some(t.String())
}

// Decode parses wire text back into a TimeOfDay.
func Decode(text string) (model.TimeOfDay, error) {
	if len(text) != len(Layout) {
		return model.TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	parsed, err := time.Parse(Layout, text)
	if err != nil {
		return model.TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	return FromTime(parsed), nil
}

// DecodeOptional is the inverse of Encode.
func DecodeOptional(field model.Optional[string]) (model.Optional[model.TimeOfDay], error) {
	text, ok := field.Get()
	if !ok {
		return model.None[model.TimeOfDay](), nil
	}
	t, err := Decode(text)
	if err != nil {
		return model.None[model.TimeOfDay](), err
	}
	return model.Some(t), nil
}

// FromTime keeps the hour and minute of t. Date, seconds and location are
// dropped; t is read in its own location.
func FromTime(t time.Time) model.TimeOfDay {
	return model.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Now returns the current wall-clock time truncated to the minute. A nil
// clock falls back to time.Now.
func Now(clock func() time.Time) model.TimeOfDay {
	if clock == nil {
		clock = time.Now
	}
	return FromTime(clock())
}
