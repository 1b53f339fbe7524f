package model

import "fmt"

// TimeOfDay is a wall-clock time with minute resolution. The calendar date is
// never part of a time input value.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Clock returns a TimeOfDay for hour and minute. Callers are expected to pass
// in-range values; codec.Decode performs the checked conversion from text.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// Valid reports whether the time lies within 00:00 and 23:59.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Compare returns -1, 0 or 1 depending on whether t is before, equal to or
// after other.
func (t TimeOfDay) Compare(other TimeOfDay) int {
	switch a, b := t.Minutes(), other.Minutes(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the zero-padded 24-hour form, e.g. "08:45".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
