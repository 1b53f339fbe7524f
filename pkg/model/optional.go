package model

import (
	"bytes"
	"encoding/json"
)

// Optional wraps a value with a presence flag. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Has reports whether a value is present.
func (o Optional[T]) Has() bool {
	return o.present
}

// Get returns the value and its presence.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// Value returns the wrapped value, or the zero value of T when absent.
func (o Optional[T]) Value() T {
	return o.value
}

// OrElse returns the wrapped value or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}

// MarshalJSON encodes absent values as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON treats null as absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
