package openapi

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/codec"
	"github.com/goliatone/go-formstate/pkg/script"
)

// Script declares one time input per field in field order. A field with a
// default starts at it, a nullable field without one starts empty and any
// other field starts at the current time.
func (op Operation) Script() script.Func {
	fields := append([]TimeField(nil), op.Fields...)
	return func(ctx context.Context, main *script.Container) error {
		for _, field := range fields {
			if _, err := main.TimeInput(ctx, field.Label(), field.options()...); err != nil {
				return err
			}
		}
		return nil
	}
}

func (f TimeField) options() []script.TimeInputOption {
	opts := []script.TimeInputOption{script.WithKey(f.Name)}
	if text, ok := f.Default.Get(); ok {
		if tod, err := codec.Decode(text); err == nil {
			opts = append(opts, script.WithValue(tod))
		}
	} else if f.Nullable {
		opts = append(opts, script.WithNoValue())
	}
	if f.Step != nil {
		opts = append(opts, script.WithStep(f.Step))
	}
	if f.Description != "" {
		opts = append(opts, script.WithHelp(f.Description))
	}
	return opts
}
