// Package jsonout renders run records as an indented JSON array.
package jsonout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/model"
)

type Option func(*Renderer)

// WithIndent overrides the indentation string. An empty indent produces
// compact output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, deltas []model.Delta) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deltas == nil {
		deltas = []model.Delta{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(deltas); err != nil {
		return nil, fmt.Errorf("json renderer: encode records: %w", err)
	}
	return buf.Bytes(), nil
}
