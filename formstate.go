// Package formstate is the entry point for declaring time input widgets from
// Go scripts, YAML documents or OpenAPI operations, running them against a
// session and rendering the resulting records.
package formstate

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/jsonout"
	"github.com/goliatone/go-formstate/pkg/renderers/text"
	"github.com/goliatone/go-formstate/pkg/runner"
	"github.com/goliatone/go-formstate/pkg/script"
)

// Result aliases runner.Result for callers of the root package.
type Result = runner.Result

// NewRunner exposes the runner constructor from the top-level module.
func NewRunner(fn script.Func, options ...runner.Option) (*runner.Runner, error) {
	return runner.New(fn, options...)
}

// NewRenderers returns a registry holding the text (default) and json
// renderers.
func NewRenderers(options ...text.Option) (*render.Registry, error) {
	textRenderer, err := text.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(textRenderer)
	registry.MustRegister(jsonout.New())
	return registry, nil
}

// RunOnce runs fn against a fresh session and renders the records with the
// named renderer. The script error, if any, is returned alongside the
// rendered output, which then ends with its Exception record.
func RunOnce(ctx context.Context, fn script.Func, rendererName string, options ...runner.Option) ([]byte, error) {
	r, err := runner.New(fn, options...)
	if err != nil {
		return nil, err
	}
	result, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := NewRenderers()
	if err != nil {
		return nil, err
	}
	out, _, err := registry.Render(ctx, rendererName, result.Deltas)
	if err != nil {
		return nil, fmt.Errorf("formstate: %w", err)
	}
	return out, result.Err
}
