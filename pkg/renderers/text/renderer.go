// Package text renders run records as one line per record. It is meant for
// debugging scripts from a terminal or in test failure output.
package text

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formstate/pkg/model"
)

type Option func(*config)

type config struct {
	templateFS   fs.FS
	templateName string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateName selects the template executed from the bundle.
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.templateName = name
		}
	}
}

type Renderer struct {
	tmpl *pongo2.Template
}

// New parses the configured template up front so a broken override fails at
// construction rather than on the first render.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), templateName: TemplateName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	set := pongo2.NewSet("formstate-text", pongo2.NewFSLoader(cfg.templateFS))
	tmpl, err := set.FromFile(cfg.templateName)
	if err != nil {
		return nil, fmt.Errorf("text renderer: load template %q: %w", cfg.templateName, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, deltas []model.Delta) ([]byte, error) {
	if r == nil || r.tmpl == nil {
		return nil, fmt.Errorf("text renderer: template is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(deltas))
	for _, delta := range deltas {
		rows = append(rows, row(delta))
	}

	out, err := r.tmpl.ExecuteBytes(pongo2.Context{"rows": rows})
	if err != nil {
		return nil, fmt.Errorf("text renderer: execute template: %w", err)
	}
	return out, nil
}

func row(delta model.Delta) map[string]any {
	typ, fields := describe(delta)
	return map[string]any{
		"path":   FormatPath(delta.Path),
		"kind":   string(delta.Kind()),
		"type":   typ,
		"fields": fields,
	}
}

func describe(delta model.Delta) (string, []string) {
	if block := delta.Block; block != nil {
		switch {
		case block.Horizontal != nil:
			return "horizontal", withGap(nil, block.Horizontal.Gap)
		case block.Column != nil:
			fields := []string{"weight=" + strconv.FormatFloat(block.Column.Weight, 'g', 4, 64)}
			return "column", withGap(fields, block.Column.Gap)
		default:
			return "vertical", nil
		}
	}

	if delta.Element == nil {
		return "empty", nil
	}
	if in := delta.Element.TimeInput; in != nil {
		fields := []string{
			"id=" + in.ID,
			"label=" + strconv.Quote(in.Label),
			"value=" + optional(in.Value),
			"default=" + optional(in.Default),
			"step=" + strconv.FormatInt(in.Step, 10),
			"visibility=" + in.LabelVisibility.Value.String(),
		}
		if in.Disabled {
			fields = append(fields, "disabled")
		}
		if in.Help != "" {
			fields = append(fields, "help="+strconv.Quote(in.Help))
		}
		return "time_input", fields
	}
	if exc := delta.Element.Exception; exc != nil {
		typ := "exception"
		if exc.IsWarning {
			typ = "warning"
		}
		return typ, []string{"type=" + exc.Type, "message=" + strconv.Quote(exc.Message)}
	}
	return "empty", nil
}

func withGap(fields []string, gap string) []string {
	if gap == "" {
		return fields
	}
	return append(fields, "gap="+gap)
}

func optional(value model.Optional[string]) string {
	if v, ok := value.Get(); ok {
		return v
	}
	return "<none>"
}

// FormatPath renders a delta path as dotted indices, e.g. 0.1.0.
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}
