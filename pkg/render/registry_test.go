package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, []model.Delta) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubRenderer{name: "text"})
	reg.MustRegister(stubRenderer{name: "json"})

	if err := reg.Register(stubRenderer{name: "text"}); err == nil {
		t.Fatalf("duplicate registration should fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("nil renderer should fail")
	}
	if err := reg.Register(stubRenderer{}); err == nil {
		t.Fatalf("unnamed renderer should fail")
	}

	got, err := reg.Get("json")
	if err != nil || got.Name() != "json" {
		t.Fatalf("get json: %v (%v)", got, err)
	}
	if _, err := reg.Get("html"); err == nil {
		t.Fatalf("missing renderer should fail")
	}
	if !reg.Has("text") || reg.Has("html") {
		t.Fatalf("Has mismatch")
	}
	if diff := cmp.Diff([]string{"json", "text"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_DefaultAndRender(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubRenderer{name: "text"})
	reg.MustRegister(stubRenderer{name: "json"})

	out, contentType, err := reg.Render(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("render default: %v", err)
	}
	if string(out) != "text" || contentType != "text/plain" {
		t.Fatalf("first registration should be the default, got %q", out)
	}

	if err := reg.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if out, _, _ := reg.Render(context.Background(), "", nil); string(out) != "json" {
		t.Fatalf("default not switched, got %q", out)
	}
	if err := reg.SetDefault("html"); err == nil {
		t.Fatalf("unknown default should fail")
	}
}
