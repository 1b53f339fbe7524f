package jsonout

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
)

func TestRenderer_EncodesPresenceAsNull(t *testing.T) {
	deltas := []model.Delta{
		{Path: []int{0, 0}, Element: &model.Element{TimeInput: &model.TimeInput{
			ID:      "$$WID-x",
			Label:   "Alarm",
			Default: model.Some("08:45"),
			Value:   model.None[string](),
			Step:    60,
		}}},
		{Path: []int{0, 1}, Block: &model.Block{Vertical: &model.VerticalBlock{}}},
	}

	out, err := New(WithIndent("")).Render(context.Background(), deltas)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}

	input := decoded[0]["new_element"].(map[string]any)["time_input"].(map[string]any)
	want := map[string]any{
		"id":               "$$WID-x",
		"label":            "Alarm",
		"default":          "08:45",
		"value":            nil,
		"step":             float64(60),
		"disabled":         false,
		"label_visibility": map[string]any{"value": float64(0)},
	}
	if diff := cmp.Diff(want, input); diff != "" {
		t.Fatalf("time input mismatch (-want +got):\n%s", diff)
	}
	if _, ok := decoded[1]["add_block"].(map[string]any)["vertical"]; !ok {
		t.Fatalf("vertical block missing: %s", out)
	}
}

func TestRenderer_EmptyRunIsEmptyArray(t *testing.T) {
	out, err := New().Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(string(out)) != "[]" {
		t.Fatalf("unexpected output %q", out)
	}
	if r := New(); r.Name() != "json" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected identity %s %s", r.Name(), r.ContentType())
	}
}
