package scriptfile

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/apierror"
	"github.com/goliatone/go-formstate/pkg/apptest"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
}

func TestLoad_RunsDocument(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "alarms.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "Alarms" || doc.Inputs() != 3 {
		t.Fatalf("unexpected document %q with %d inputs", doc.Title, doc.Inputs())
	}

	at, err := apptest.FromFunc(doc.Script(), apptest.WithClock(fixedClock)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if at.Err() != nil {
		t.Fatalf("script error: %v", at.Err())
	}

	type row struct {
		Label      string
		Value      string
		Step       int64
		Visibility model.LabelVisibilityOption
		Help       string
	}
	var got []row
	for _, ti := range at.TimeInputs() {
		proto := ti.Proto()
		got = append(got, row{
			Label:      proto.Label,
			Value:      proto.Value.OrElse("-"),
			Step:       proto.Step,
			Visibility: proto.LabelVisibility.Value,
			Help:       proto.Help,
		})
	}
	want := []row{
		{Label: "Wake up", Value: "07:30", Step: 300, Help: "Weekdays only"},
		{Label: "Start", Value: "-", Step: 900},
		{Label: "End", Value: "09:30", Step: 900, Visibility: model.LabelVisibilityHidden},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}

	if _, ok := at.TimeInputByKey("wake"); !ok {
		t.Fatalf("keyed input not found")
	}
	// horizontal block, two columns and three inputs
	if n := len(at.Deltas()); n != 6 {
		t.Fatalf("expected 6 records, got %d", n)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "title: nothing\n", want: "no nodes"},
		{name: "missing type", doc: "nodes:\n  - label: x\n", want: "node type is required"},
		{name: "unknown type", doc: "nodes:\n  - type: slider\n", want: `unknown node type "slider"`},
		{name: "bad value", doc: "nodes:\n  - type: time_input\n    value: \"25:00\"\n", want: "invalid time"},
		{name: "list value", doc: "nodes:\n  - type: time_input\n    value: [1, 2]\n", want: "HH:MM"},
		{name: "no columns", doc: "nodes:\n  - type: columns\n", want: "at least one column"},
		{
			name: "weights mismatch",
			doc:  "nodes:\n  - type: columns\n    weights: [1]\n    columns:\n      - []\n      - []\n",
			want: "1 weights for 2 columns",
		},
		{name: "memo without key", doc: "nodes:\n  - type: memo\n", want: "memo node needs a key"},
		{name: "nested", doc: "nodes:\n  - type: container\n    nodes:\n      - type: nope\n", want: "nodes[0].nodes[0]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not contain %q", err, tc.want)
			}
		})
	}
	if _, err := Parse([]byte("title: nothing\n")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestScript_InvalidStepSurfacesAtRun(t *testing.T) {
	doc, err := Parse([]byte("nodes:\n  - type: time_input\n    label: x\n    step: true\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	at, err := apptest.FromFunc(doc.Script(), apptest.WithClock(fixedClock)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !errors.Is(at.Err(), apierror.ErrInvalidStepType) {
		t.Fatalf("expected invalid step type, got %v", at.Err())
	}
	if len(at.TimeInputs()) != 0 || len(at.Exceptions()) != 1 {
		t.Fatalf("expected only the exception record, got %d records", len(at.Deltas()))
	}
}

func TestScript_MemoReplaysOnHit(t *testing.T) {
	doc, err := Parse([]byte(strings.Join([]string{
		"nodes:",
		"  - type: memo",
		"    key: cached",
		"    nodes:",
		"      - type: time_input",
		"        label: inside",
		"        value: \"06:00\"",
		"  - type: time_input",
		"    label: outside",
		"    value: \"07:00\"",
	}, "\n")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	app := apptest.FromFunc(doc.Script(), apptest.WithClock(fixedClock))
	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	first := app.Deltas()
	if len(app.TimeInputs()) != 2 || len(app.Exceptions()) != 1 || !app.Exceptions()[0].IsWarning {
		t.Fatalf("first run: want 2 inputs and one warning, got %d records", len(first))
	}

	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if diff := testsupport.DiffDeltas(first, app.Deltas()); diff != "" {
		t.Fatalf("cache hit must replay the same records (-first +rerun):\n%s", diff)
	}
}

func TestScript_MemoWidgetKeepsStateAcrossHits(t *testing.T) {
	doc, err := Parse([]byte(strings.Join([]string{
		"nodes:",
		"  - type: memo",
		"    key: m",
		"    nodes:",
		"      - type: columns",
		"        weights: [3, 2]",
		"        columns:",
		"          - - type: time_input",
		"              label: Alarm",
		"              value: null",
		"          - []",
	}, "\n")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ctx := context.Background()

	at, err := apptest.FromFunc(doc.Script(), apptest.WithClock(fixedClock)).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(at.TimeInputs()) != 1 {
		t.Fatalf("want 1 input, got %d", len(at.TimeInputs()))
	}
	id := at.TimeInput(0).ID()
	if at.TimeInput(0).Value().Has() {
		t.Fatalf("null value must declare an empty input")
	}

	steps := []struct {
		name string
		set  model.Optional[model.TimeOfDay]
	}{
		{name: "set", set: model.Some(model.Clock(8, 45))},
		{name: "clear", set: model.None[model.TimeOfDay]()},
		{name: "set again", set: model.Some(model.Clock(21, 15))},
	}
	for _, step := range steps {
		at, err = at.TimeInput(0).SetValue(step.set).Run(ctx)
		if err != nil {
			t.Fatalf("%s: run: %v", step.name, err)
		}
		if at.Err() != nil {
			t.Fatalf("%s: script error: %v", step.name, at.Err())
		}
		inputs := at.TimeInputs()
		if len(inputs) != 1 {
			t.Fatalf("%s: memoized input must still be declared, got %d inputs", step.name, len(inputs))
		}
		if inputs[0].ID() != id {
			t.Fatalf("%s: identity changed: %s vs %s", step.name, inputs[0].ID(), id)
		}
		if got := inputs[0].Value(); got != step.set {
			t.Fatalf("%s: want %v, got %v", step.name, step.set, got)
		}
		if got := len(at.Deltas()); got != 5 {
			t.Fatalf("%s: want horizontal, 2 columns, warning and widget, got %d records", step.name, got)
		}
	}
}
