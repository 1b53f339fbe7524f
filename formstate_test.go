package formstate_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/apptest"
	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/runner"
	"github.com/goliatone/go-formstate/pkg/script"
)

const alarmsDocument = `
openapi: 3.0.3
info: {title: Alarms, version: "1"}
paths:
  /alarms:
    post:
      operationId: createAlarm
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                wake: {type: string, format: time, title: Wake up, default: "06:15"}
                snooze: {type: string, format: time, nullable: true}
                note: {type: string}
      responses:
        "201": {description: created}
  /ping:
    get:
      operationId: ping
      responses:
        "200": {description: ok}
`

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
}

func TestScriptFromOperation(t *testing.T) {
	ctx := context.Background()
	fn, err := formstate.ScriptFromOperation(ctx, []byte(alarmsDocument), "createAlarm")
	if err != nil {
		t.Fatalf("script: %v", err)
	}

	at, err := apptest.FromFunc(fn, apptest.WithClock(fixedClock)).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	inputs := at.TimeInputs()
	if len(inputs) != 2 {
		t.Fatalf("expected 2 time inputs, got %d", len(inputs))
	}

	snooze, ok := at.TimeInputByKey("snooze")
	if !ok || snooze.Value().Has() {
		t.Fatalf("nullable field without default should start empty")
	}
	wake, ok := at.TimeInputByKey("wake")
	if !ok {
		t.Fatalf("wake input missing")
	}
	if wake.Label() != "Wake up" || wake.Value().Value() != model.Clock(6, 15) {
		t.Fatalf("unexpected wake input %q %v", wake.Label(), wake.Value())
	}
}

func TestScriptFromOperation_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := formstate.ScriptFromOperation(ctx, []byte(alarmsDocument), "missing"); !errors.Is(err, pkgopenapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := formstate.ScriptFromOperation(ctx, []byte(alarmsDocument), "ping"); err == nil {
		t.Fatalf("operation without time fields should fail")
	}
	if _, err := formstate.ScriptFromOperation(ctx, nil, "createAlarm"); err == nil {
		t.Fatalf("empty document should fail")
	}
}

func TestScriptFromSource_FS(t *testing.T) {
	files := fstest.MapFS{"api/alarms.yaml": &fstest.MapFile{Data: []byte(alarmsDocument)}}
	fn, err := formstate.ScriptFromSource(context.Background(),
		pkgopenapi.SourceFromFS("api/alarms.yaml"), "createAlarm",
		[]pkgopenapi.LoaderOption{pkgopenapi.WithFileSystem(files)},
	)
	if err != nil || fn == nil {
		t.Fatalf("script from fs: %v", err)
	}
}

func TestRunOnce(t *testing.T) {
	fn := func(ctx context.Context, main *script.Container) error {
		_, err := main.TimeInput(ctx, "Alarm", script.WithValue(model.Clock(8, 45)), script.WithKey("alarm"))
		return err
	}

	out, err := formstate.RunOnce(context.Background(), fn, "", runner.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "0.0 time_input ") || !strings.Contains(text, "value=08:45") {
		t.Fatalf("unexpected text output %q", text)
	}

	out, err = formstate.RunOnce(context.Background(), fn, "json", runner.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("run once json: %v", err)
	}
	if !strings.Contains(string(out), `"value": "08:45"`) {
		t.Fatalf("unexpected json output %s", out)
	}

	if _, err := formstate.RunOnce(context.Background(), fn, "html"); err == nil {
		t.Fatalf("unknown renderer should fail")
	}
}

func TestRunOnce_ReturnsScriptError(t *testing.T) {
	boom := errors.New("boom")
	out, err := formstate.RunOnce(context.Background(), func(context.Context, *script.Container) error {
		return boom
	}, "text")
	if !errors.Is(err, boom) {
		t.Fatalf("expected script error, got %v", err)
	}
	if !strings.Contains(string(out), "exception") {
		t.Fatalf("exception record missing from %q", out)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := formstate.EmbeddedTemplates().Open("templates/deltas.tmpl"); err != nil {
		t.Fatalf("embedded template missing: %v", err)
	}
}
