package parser

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func intPtr(n int) *int { return &n }

func loadFixture(t *testing.T) pkgopenapi.Document {
	t.Helper()
	return testsupport.LoadDocument(t, filepath.Join("testdata", "alarms.yaml"))
}

func TestParser_ExtractsTimeFields(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())
	ops, err := parser.Operations(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}

	create, err := pkgopenapi.Lookup(ops, "createAlarm")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if create.Method != "POST" || create.Path != "/alarms" || create.Summary != "Create an alarm" {
		t.Fatalf("unexpected operation metadata %+v", create)
	}

	want := []pkgopenapi.TimeField{
		{Name: "quiet_from", Order: intPtr(0)},
		{
			Name:        "wake",
			Title:       "Wake up",
			Description: "Weekdays only",
			Default:     model.Some("07:30"),
			Required:    true,
			Step:        int64(300),
			Order:       intPtr(1),
		},
		{Name: "snooze", Nullable: true, Step: 5 * time.Minute},
	}
	if diff := cmp.Diff(want, create.Fields, testsupport.DeltaOptions()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	list, err := pkgopenapi.Lookup(ops, "get:/alarms")
	if err != nil {
		t.Fatalf("lookup fallback id: %v", err)
	}
	if len(list.Fields) != 0 {
		t.Fatalf("GET has no body, got %d fields", len(list.Fields))
	}
}

func TestParser_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{name: "garbage", doc: "{", want: "load document"},
		{
			name: "no paths",
			doc:  "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n",
			want: "does not contain any paths",
		},
		{
			name: "bad default",
			doc: strings.Join([]string{
				"openapi: 3.0.3",
				"info: {title: x, version: '1'}",
				"paths:",
				"  /x:",
				"    post:",
				"      operationId: x",
				"      requestBody:",
				"        content:",
				"          application/json:",
				"            schema:",
				"              type: object",
				"              properties:",
				"                at: {type: string, format: time, default: noon}",
				"      responses:",
				"        '200': {description: ok}",
			}, "\n"),
			want: `property "at"`,
		},
	}

	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithValidation(false)))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("inline.yaml"), []byte(tc.doc))
			_, err := parser.Operations(context.Background(), doc)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestStepExtension(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{in: nil, want: nil},
		{in: float64(900), want: int64(900)},
		{in: 1.5, want: 1.5},
		{in: "15m", want: 15 * time.Minute},
		{in: "soon", want: "soon"},
		{in: true, want: true},
	}
	for _, tc := range cases {
		if got := stepExtension(tc.in); got != tc.want {
			t.Errorf("stepExtension(%v) = %v (%T), want %v (%T)", tc.in, got, got, tc.want, tc.want)
		}
	}
}
