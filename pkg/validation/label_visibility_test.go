package validation

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formstate/pkg/apierror"
	"github.com/goliatone/go-formstate/pkg/model"
)

func TestParseLabelVisibility(t *testing.T) {
	cases := []struct {
		token string
		want  model.LabelVisibilityOption
	}{
		{token: "", want: model.LabelVisibilityVisible},
		{token: "visible", want: model.LabelVisibilityVisible},
		{token: "hidden", want: model.LabelVisibilityHidden},
		{token: "collapsed", want: model.LabelVisibilityCollapsed},
	}
	for _, tc := range cases {
		got, err := ParseLabelVisibility(tc.token)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.token, err)
		}
		if got != tc.want {
			t.Fatalf("%q: want %v, got %v", tc.token, tc.want, got)
		}
		if tc.token != "" && LabelVisibilityToken(got) != tc.token {
			t.Fatalf("token round trip: want %q, got %q", tc.token, LabelVisibilityToken(got))
		}
	}
}

func TestParseLabelVisibility_WrongValue(t *testing.T) {
	_, err := ParseLabelVisibility("wrong_value")
	if !errors.Is(err, apierror.ErrUnsupportedLabelVisibility) {
		t.Fatalf("expected UnsupportedLabelVisibility, got %v", err)
	}
	want := "Unsupported label_visibility option 'wrong_value'. Valid values are 'visible', 'hidden' or 'collapsed'."
	if err.Error() != want {
		t.Fatalf("message mismatch:\nwant %q\ngot  %q", want, err.Error())
	}
}
