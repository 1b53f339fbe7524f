package apierror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs_MatchesByKind(t *testing.T) {
	err := New(KindStepOutOfRange, "step %d is too small", 59)
	wrapped := fmt.Errorf("declare: %w", err)

	if !errors.Is(wrapped, ErrStepOutOfRange) {
		t.Fatalf("expected wrapped error to match ErrStepOutOfRange")
	}
	if errors.Is(wrapped, ErrInvalidStepType) {
		t.Fatalf("kinds must not cross-match")
	}
	if got := err.Error(); got != "step 59 is too small" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("outer: %w", New(KindIdentityCollision, "dup")))
	if !ok || kind != KindIdentityCollision {
		t.Fatalf("want IdentityCollision, got %q (ok=%v)", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("plain errors have no kind")
	}
}
