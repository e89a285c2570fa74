package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_ListsEveryField(t *testing.T) {
	var v ValidationError
	v.Add("name", "is too short (minimum is 2 characters)")
	v.Add("expiry_date", "must be after vaccination date")

	err := v.OrNil()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(ErrValidation)")
	}

	msgs := v.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1] != "Expiry date must be after vaccination date" {
		t.Fatalf("unexpected message %q", msgs[1])
	}
}

func TestValidationError_OrNil_Empty(t *testing.T) {
	var v ValidationError
	if err := v.OrNil(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWrapped_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("mark: %w", Conflict("already expired"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound")
	}
}
