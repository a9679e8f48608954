package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{ErrUsernameTaken, ErrDuplicate},
		{ErrEmailTaken, ErrDuplicate},
		{ErrInvalidCredentials, ErrUnauthorized},
		{ErrBadCredentials, ErrUnauthorized},
		{ErrTaskNotFound, ErrNotFound},
		{ErrInvalidTitle, ErrValidation},
		{Validation("bad"), ErrValidation},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("ctx: %w", tc.err)
		if !errors.Is(wrapped, tc.kind) {
			t.Fatalf("%v: expected kind %v", tc.err, tc.kind)
		}
		var de *Error
		if !errors.As(wrapped, &de) || de.Message != tc.err.Error() {
			t.Fatalf("%v: errors.As lost the message", tc.err)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty title: got %v", err)
	}
	if err := ValidateTitle("Buy milk"); err != nil {
		t.Fatalf("valid title: got %v", err)
	}
	if err := ValidateTitle(strings.Repeat("é", TitleMaxLen)); err != nil {
		t.Fatalf("200 runes must pass: %v", err)
	}
	if err := ValidateTitle(strings.Repeat("a", TitleMaxLen+1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("201 chars: got %v", err)
	}
}
