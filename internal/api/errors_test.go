package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsAuthError(t *testing.T) {
	authErr := &AuthError{Message: "rejected"}

	if !IsAuthError(authErr) {
		t.Error("IsAuthError(authErr) = false, want true")
	}
	if !IsAuthError(fmt.Errorf("fetching profile: %w", authErr)) {
		t.Error("wrapped auth error not detected")
	}
	if IsAuthError(errors.New("plain error")) {
		t.Error("plain error detected as auth error")
	}
	if IsAuthError(nil) {
		t.Error("nil detected as auth error")
	}
}

func TestValidationErrorFlatten(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string][]string
		want   string
	}{
		{
			name:   "single field single message",
			fields: map[string][]string{"title": {"This field may not be blank."}},
			want:   "This field may not be blank.",
		},
		{
			name: "multiple fields joined in field order",
			fields: map[string][]string{
				"username": {"A user with that username already exists."},
				"password": {"This password is too short."},
			},
			want: "This password is too short., A user with that username already exists.",
		},
		{
			name: "multiple messages on one field",
			fields: map[string][]string{
				"due_date": {"Date has wrong format.", "Date is in the past."},
			},
			want: "Date has wrong format., Date is in the past.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ValidationError{Fields: tt.fields}
			if got := e.Flatten(); got != tt.want {
				t.Errorf("Flatten() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseValidationError(t *testing.T) {
	t.Run("field lists", func(t *testing.T) {
		e := parseValidationError([]byte(
			`{"title": ["This field may not be blank."]}`,
		))
		if e == nil {
			t.Fatal("parseValidationError returned nil for field errors")
		}
		if got := e.Fields["title"][0]; got != "This field may not be blank." {
			t.Errorf("title message = %q", got)
		}
	})

	t.Run("single string value", func(t *testing.T) {
		e := parseValidationError([]byte(`{"detail": "Malformed request."}`))
		if e == nil {
			t.Fatal("parseValidationError returned nil for detail string")
		}
		if got := e.Flatten(); got != "Malformed request." {
			t.Errorf("Flatten() = %q", got)
		}
	})

	t.Run("non-object body", func(t *testing.T) {
		if e := parseValidationError([]byte(`["oops"]`)); e != nil {
			t.Errorf("expected nil for array body, got %v", e)
		}
	})

	t.Run("nested object values", func(t *testing.T) {
		if e := parseValidationError([]byte(`{"config": {"x": 1}}`)); e != nil {
			t.Errorf("expected nil for nested object, got %v", e)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		if e := parseValidationError(nil); e != nil {
			t.Errorf("expected nil for empty body, got %v", e)
		}
	})
}
