package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Sea View Hotel", want: "Sea View Hotel"},
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "escapes html", input: "<b>bold</b>", want: "&lt;b&gt;bold&lt;/b&gt;"},
		{name: "strips control characters", input: "a\x00b\x1fc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInput(tt.input); got != tt.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  Guest@StayHaven.APP ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "guest@stayhaven.app" {
		t.Errorf("got %q", got)
	}

	for _, bad := range []string{"", "not-an-email", "a@b", "user@.com"} {
		if _, err := SanitizeEmail(bad); err == nil {
			t.Errorf("SanitizeEmail(%q) should fail", bad)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "formatted number", input: "+1 (555) 012-3456", want: "+15550123456"},
		{name: "missing plus gets one", input: "9613123456", want: "+9613123456"},
		{name: "empty allowed", input: "", want: ""},
		{name: "too short", input: "+123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePhone(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationFieldErrors(t *testing.T) {
	type payload struct {
		Email  string `validate:"required,email"`
		Rating int    `validate:"min=1,max=5"`
		Status string `validate:"oneof=pending approved"`
	}

	err := validator.New().Struct(payload{Email: "nope", Rating: 9, Status: "draft"})
	if err == nil {
		t.Fatal("validation should fail")
	}

	messages := ValidationFieldErrors(err)
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3: %v", len(messages), messages)
	}

	joined := strings.Join(messages, "; ")
	for _, want := range []string{"Email must be a valid email", "Rating must be at most 5", "Status must be one of"} {
		if !strings.Contains(joined, want) {
			t.Errorf("messages missing %q: %v", want, messages)
		}
	}
}

func TestValidationFieldErrorsNonValidatorError(t *testing.T) {
	messages := ValidationFieldErrors(errors.New("bind failed"))
	if len(messages) != 1 || messages[0] != "invalid request body" {
		t.Errorf("got %v", messages)
	}
}
