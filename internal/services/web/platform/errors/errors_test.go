package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid input", err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{name: "unauthorized", err: E(KindUnauthorized, "face not recognized"), want: http.StatusUnauthorized},
		{name: "unavailable", err: E(KindUnavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "conflict", err: E(KindConflict, "busy"), want: http.StatusConflict},
		{name: "not found", err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{name: "unknown", err: E(KindUnknown, "unknown"), want: http.StatusInternalServerError},
		{name: "untyped", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("submit: %w", E(KindConflict, "busy")), want: http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorStringFallsBackToKind(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindUnavailable}
	if got := err.Error(); got != string(KindUnavailable) {
		t.Fatalf("Error() = %q, want %q", got, string(KindUnavailable))
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("LocalizationKey(nil) = %q, want empty", got)
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q, want empty", got)
	}
	err := fmt.Errorf("wrap: %w", EK(KindInvalidInput, " capture.username_required ", "Please enter a username first"))
	if got := LocalizationKey(err); got != "capture.username_required" {
		t.Fatalf("LocalizationKey() = %q, want %q", got, "capture.username_required")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("KindOf(plain) = %q, want %q", got, KindUnknown)
	}
	if got := KindOf(E(KindUnauthorized, "no")); got != KindUnauthorized {
		t.Fatalf("KindOf() = %q, want %q", got, KindUnauthorized)
	}
}
